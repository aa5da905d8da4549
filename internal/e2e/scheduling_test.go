package e2e

import (
	"net/http"
	"testing"
	"time"

	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Free calendar: parse, check and book a video call step by step.
func TestNextTuesdayOnFreeCalendarBooksVideoCall(t *testing.T) {
	ts := testutil.NewTestServer(t)

	var parsed struct {
		OK           bool      `json:"ok"`
		ResolvedTime time.Time `json:"resolved_time"`
	}
	require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule/parse", map[string]string{"text": "next Tuesday at 2pm"}, &parsed))
	require.True(t, parsed.OK)
	assert.Equal(t, time.Tuesday, parsed.ResolvedTime.In(ts.Location).Weekday())
	assert.Equal(t, 14, parsed.ResolvedTime.In(ts.Location).Hour())

	start := parsed.ResolvedTime.Format(time.RFC3339)

	var availability struct {
		Available bool `json:"available"`
	}
	require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule/availability", map[string]string{"start": start}, &availability))
	require.True(t, availability.Available)

	var result scheduler.MeetingResult
	status := postJSON(t, ts, "/api/meetings/video", map[string]interface{}{
		"subject":  "Intro call",
		"start":    start,
		"attendee": prospect(),
	}, &result)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.JoinURL)

	created := ts.Calendar.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "dana@example.com", created[0].Attendee.Email)
	assert.True(t, created[0].Online)
}

// Requested slot taken: the pipeline offers a nearby slot and a next-morning one.
func TestBusySlotOffersDatedAlternatives(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewBusyBuilder(ts.Day(20)).
		Block("12:00", "13:00").
		Block("13:30", "17:00").
		MustApply(ts.Calendar)
	testutil.NewBusyBuilder(ts.Day(21)).
		Block("09:00", "09:30").
		MustApply(ts.Calendar)

	var outcome scheduler.Outcome
	status := postJSON(t, ts, "/api/schedule", map[string]interface{}{
		"text":     "Tuesday at 2pm",
		"attendee": prospect(),
	}, &outcome)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, scheduler.StateAlternativesOffered, outcome.State)
	require.Len(t, outcome.Alternatives, 2)
	assert.Equal(t, "13:00 on Tuesday, 20 October", outcome.Alternatives[0].Display)
	assert.Equal(t, "09:30 on Wednesday, 21 October", outcome.Alternatives[1].Display)
	assert.Empty(t, ts.Calendar.Created())

	// Picking the first alternative books it.
	var booked scheduler.Outcome
	require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule", map[string]interface{}{
		"text":     "20 October at 13:00",
		"attendee": prospect(),
	}, &booked))
	assert.Equal(t, scheduler.StateBooked, booked.State)
	require.NotNil(t, booked.Meeting)
	assert.NotEmpty(t, booked.Meeting.JoinURL)
}

func TestUnclearRequestAsksToRephrase(t *testing.T) {
	ts := testutil.NewTestServer(t)

	var outcome scheduler.Outcome
	require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule", map[string]interface{}{
		"text":     "whenever works for you",
		"attendee": prospect(),
	}, &outcome))

	assert.Equal(t, scheduler.StateClarify, outcome.State)
	assert.Nil(t, outcome.ResolvedTime)
	assert.Empty(t, ts.Calendar.Created())
}

func TestInPersonMeetingFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)

	var outcome scheduler.Outcome
	require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule", map[string]interface{}{
		"text":     "thursday 11am",
		"kind":     "in_person",
		"location": "Client HQ, 3 Dock Road",
		"attendee": prospect(),
	}, &outcome))

	assert.Equal(t, scheduler.StateBooked, outcome.State)
	require.NotNil(t, outcome.Meeting)
	assert.Empty(t, outcome.Meeting.JoinURL)

	created := ts.Calendar.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "Client HQ, 3 Dock Road", created[0].Location)
	assert.False(t, created[0].Online)
}

func TestRequestLogTracksOutcomes(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewBusyBuilder(ts.Day(20)).AllDay().MustApply(ts.Calendar)

	for _, text := range []string{"tomorrow 10am", "wednesday 10am", "no idea"} {
		require.Equal(t, http.StatusOK, postJSON(t, ts, "/api/schedule", map[string]interface{}{
			"text":     text,
			"attendee": prospect(),
		}, nil))
	}

	var log struct {
		Requests []database.SchedulingRequest `json:"requests"`
		Counts   map[string]int               `json:"counts"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, ts, "/api/schedule/requests", &log))
	require.Len(t, log.Requests, 3)
	assert.Equal(t, map[string]int{
		"ALTERNATIVES_OFFERED": 1,
		"BOOKED":               1,
		"CLARIFY":              1,
	}, log.Counts)

	for _, r := range log.Requests {
		assert.Equal(t, "dana@example.com", r.AttendeeEmail)
	}
}
