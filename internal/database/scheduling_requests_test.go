package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSchedulingRequest(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	resolved := time.Date(2026, time.October, 20, 13, 0, 0, 0, time.UTC)
	req := &SchedulingRequest{
		RawText:         "next Tuesday at 2pm",
		ResolvedTime:    &resolved,
		DurationMinutes: 30,
		MeetingKind:     "video",
		AttendeeName:    "Dana Prospect",
		AttendeeEmail:   "dana@example.com",
		State:           "BOOKED",
		EventID:         "evt-1",
	}
	require.NoError(t, db.RecordSchedulingRequest(ctx, req))
	assert.NotZero(t, req.ID)

	got, err := db.ListSchedulingRequests(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, req.ID, got[0].ID)
	assert.Equal(t, "next Tuesday at 2pm", got[0].RawText)
	require.NotNil(t, got[0].ResolvedTime)
	assert.True(t, resolved.Equal(*got[0].ResolvedTime))
	assert.Equal(t, "BOOKED", got[0].State)
	assert.Equal(t, "evt-1", got[0].EventID)
	assert.Empty(t, got[0].Error)
}

func TestRecordSchedulingRequest_Unresolved(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordSchedulingRequest(ctx, &SchedulingRequest{
		RawText:       "whenever",
		MeetingKind:   "video",
		AttendeeEmail: "dana@example.com",
		State:         "CLARIFY",
	}))

	got, err := db.ListSchedulingRequests(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].ResolvedTime)
	assert.Empty(t, got[0].EventID)
}

func TestListSchedulingRequests_NewestFirstWithLimit(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		require.NoError(t, db.RecordSchedulingRequest(ctx, &SchedulingRequest{
			RawText:       text,
			MeetingKind:   "video",
			AttendeeEmail: "dana@example.com",
			State:         "BUSY",
		}))
	}

	got, err := db.ListSchedulingRequests(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].RawText)
	assert.Equal(t, "second", got[1].RawText)
}

func TestCountSchedulingRequestsByState(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	for _, state := range []string{"BOOKED", "BOOKED", "FALLBACK", "CLARIFY"} {
		require.NoError(t, db.RecordSchedulingRequest(ctx, &SchedulingRequest{
			RawText:       "x",
			MeetingKind:   "video",
			AttendeeEmail: "dana@example.com",
			State:         state,
		}))
	}

	counts, err := db.CountSchedulingRequestsByState(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"BOOKED": 2, "FALLBACK": 1, "CLARIFY": 1}, counts)
}

func TestClearSchedulingRequests(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.RecordSchedulingRequest(ctx, &SchedulingRequest{
		RawText:       "tomorrow at 3pm",
		MeetingKind:   "video",
		AttendeeEmail: "dana@example.com",
		State:         "BOOKED",
	}))
	require.NoError(t, db.ClearSchedulingRequests(ctx))

	requests, err := db.ListSchedulingRequests(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := t.TempDir() + "/salesdesk.db"

	db, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path, nil)
	require.NoError(t, err)
	defer db.Close()

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 2, applied)
}
