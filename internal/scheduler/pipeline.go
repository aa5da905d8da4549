package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/database"
)

// State is a step of one scheduling request.
type State string

const (
	StateParsing             State = "PARSING"
	StateClarify             State = "CLARIFY"
	StateChecking            State = "CHECKING"
	StateBooking             State = "BOOKING"
	StateBooked              State = "BOOKED"
	StateBookFailed          State = "BOOK_FAILED"
	StateFallback            State = "FALLBACK"
	StateBusy                State = "BUSY"
	StateSuggesting          State = "SUGGESTING"
	StateAlternativesOffered State = "ALTERNATIVES_OFFERED"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	switch s {
	case StateClarify, StateBooked, StateBookFailed, StateFallback, StateAlternativesOffered:
		return true
	}
	return false
}

// ScheduleRequest is a prospect's free-text ask plus who they are.
type ScheduleRequest struct {
	Text        string            `json:"text"`
	Subject     string            `json:"subject,omitempty"`
	Duration    time.Duration     `json:"-"`
	Attendee    calendar.Attendee `json:"attendee"`
	Kind        MeetingKind       `json:"kind"`
	Location    string            `json:"location,omitempty"`
	Description string            `json:"description,omitempty"`
}

func (r ScheduleRequest) meeting(start time.Time) MeetingRequest {
	return MeetingRequest{
		Subject:     r.Subject,
		Start:       start,
		Duration:    r.Duration,
		Attendee:    r.Attendee,
		Kind:        r.Kind,
		Location:    r.Location,
		Description: r.Description,
	}
}

// Outcome is where a request ended up. Trace lists every state visited.
type Outcome struct {
	State        State          `json:"state"`
	Trace        []State        `json:"trace"`
	ResolvedTime *time.Time     `json:"resolved_time,omitempty"`
	Meeting      *MeetingResult `json:"meeting,omitempty"`
	Alternatives []Alternative  `json:"alternatives,omitempty"`
	Phrase       string         `json:"phrase,omitempty"`
}

func (o *Outcome) enter(state State) {
	o.State = state
	o.Trace = append(o.Trace, state)
}

// Schedule runs one request through parse, check and book-or-suggest. It
// returns an error for requests rejected before any calendar call and for
// a provider with no credentials; every other result, including provider
// outages, is in the Outcome.
func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (Outcome, error) {
	if req.Kind == "" {
		req.Kind = MeetingKindVideo
	}
	req.Duration = s.durationOrDefault(req.Duration)

	// Validate with a placeholder start so kind, location and email are
	// checked before anything is parsed or fetched.
	if err := req.meeting(s.now()).Validate(); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	out.enter(StateParsing)

	start, ok := s.ParseTimeRequest(req.Text)
	if !ok {
		out.enter(StateClarify)
		s.record(ctx, req, out, nil)
		return out, nil
	}
	out.ResolvedTime = &start

	out.enter(StateChecking)
	availability, err := s.CheckAvailability(ctx, start, req.Duration)
	if err != nil {
		return out, err
	}

	if availability.Available {
		s.book(ctx, req, start, &out)
	} else {
		out.enter(StateBusy)
		out.enter(StateSuggesting)
		out.Alternatives = s.SuggestAlternatives(ctx, start, req.Duration)
		out.enter(StateAlternativesOffered)
		out.Phrase = s.phrases.Phrase(PhraseBusy)
		if len(out.Alternatives) > 0 {
			out.Phrase += " " + s.phrases.Phrase(PhraseAlternative)
		}
	}

	var cause error
	if out.Meeting != nil {
		cause = out.Meeting.Err
	}
	s.record(ctx, req, out, cause)
	return out, nil
}

func (s *Scheduler) book(ctx context.Context, req ScheduleRequest, start time.Time, out *Outcome) {
	out.enter(StateBooking)

	meeting := s.withDefaults(req.meeting(start))
	result := s.CreateMeeting(ctx, meeting)
	out.Meeting = &result

	if result.Success {
		out.enter(StateBooked)
		out.Phrase = s.phrases.Phrase(PhraseAvailable)
		return
	}

	out.enter(StateBookFailed)
	if s.fallback == nil {
		return
	}

	if err := s.fallback.NotifyBookingRequest(ctx, meeting, result.Err); err != nil {
		s.log.Error("fallback notification failed", err, "start", start)
		return
	}
	out.enter(StateFallback)
}

func (s *Scheduler) record(ctx context.Context, req ScheduleRequest, out Outcome, cause error) {
	if s.recorder == nil {
		return
	}

	row := &database.SchedulingRequest{
		RawText:             req.Text,
		ResolvedTime:        out.ResolvedTime,
		DurationMinutes:     int(req.Duration.Minutes()),
		MeetingKind:         string(req.Kind),
		AttendeeName:        req.Attendee.Name,
		AttendeeEmail:       req.Attendee.Email,
		State:               string(out.State),
		AlternativesOffered: len(out.Alternatives),
	}
	if out.Meeting != nil {
		row.EventID = out.Meeting.EventID
	}
	if cause != nil {
		row.Error = cause.Error()
	}

	if err := s.recorder.RecordSchedulingRequest(ctx, row); err != nil {
		s.log.Error("failed to record scheduling request", err, "state", string(out.State))
	}
}

// IsBookingFailure reports whether err came from the provider rejecting
// an event rather than from validation.
func IsBookingFailure(err error) bool {
	return errors.Is(err, ErrBookingFailed)
}
