package scheduler

import (
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

// MeetingKind selects between an online meeting and a physical one.
type MeetingKind string

const (
	MeetingKindVideo    MeetingKind = "video"
	MeetingKindInPerson MeetingKind = "in_person"
)

// MeetingRequest is everything needed to put one meeting on the calendar.
// Location is required for in-person meetings and ignored otherwise.
type MeetingRequest struct {
	Subject     string            `json:"subject"`
	Start       time.Time         `json:"start"`
	Duration    time.Duration     `json:"-"`
	Attendee    calendar.Attendee `json:"attendee"`
	Kind        MeetingKind       `json:"kind"`
	Location    string            `json:"location,omitempty"`
	Description string            `json:"description,omitempty"`
}

// End returns Start plus Duration.
func (r MeetingRequest) End() time.Time {
	return r.Start.Add(r.Duration)
}

// Validate checks the request without contacting the provider.
func (r MeetingRequest) Validate() error {
	switch r.Kind {
	case MeetingKindVideo:
	case MeetingKindInPerson:
		if strings.TrimSpace(r.Location) == "" {
			return fmt.Errorf("%w: in-person meeting needs a location", ErrInvalidMeeting)
		}
	default:
		return fmt.Errorf("%w: unknown meeting kind %q", ErrInvalidMeeting, r.Kind)
	}

	if r.Start.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidMeeting)
	}
	if r.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidMeeting)
	}
	if _, err := mail.ParseAddress(r.Attendee.Email); err != nil {
		return fmt.Errorf("%w: attendee email %q: %v", ErrInvalidMeeting, r.Attendee.Email, err)
	}
	return nil
}

// MeetingResult reports the outcome of a booking. On failure Success is
// false and Error describes why; Err keeps the typed cause for callers.
type MeetingResult struct {
	Success   bool      `json:"success"`
	EventID   string    `json:"event_id,omitempty"`
	JoinURL   string    `json:"join_url,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Error     string    `json:"error,omitempty"`
	Err       error     `json:"-"`
}

// CreateVideoMeeting books an online meeting with a join link.
func (s *Scheduler) CreateVideoMeeting(ctx context.Context, req MeetingRequest) MeetingResult {
	req.Kind = MeetingKindVideo
	return s.CreateMeeting(ctx, req)
}

// CreateInPersonMeeting books a meeting at req.Location.
func (s *Scheduler) CreateInPersonMeeting(ctx context.Context, req MeetingRequest) MeetingResult {
	req.Kind = MeetingKindInPerson
	return s.CreateMeeting(ctx, req)
}

// CreateMeeting creates the event on the organizer's calendar, which sends
// the invite to the attendee. Failures are returned in the result, never
// dropped.
func (s *Scheduler) CreateMeeting(ctx context.Context, req MeetingRequest) MeetingResult {
	req = s.withDefaults(req)
	result := MeetingResult{StartTime: req.Start, EndTime: req.End()}

	if err := req.Validate(); err != nil {
		result.Err = err
		result.Error = err.Error()
		return result
	}

	input := calendar.EventInput{
		Subject:  req.Subject,
		BodyHTML: meetingBodyHTML(req, s.loc),
		Start:    req.Start,
		End:      req.End(),
		Attendee: req.Attendee,
		Online:   req.Kind == MeetingKindVideo,
	}
	if req.Kind == MeetingKindInPerson {
		input.Location = strings.TrimSpace(req.Location)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	created, err := s.provider.CreateEvent(callCtx, input)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrBookingFailed, err)
		s.log.Error("failed to create meeting", err,
			"provider", s.provider.Name(), "kind", string(req.Kind), "start", req.Start)
		result.Err = err
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.EventID = created.ID
	result.JoinURL = created.JoinURL
	s.log.Info("meeting booked",
		"provider", s.provider.Name(), "kind", string(req.Kind), "event_id", created.ID, "start", req.Start)
	return result
}

func (s *Scheduler) withDefaults(req MeetingRequest) MeetingRequest {
	if req.Duration == 0 {
		req.Duration = s.duration
	}
	if strings.TrimSpace(req.Subject) == "" {
		name := req.Attendee.Name
		if name == "" {
			name = req.Attendee.Email
		}
		req.Subject = "Meeting with " + name
	}
	if !req.Start.IsZero() {
		req.Start = req.Start.In(s.loc)
	}
	return req
}

func meetingBodyHTML(req MeetingRequest, loc *time.Location) string {
	var b strings.Builder

	if req.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(req.Description))
	}
	fmt.Fprintf(&b, "<p>%s at %s (%d minutes)</p>",
		html.EscapeString(timeutil.FormatDate(req.Start, loc)),
		timeutil.FormatTimeSlot(req.Start, loc),
		int(req.Duration.Minutes()))

	attendee := html.EscapeString(req.Attendee.Email)
	if req.Attendee.Name != "" {
		attendee = fmt.Sprintf("%s &lt;%s&gt;", html.EscapeString(req.Attendee.Name), attendee)
	}
	fmt.Fprintf(&b, "<p>Attendee: %s</p>", attendee)

	if req.Kind == MeetingKindInPerson {
		fmt.Fprintf(&b, "<p>Location: %s</p>", html.EscapeString(req.Location))
	} else {
		b.WriteString("<p>A video link is included in this invitation.</p>")
	}

	return b.String()
}
