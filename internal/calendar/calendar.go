// Package calendar defines the provider-neutral view of the organizer's
// calendar used by the scheduler. Providers only ever hand back busy
// intervals; event subjects and attendees never leave the adapter.
package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrProviderUnavailable wraps every network, auth or decode failure from a calendar provider.
var ErrProviderUnavailable = errors.New("calendar provider unavailable")

// ErrNotConfigured means the provider lacks credentials. It is never
// wrapped with ErrProviderUnavailable and never fails open.
var ErrNotConfigured = errors.New("calendar provider not configured")

// BusyPeriod is an occupied half-open interval [Start, End).
type BusyPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewBusyPeriod returns a BusyPeriod, rejecting intervals whose end is not after start.
func NewBusyPeriod(start, end time.Time) (BusyPeriod, bool) {
	if !end.After(start) {
		return BusyPeriod{}, false
	}
	return BusyPeriod{Start: start, End: end}, true
}

// Overlaps reports whether [start, end) intersects the busy period.
func (b BusyPeriod) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// AnyOverlap reports whether [start, end) intersects any of the periods.
func AnyOverlap(periods []BusyPeriod, start, end time.Time) bool {
	for _, p := range periods {
		if p.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Attendee is the single required invitee of a booked meeting.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EventInput is what the booker asks a provider to create on the organizer's calendar.
type EventInput struct {
	Subject  string
	BodyHTML string
	Start    time.Time
	End      time.Time
	Attendee Attendee
	Location string
	Online   bool
}

// CreatedEvent is the provider's answer to a successful event creation.
type CreatedEvent struct {
	ID      string
	JoinURL string
}

// Provider is a calendar backend for a single organizer.
type Provider interface {
	// Name identifies the backend in logs.
	Name() string
	// Schedule queries the free/busy endpoint for [start, end).
	Schedule(ctx context.Context, start, end time.Time) ([]BusyPeriod, error)
	// CalendarView lists events in [start, end) reduced to their intervals.
	CalendarView(ctx context.Context, start, end time.Time) ([]BusyPeriod, error)
	// CreateEvent creates an event on the organizer's calendar and invites the attendee.
	CreateEvent(ctx context.Context, input EventInput) (*CreatedEvent, error)
}
