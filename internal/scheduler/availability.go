package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

// Availability is the answer for one requested window. BusyPeriods holds
// only the overlapping intervals, never their content.
type Availability struct {
	Available   bool                  `json:"available"`
	BusyPeriods []calendar.BusyPeriod `json:"busy_slots"`
	Error       string                `json:"error,omitempty"`
}

// CheckAvailability reports whether [start, start+duration) is free. The
// provider's free/busy query is tried first and its calendar view second.
// When neither answers, the fail-open policy decides and Error says why.
// A provider without credentials is returned as calendar.ErrNotConfigured
// and never fails open.
func (s *Scheduler) CheckAvailability(ctx context.Context, start time.Time, duration time.Duration) (Availability, error) {
	end := start.Add(s.durationOrDefault(duration))

	busy, err := s.queryBusy(ctx, start, end, s.provider.Schedule)
	if err == nil {
		return availabilityFrom(busy, start, end), nil
	}
	if errors.Is(err, calendar.ErrNotConfigured) {
		return Availability{}, err
	}
	s.log.Error("free/busy query failed, falling back to calendar view", err,
		"provider", s.provider.Name(), "start", start)

	busy, err = s.queryBusy(ctx, start, end, s.provider.CalendarView)
	if err == nil {
		return availabilityFrom(busy, start, end), nil
	}
	if errors.Is(err, calendar.ErrNotConfigured) {
		return Availability{}, err
	}
	s.log.Error("calendar view query failed", err,
		"provider", s.provider.Name(), "start", start, "fail_open", s.failOpen)

	return Availability{
		Available:   s.failOpen,
		BusyPeriods: []calendar.BusyPeriod{},
		Error:       err.Error(),
	}, nil
}

func (s *Scheduler) queryBusy(ctx context.Context, start, end time.Time,
	query func(context.Context, time.Time, time.Time) ([]calendar.BusyPeriod, error)) ([]calendar.BusyPeriod, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return query(callCtx, start, end)
}

func availabilityFrom(busy []calendar.BusyPeriod, start, end time.Time) Availability {
	overlapping := []calendar.BusyPeriod{}
	for _, b := range busy {
		if b.Overlaps(start, end) {
			overlapping = append(overlapping, b)
		}
	}
	return Availability{Available: len(overlapping) == 0, BusyPeriods: overlapping}
}
