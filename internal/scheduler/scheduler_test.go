package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

func newTestScheduler(t *testing.T, provider calendar.Provider, now time.Time, opts ...func(*Config)) *Scheduler {
	t.Helper()
	cfg := Config{
		Location:       london(t),
		FailOpen:       true,
		RequestTimeout: time.Second,
		Phrases:        PlainPhrases{},
		Now:            func() time.Time { return now },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return New(provider, cfg)
}

func day(t *testing.T, month time.Month, d, hour, minute int) time.Time {
	return time.Date(2026, month, d, hour, minute, 0, 0, london(t))
}

// blockingProvider hangs on every call until the context gives up.
type blockingProvider struct{}

func (blockingProvider) Name() string { return "blocking" }

func (blockingProvider) Schedule(ctx context.Context, _, _ time.Time) ([]calendar.BusyPeriod, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) CalendarView(ctx context.Context, _, _ time.Time) ([]calendar.BusyPeriod, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) CreateEvent(ctx context.Context, _ calendar.EventInput) (*calendar.CreatedEvent, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// unconfiguredProvider has no credentials for any call.
type unconfiguredProvider struct{}

func (unconfiguredProvider) Name() string { return "unconfigured" }

func (unconfiguredProvider) Schedule(context.Context, time.Time, time.Time) ([]calendar.BusyPeriod, error) {
	return nil, calendar.ErrNotConfigured
}

func (unconfiguredProvider) CalendarView(context.Context, time.Time, time.Time) ([]calendar.BusyPeriod, error) {
	return nil, calendar.ErrNotConfigured
}

func (unconfiguredProvider) CreateEvent(context.Context, calendar.EventInput) (*calendar.CreatedEvent, error) {
	return nil, calendar.ErrNotConfigured
}
