// Package scheduler turns free-text meeting requests into booked meetings
// on the organizer's calendar, or into alternative suggestions when the
// requested time is taken. How busy the calendar really is never leaves
// this package: callers get a yes/no, a few alternatives, and phrases from
// a PhraseProvider.
package scheduler

import (
	"context"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/logger"
)

const (
	defaultBusinessStart  = 9
	defaultBusinessEnd    = 18
	defaultDuration       = 30 * time.Minute
	slotStep              = 30 * time.Minute
	defaultRequestTimeout = 10 * time.Second
)

// Recorder persists one line per pipeline run.
type Recorder interface {
	RecordSchedulingRequest(ctx context.Context, req *database.SchedulingRequest) error
}

// FallbackNotifier hands a booking that could not be created to a human.
type FallbackNotifier interface {
	NotifyBookingRequest(ctx context.Context, req MeetingRequest, cause error) error
}

// Config holds scheduling policy and collaborators. Zero values get defaults.
type Config struct {
	Location          *time.Location
	BusinessStartHour int
	BusinessEndHour   int
	DefaultDuration   time.Duration
	// FailOpen treats a window as available when the calendar cannot be read.
	FailOpen       bool
	RequestTimeout time.Duration

	Phrases  PhraseProvider
	Logger   logger.Logger
	Recorder Recorder
	Fallback FallbackNotifier
	Now      func() time.Time
}

// Scheduler runs the parse → check → book-or-suggest pipeline against one
// organizer calendar.
type Scheduler struct {
	provider calendar.Provider
	loc      *time.Location

	businessStart  int
	businessEnd    int
	duration       time.Duration
	failOpen       bool
	requestTimeout time.Duration

	phrases  PhraseProvider
	log      logger.Logger
	recorder Recorder
	fallback FallbackNotifier
	now      func() time.Time
}

// New creates a Scheduler for the given provider.
func New(provider calendar.Provider, cfg Config) *Scheduler {
	s := &Scheduler{
		provider:       provider,
		loc:            cfg.Location,
		businessStart:  cfg.BusinessStartHour,
		businessEnd:    cfg.BusinessEndHour,
		duration:       cfg.DefaultDuration,
		failOpen:       cfg.FailOpen,
		requestTimeout: cfg.RequestTimeout,
		phrases:        cfg.Phrases,
		log:            cfg.Logger,
		recorder:       cfg.Recorder,
		fallback:       cfg.Fallback,
		now:            cfg.Now,
	}

	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.businessStart == 0 && s.businessEnd == 0 {
		s.businessStart, s.businessEnd = defaultBusinessStart, defaultBusinessEnd
	}
	if s.duration <= 0 {
		s.duration = defaultDuration
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = defaultRequestTimeout
	}
	if s.phrases == nil {
		s.phrases = NewOpaquePhrases()
	}
	if s.log == nil {
		s.log = logger.NewNoOpLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

// Location returns the organizer's timezone.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// DefaultDuration returns the meeting length used when callers give none.
func (s *Scheduler) DefaultDuration() time.Duration {
	return s.duration
}

// Phrase returns a status phrase from the configured PhraseProvider.
func (s *Scheduler) Phrase(category PhraseCategory) string {
	return s.phrases.Phrase(category)
}

// callContext bounds one outbound provider call. A timeout surfaces as a
// provider error and takes the same fail-open or booking-failed path.
func (s *Scheduler) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.requestTimeout)
}

func (s *Scheduler) durationOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return s.duration
	}
	return d
}
