package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryProvider is an in-process calendar used by the test server and tests.
type MemoryProvider struct {
	mu       sync.Mutex
	busy     []BusyPeriod
	created  []EventInput
	nextID   int
	joinBase string

	// Failure injection
	ScheduleErr error
	ViewErr     error
	CreateErr   error
}

// NewMemoryProvider creates an empty in-memory calendar.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{joinBase: "https://meet.example.com/"}
}

func (m *MemoryProvider) Name() string {
	return "memory"
}

// AddBusy marks [start, end) as occupied.
func (m *MemoryProvider) AddBusy(start, end time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := NewBusyPeriod(start, end); ok {
		m.busy = append(m.busy, p)
	}
}

// Reset clears busy periods, created events and injected failures.
func (m *MemoryProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = nil
	m.created = nil
	m.ScheduleErr = nil
	m.ViewErr = nil
	m.CreateErr = nil
}

// Fail injects errors returned by subsequent calls. nil clears a failure.
func (m *MemoryProvider) Fail(schedule, view, create error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScheduleErr = schedule
	m.ViewErr = view
	m.CreateErr = create
}

// Created returns the events created so far.
func (m *MemoryProvider) Created() []EventInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EventInput{}, m.created...)
}

func (m *MemoryProvider) Schedule(_ context.Context, start, end time.Time) ([]BusyPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScheduleErr != nil {
		return nil, injectedFailure(m.ScheduleErr)
	}
	return m.overlapping(start, end), nil
}

func (m *MemoryProvider) CalendarView(_ context.Context, start, end time.Time) ([]BusyPeriod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ViewErr != nil {
		return nil, injectedFailure(m.ViewErr)
	}
	return m.overlapping(start, end), nil
}

func (m *MemoryProvider) CreateEvent(_ context.Context, input EventInput) (*CreatedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, injectedFailure(m.CreateErr)
	}

	m.nextID++
	id := fmt.Sprintf("mem-%d", m.nextID)
	m.created = append(m.created, input)
	if p, ok := NewBusyPeriod(input.Start, input.End); ok {
		m.busy = append(m.busy, p)
	}

	created := &CreatedEvent{ID: id}
	if input.Online {
		created.JoinURL = m.joinBase + id
	}
	return created, nil
}

func (m *MemoryProvider) overlapping(start, end time.Time) []BusyPeriod {
	var result []BusyPeriod
	for _, p := range m.busy {
		if p.Overlaps(start, end) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result
}

// injectedFailure wraps err like a real provider outage. Missing
// credentials pass through unwrapped, as the Graph adapter does.
func injectedFailure(err error) error {
	if errors.Is(err, ErrNotConfigured) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
