package mocks

import (
	"context"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of calendar.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Schedule(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.BusyPeriod), args.Error(1)
}

func (m *MockProvider) CalendarView(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.BusyPeriod), args.Error(1)
}

func (m *MockProvider) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendar.CreatedEvent), args.Error(1)
}
