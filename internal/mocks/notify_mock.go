package mocks

import (
	"context"

	"github.com/omriShneor/salesdesk/internal/database"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/stretchr/testify/mock"
)

// MockFallbackNotifier is a mock implementation of scheduler.FallbackNotifier
type MockFallbackNotifier struct {
	mock.Mock
}

func (m *MockFallbackNotifier) NotifyBookingRequest(ctx context.Context, req scheduler.MeetingRequest, cause error) error {
	args := m.Called(ctx, req, cause)
	return args.Error(0)
}

// MockRecorder is a mock implementation of scheduler.Recorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordSchedulingRequest(ctx context.Context, req *database.SchedulingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
