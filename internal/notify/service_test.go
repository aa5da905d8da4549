package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockNotifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, email Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockNotifier) Name() string {
	return "mock"
}

func (m *MockNotifier) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func bookingRequest() scheduler.MeetingRequest {
	return scheduler.MeetingRequest{
		Subject:     "Intro <call>",
		Start:       time.Date(2026, time.October, 20, 13, 0, 0, 0, time.UTC),
		Duration:    30 * time.Minute,
		Attendee:    calendar.Attendee{Name: "Dana", Email: "dana@example.com"},
		Kind:        scheduler.MeetingKindVideo,
		Description: "Wants a demo",
	}
}

func TestIsEmailAvailable(t *testing.T) {
	t.Run("available when notifier configured", func(t *testing.T) {
		n := &MockNotifier{}
		n.On("IsConfigured").Return(true)
		assert.True(t, NewService(n, "sales@example.com", nil, nil).IsEmailAvailable())
	})

	t.Run("unavailable without recipient", func(t *testing.T) {
		n := &MockNotifier{}
		n.On("IsConfigured").Return(true)
		assert.False(t, NewService(n, "", nil, nil).IsEmailAvailable())
	})

	t.Run("unavailable when notifier not configured", func(t *testing.T) {
		n := &MockNotifier{}
		n.On("IsConfigured").Return(false)
		assert.False(t, NewService(n, "sales@example.com", nil, nil).IsEmailAvailable())
	})

	t.Run("unavailable with nil notifier", func(t *testing.T) {
		assert.False(t, NewService(nil, "sales@example.com", nil, nil).IsEmailAvailable())
	})
}

func TestNotifyBookingRequest(t *testing.T) {
	n := &MockNotifier{}
	n.On("IsConfigured").Return(true)
	n.On("Send", mock.Anything, mock.MatchedBy(func(e Email) bool {
		return len(e.To) == 1 && e.To[0] == "sales@example.com" &&
			e.Subject == "Booking request: Intro <call>" &&
			len(e.Attachments) == 1 && e.Attachments[0].Filename == "meeting.ics"
	})).Return(nil)

	s := NewService(n, "sales@example.com", time.UTC, nil)
	err := s.NotifyBookingRequest(context.Background(), bookingRequest(), errors.New("graph returned 403"))
	require.NoError(t, err)

	n.AssertExpectations(t)
	email := n.Calls[len(n.Calls)-1].Arguments.Get(1).(Email)
	assert.Contains(t, email.HTML, "Intro &lt;call&gt;")
	assert.Contains(t, email.HTML, "Tuesday, 20 October at 13:00")
	assert.Contains(t, email.HTML, "graph returned 403")
	assert.Contains(t, string(email.Attachments[0].Content), "BEGIN:VCALENDAR")
}

func TestNotifyBookingRequest_NotConfigured(t *testing.T) {
	n := &MockNotifier{}
	n.On("IsConfigured").Return(false)

	err := NewService(n, "sales@example.com", nil, nil).NotifyBookingRequest(context.Background(), bookingRequest(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifyBookingRequest_SendFailure(t *testing.T) {
	n := &MockNotifier{}
	n.On("IsConfigured").Return(true)
	n.On("Send", mock.Anything, mock.Anything).Return(errors.New("resend down"))

	err := NewService(n, "sales@example.com", nil, nil).NotifyBookingRequest(context.Background(), bookingRequest(), nil)
	assert.ErrorContains(t, err, "resend down")
}
