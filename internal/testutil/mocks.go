package testutil

import (
	"context"
	"sync"

	"github.com/omriShneor/salesdesk/internal/notify"
)

// RecordingNotifier is a notify.Notifier that keeps every email it is given
type RecordingNotifier struct {
	mu         sync.Mutex
	sent       []notify.Email
	configured bool
	err        error
}

// NewRecordingNotifier creates a configured notifier that accepts all email.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{configured: true}
}

func (m *RecordingNotifier) Send(_ context.Context, email notify.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *RecordingNotifier) Name() string {
	return "recording"
}

func (m *RecordingNotifier) IsConfigured() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configured
}

// SetConfigured toggles whether the notifier reports itself usable.
func (m *RecordingNotifier) SetConfigured(configured bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = configured
}

// FailWith makes subsequent sends return err.
func (m *RecordingNotifier) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Sent returns the emails delivered so far.
func (m *RecordingNotifier) Sent() []notify.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Email{}, m.sent...)
}
