package notify

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no notifier can deliver the message.
var ErrNotConfigured = errors.New("notifier not configured")

// Email is one outgoing message.
type Email struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Attachment is a file sent along with an Email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Notifier delivers emails to a human
type Notifier interface {
	// Send delivers the email or returns why it could not
	Send(ctx context.Context, email Email) error
	// Name returns the notifier type name (for logging)
	Name() string
	// IsConfigured returns true if the notifier has server-side config
	IsConfigured() bool
}
