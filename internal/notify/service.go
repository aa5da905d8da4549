package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/omriShneor/salesdesk/internal/logger"
	"github.com/omriShneor/salesdesk/internal/scheduler"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

// Service hands bookings the calendar rejected to a human by email.
type Service struct {
	email     Notifier
	recipient string
	loc       *time.Location
	log       logger.Logger
	now       func() time.Time
}

// NewService creates a notification service that mails recipient.
func NewService(email Notifier, recipient string, loc *time.Location, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		email:     email,
		recipient: recipient,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// IsEmailAvailable returns true if email notifications can be used
func (s *Service) IsEmailAvailable() bool {
	return s.email != nil && s.email.IsConfigured() && s.recipient != ""
}

// NotifyBookingRequest emails the meeting details and an .ics invite so
// someone can confirm the booking manually.
func (s *Service) NotifyBookingRequest(ctx context.Context, req scheduler.MeetingRequest, cause error) error {
	if !s.IsEmailAvailable() {
		return ErrNotConfigured
	}

	invite, err := BuildInvite(req, s.now())
	if err != nil {
		return err
	}

	email := Email{
		To:          []string{s.recipient},
		Subject:     fmt.Sprintf("Booking request: %s", req.Subject),
		HTML:        s.formatBookingHTML(req, cause),
		Attachments: []Attachment{{Filename: "meeting.ics", Content: invite}},
	}

	if err := s.email.Send(ctx, email); err != nil {
		s.log.Error("booking request email failed", err, "notifier", s.email.Name(), "recipient", s.recipient)
		return err
	}

	s.log.Info("booking request emailed", "notifier", s.email.Name(), "recipient", s.recipient,
		"attendee", req.Attendee.Email)
	return nil
}

func (s *Service) formatBookingHTML(req scheduler.MeetingRequest, cause error) string {
	where := "Video call"
	if req.Kind == scheduler.MeetingKindInPerson {
		where = req.Location
	}

	reason := "unknown error"
	if cause != nil {
		reason = cause.Error()
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>
  <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; border-left: 4px solid #dc3545;">
    <p style="margin: 8px 0;"><strong>When:</strong> %s at %s (%d minutes)</p>
    <p style="margin: 8px 0;"><strong>Where:</strong> %s</p>
    <p style="margin: 8px 0;"><strong>Prospect:</strong> %s &lt;%s&gt;</p>
  </div>
  <p style="margin: 16px 0;">%s</p>
  <p style="color: #999; font-size: 12px;">The calendar could not create this event (%s). The attached invite can be imported once the time is confirmed.</p>
</body>
</html>`,
		html.EscapeString(req.Subject),
		timeutil.FormatDate(req.Start, s.loc),
		timeutil.FormatTimeSlot(req.Start, s.loc),
		int(req.Duration.Minutes()),
		html.EscapeString(where),
		html.EscapeString(req.Attendee.Name),
		html.EscapeString(req.Attendee.Email),
		html.EscapeString(req.Description),
		html.EscapeString(reason),
	)
}
