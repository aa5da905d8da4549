package scheduler

import "errors"

var (
	// ErrInvalidMeeting is returned before any network call when a meeting
	// request cannot be booked as given.
	ErrInvalidMeeting = errors.New("invalid meeting request")
	// ErrBookingFailed marks a provider-side rejection or failure of event creation.
	ErrBookingFailed = errors.New("booking failed")
)
