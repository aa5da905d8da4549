package gcal

import (
	"context"
	"fmt"

	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendar = "primary"

// Client wraps the Google Calendar API for the organizer's calendar.
type Client struct {
	service    *calendarapi.Service
	calendarID string
}

// NewClient creates a Google Calendar client from an OAuth client file and
// an already authorized organizer token. The token refreshes itself.
func NewClient(ctx context.Context, credentialsFile, tokenFile, calendarID string) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	httpClient := config.Client(ctx, token)
	service, err := calendarapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return NewClientWithService(service, calendarID), nil
}

// NewClientWithService wraps an existing Calendar service.
func NewClientWithService(service *calendarapi.Service, calendarID string) *Client {
	if calendarID == "" {
		calendarID = primaryCalendar
	}
	return &Client{
		service:    service,
		calendarID: calendarID,
	}
}

func (c *Client) Name() string {
	return "google"
}
