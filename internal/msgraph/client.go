package msgraph

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

const (
	graphTimeLayout        = "2006-01-02T15:04:05.9999999"
	scheduleIntervalMinute = 30
	onlineMeetingProvider  = "teamsForBusiness"
)

var ErrUnexpectedStatus = errors.New("unexpected graph response status")

// TokenSource hands out bearer tokens for Graph requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientConfig configures a Graph calendar client for one organizer mailbox.
type ClientConfig struct {
	BaseURL    string
	Organizer  string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// Client talks to the Microsoft Graph calendar endpoints of the organizer.
type Client struct {
	baseURL    string
	organizer  string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a Graph calendar client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com/v1.0"
	}

	return &Client{
		baseURL:    baseURL,
		organizer:  cfg.Organizer,
		tokens:     cfg.Tokens,
		httpClient: httpClient,
	}
}

func (c *Client) Name() string {
	return "graph"
}

type dateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

func toGraphTime(t time.Time) dateTimeTimeZone {
	return dateTimeTimeZone{
		DateTime: t.UTC().Format(graphTimeLayout),
		TimeZone: "UTC",
	}
}

func (d dateTimeTimeZone) parse() (time.Time, error) {
	loc := time.UTC
	if d.TimeZone != "" && d.TimeZone != "UTC" {
		if l, err := time.LoadLocation(d.TimeZone); err == nil {
			loc = l
		}
	}
	return time.ParseInLocation(graphTimeLayout, d.DateTime, loc)
}

type scheduleRequest struct {
	Schedules                []string         `json:"schedules"`
	StartTime                dateTimeTimeZone `json:"startTime"`
	EndTime                  dateTimeTimeZone `json:"endTime"`
	AvailabilityViewInterval int              `json:"availabilityViewInterval"`
}

type scheduleResponse struct {
	Value []struct {
		ScheduleID       string `json:"scheduleId"`
		AvailabilityView string `json:"availabilityView"`
		ScheduleItems    []struct {
			Status string           `json:"status"`
			Start  dateTimeTimeZone `json:"start"`
			End    dateTimeTimeZone `json:"end"`
		} `json:"scheduleItems"`
		Error *struct {
			Message      string `json:"message"`
			ResponseCode string `json:"responseCode"`
		} `json:"error,omitempty"`
	} `json:"value"`
}

// Schedule calls getSchedule for the organizer. An answer without schedule
// items means the window is free.
func (c *Client) Schedule(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	body := scheduleRequest{
		Schedules:                []string{c.organizer},
		StartTime:                toGraphTime(start),
		EndTime:                  toGraphTime(end),
		AvailabilityViewInterval: scheduleIntervalMinute,
	}

	var resp scheduleResponse
	if err := c.do(ctx, http.MethodPost, c.userPath("/calendar/getSchedule"), body, &resp, http.StatusOK); err != nil {
		return nil, fmt.Errorf("getSchedule: %w", err)
	}

	var busy []calendar.BusyPeriod
	for _, schedule := range resp.Value {
		if schedule.Error != nil {
			return nil, fmt.Errorf("getSchedule: %w: %s", calendar.ErrProviderUnavailable, schedule.Error.Message)
		}
		for _, item := range schedule.ScheduleItems {
			if item.Status == "free" {
				continue
			}
			if p, ok := toBusyPeriod(item.Start, item.End); ok {
				busy = append(busy, p)
			}
		}
	}
	return busy, nil
}

type eventTimes struct {
	Start       dateTimeTimeZone `json:"start"`
	End         dateTimeTimeZone `json:"end"`
	IsCancelled bool             `json:"isCancelled"`
}

type calendarViewResponse struct {
	Value    []eventTimes `json:"value"`
	NextLink string       `json:"@odata.nextLink"`
}

// CalendarView lists the organizer's events in [start, end). Only the
// start and end of each event are requested.
func (c *Client) CalendarView(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	params := url.Values{}
	params.Set("startDateTime", start.UTC().Format(time.RFC3339))
	params.Set("endDateTime", end.UTC().Format(time.RFC3339))
	params.Set("$select", "start,end,isCancelled")
	params.Set("$top", "100")

	endpoint := c.userPath("/calendar/calendarView") + "?" + params.Encode()

	var busy []calendar.BusyPeriod
	for endpoint != "" {
		var resp calendarViewResponse
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp, http.StatusOK); err != nil {
			return nil, fmt.Errorf("calendarView: %w", err)
		}

		for _, ev := range resp.Value {
			if ev.IsCancelled {
				continue
			}
			if p, ok := toBusyPeriod(ev.Start, ev.End); ok {
				busy = append(busy, p)
			}
		}

		// Microsoft uses the full URL as the page token
		endpoint = resp.NextLink
	}
	return busy, nil
}

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type eventRequest struct {
	Subject string `json:"subject"`
	Body    struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	Start     dateTimeTimeZone `json:"start"`
	End       dateTimeTimeZone `json:"end"`
	Attendees []struct {
		EmailAddress emailAddress `json:"emailAddress"`
		Type         string       `json:"type"`
	} `json:"attendees"`
	Location *struct {
		DisplayName string `json:"displayName"`
	} `json:"location,omitempty"`
	IsOnlineMeeting       bool   `json:"isOnlineMeeting,omitempty"`
	OnlineMeetingProvider string `json:"onlineMeetingProvider,omitempty"`
}

type eventResponse struct {
	ID            string `json:"id"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

// CreateEvent creates the event on the organizer's calendar; Graph sends
// the invitation to the attendee from the organizer mailbox.
func (c *Client) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	var body eventRequest
	body.Subject = input.Subject
	body.Body.ContentType = "HTML"
	body.Body.Content = input.BodyHTML
	body.Start = toGraphTime(input.Start)
	body.End = toGraphTime(input.End)
	body.Attendees = append(body.Attendees, struct {
		EmailAddress emailAddress `json:"emailAddress"`
		Type         string       `json:"type"`
	}{
		EmailAddress: emailAddress{Address: input.Attendee.Email, Name: input.Attendee.Name},
		Type:         "required",
	})
	if input.Online {
		body.IsOnlineMeeting = true
		body.OnlineMeetingProvider = onlineMeetingProvider
	}
	if input.Location != "" {
		body.Location = &struct {
			DisplayName string `json:"displayName"`
		}{DisplayName: input.Location}
	}

	var resp eventResponse
	if err := c.do(ctx, http.MethodPost, c.userPath("/events"), body, &resp, http.StatusCreated); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	created := &calendar.CreatedEvent{ID: resp.ID}
	if resp.OnlineMeeting != nil {
		created.JoinURL = resp.OnlineMeeting.JoinURL
	}
	return created, nil
}

func (c *Client) userPath(suffix string) string {
	return c.baseURL + "/users/" + url.PathEscape(c.organizer) + suffix
}

// do performs one authenticated Graph request. Every failure except
// missing credentials is wrapped with calendar.ErrProviderUnavailable.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}, expectStatus int) error {
	token, err := c.tokens.Token(ctx)
	if errors.Is(err, calendar.ErrNotConfigured) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", calendar.ErrProviderUnavailable, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", calendar.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectStatus {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %w: status %d: %s", calendar.ErrProviderUnavailable, ErrUnexpectedStatus, resp.StatusCode, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", calendar.ErrProviderUnavailable, err)
	}
	return nil
}

func toBusyPeriod(start, end dateTimeTimeZone) (calendar.BusyPeriod, bool) {
	s, err := start.parse()
	if err != nil {
		return calendar.BusyPeriod{}, false
	}
	e, err := end.parse()
	if err != nil {
		return calendar.BusyPeriod{}, false
	}
	return calendar.NewBusyPeriod(s, e)
}
