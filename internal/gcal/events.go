package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

func parseGoogleEventTimes(item *calendarapi.Event, loc *time.Location) (time.Time, time.Time, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, nil
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, nil
}

// Schedule asks the freeBusy endpoint about the organizer's calendar.
func (c *Client) Schedule(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	resp, err := c.service.Freebusy.Query(&calendarapi.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*calendarapi.FreeBusyRequestItem{{Id: c.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: freebusy query: %v", calendar.ErrProviderUnavailable, err)
	}

	cal, ok := resp.Calendars[c.calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: freebusy response missing calendar %s", calendar.ErrProviderUnavailable, c.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("%w: freebusy error: %s", calendar.ErrProviderUnavailable, cal.Errors[0].Reason)
	}

	busy := make([]calendar.BusyPeriod, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		s, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			continue
		}
		e, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			continue
		}
		if p, ok := calendar.NewBusyPeriod(s, e); ok {
			busy = append(busy, p)
		}
	}
	return busy, nil
}

// CalendarView lists non-cancelled events in the window, keeping only their intervals.
func (c *Client) CalendarView(ctx context.Context, start, end time.Time) ([]calendar.BusyPeriod, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end is before start")
	}

	var result []calendar.BusyPeriod
	pageToken := ""
	loc := start.Location()

	for {
		call := c.service.Events.List(c.calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime").
			Fields("items(start,end,status)", "nextPageToken").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list events in range: %v", calendar.ErrProviderUnavailable, err)
		}

		for _, item := range events.Items {
			if item == nil || item.Status == "cancelled" {
				continue
			}

			startTime, endTime, parseErr := parseGoogleEventTimes(item, loc)
			if parseErr != nil {
				// Skip malformed events rather than failing the whole request.
				continue
			}
			if p, ok := calendar.NewBusyPeriod(startTime, endTime); ok {
				result = append(result, p)
			}
		}

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

// CreateEvent inserts the event and emails the attendee. Online events ask
// for a Google Meet conference.
func (c *Client) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.CreatedEvent, error) {
	// RFC3339 format includes timezone offset, so Google Calendar can infer the timezone
	event := &calendarapi.Event{
		Summary:     input.Subject,
		Description: input.BodyHTML,
		Location:    input.Location,
		Start: &calendarapi.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
		},
		End: &calendarapi.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
		},
		Attendees: []*calendarapi.EventAttendee{{
			Email:       input.Attendee.Email,
			DisplayName: input.Attendee.Name,
		}},
	}

	call := c.service.Events.Insert(c.calendarID, event).SendUpdates("all")
	if input.Online {
		event.ConferenceData = &calendarapi.ConferenceData{
			CreateRequest: &calendarapi.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendarapi.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create event: %v", calendar.ErrProviderUnavailable, err)
	}

	return &calendar.CreatedEvent{
		ID:      created.Id,
		JoinURL: joinURL(created),
	}, nil
}

func joinURL(event *calendarapi.Event) string {
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep != nil && ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return ""
}
