package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/omriShneor/salesdesk/internal/scheduler"
)

const productID = "-//salesdesk//booking request//EN"

// BuildInvite renders req as a single-event iCalendar file the organizer
// can import once the booking is confirmed by hand.
func BuildInvite(req scheduler.MeetingRequest, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropMethod, "REQUEST")

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uuid.NewString()+"@salesdesk")
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, req.Start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, req.End().UTC())
	event.Props.SetText(ical.PropSummary, req.Subject)
	if req.Description != "" {
		event.Props.SetText(ical.PropDescription, req.Description)
	}
	if req.Kind == scheduler.MeetingKindInPerson {
		event.Props.SetText(ical.PropLocation, req.Location)
	}
	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode invite: %w", err)
	}
	return buf.Bytes(), nil
}
