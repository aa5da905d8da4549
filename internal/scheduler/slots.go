package scheduler

import (
	"context"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
	"github.com/omriShneor/salesdesk/internal/timeutil"
)

// AvailabilitySlot is a free interval inside business hours.
type AvailabilitySlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Formatted string    `json:"formatted"`
}

// FindAvailableSlots walks the day's business hours in half-hour steps and
// returns every slot of the given duration that ends by close and
// overlaps no event. A calendar error yields an empty list.
func (s *Scheduler) FindAvailableSlots(ctx context.Context, day time.Time, duration time.Duration) []AvailabilitySlot {
	duration = s.durationOrDefault(duration)
	open := timeutil.At(day, s.businessStart, 0, s.loc)
	closing := timeutil.At(day, s.businessEnd, 0, s.loc)

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	busy, err := s.provider.CalendarView(callCtx, open, closing)
	if err != nil {
		s.log.Error("failed to list events for slot search", err,
			"provider", s.provider.Name(), "day", timeutil.FormatDate(day, s.loc))
		return []AvailabilitySlot{}
	}

	slots := []AvailabilitySlot{}
	for start := open; !start.Add(duration).After(closing); start = start.Add(slotStep) {
		end := start.Add(duration)
		if calendar.AnyOverlap(busy, start, end) {
			continue
		}
		slots = append(slots, AvailabilitySlot{
			Start:     start,
			End:       end,
			Formatted: timeutil.FormatTimeSlot(start, s.loc),
		})
	}

	s.log.Debug("slot search complete", "day", timeutil.FormatDate(day, s.loc), "free", len(slots))
	return slots
}
