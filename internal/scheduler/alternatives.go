package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/omriShneor/salesdesk/internal/timeutil"
)

const (
	maxAlternatives     = 3
	maxSameDay          = 2
	sameDayHourDistance = 2
	morningEndHour      = 12
)

// Alternative is a free slot with its date attached. Display always
// carries the date so a bare time never reaches the conversation.
type Alternative struct {
	Slot    AvailabilitySlot `json:"slot"`
	Date    string           `json:"date"`
	Display string           `json:"display"`
}

func newAlternative(slot AvailabilitySlot, loc *time.Location) Alternative {
	date := timeutil.FormatDate(slot.Start, loc)
	return Alternative{
		Slot:    slot,
		Date:    date,
		Display: fmt.Sprintf("%s on %s", timeutil.FormatTimeSlot(slot.Start, loc), date),
	}
}

func (a Alternative) String() string {
	return a.Display
}

// SuggestAlternatives proposes at most three replacements for a busy
// request: up to two same-day slots within two hours of it, then one
// next-day morning slot. Past slots and the requested time itself are
// never offered.
func (s *Scheduler) SuggestAlternatives(ctx context.Context, requested time.Time, duration time.Duration) []Alternative {
	requested = requested.In(s.loc)
	now := s.now()

	offerable := func(slot AvailabilitySlot) bool {
		return !slot.Start.Equal(requested) && !slot.Start.Before(now)
	}

	alternatives := []Alternative{}
	for _, slot := range s.FindAvailableSlots(ctx, requested, duration) {
		if len(alternatives) == maxSameDay {
			break
		}
		if !offerable(slot) || abs(slot.Start.Hour()-requested.Hour()) > sameDayHourDistance {
			continue
		}
		alternatives = append(alternatives, newAlternative(slot, s.loc))
	}

	if len(alternatives) < maxAlternatives {
		nextDay := timeutil.StartOfDay(requested, s.loc).AddDate(0, 0, 1)
		for _, slot := range s.FindAvailableSlots(ctx, nextDay, duration) {
			if slot.Start.Hour() < morningEndHour && offerable(slot) {
				alternatives = append(alternatives, newAlternative(slot, s.loc))
				break
			}
		}
	}

	return alternatives
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
