package testutil

import (
	"fmt"
	"time"

	"github.com/omriShneor/salesdesk/internal/calendar"
)

// BusyBuilder builds a day's worth of busy periods
type BusyBuilder struct {
	day    time.Time
	blocks [][2]string
}

// NewBusyBuilder starts a builder for the civil date of day.
func NewBusyBuilder(day time.Time) *BusyBuilder {
	return &BusyBuilder{day: day}
}

// Block marks "HH:MM"-"HH:MM" as busy.
func (b *BusyBuilder) Block(from, to string) *BusyBuilder {
	b.blocks = append(b.blocks, [2]string{from, to})
	return b
}

// AllDay marks business hours as busy.
func (b *BusyBuilder) AllDay() *BusyBuilder {
	return b.Block("09:00", "18:00")
}

// Build returns the periods without touching a calendar.
func (b *BusyBuilder) Build() ([]calendar.BusyPeriod, error) {
	periods := make([]calendar.BusyPeriod, 0, len(b.blocks))
	for _, block := range b.blocks {
		start, err := b.at(block[0])
		if err != nil {
			return nil, err
		}
		end, err := b.at(block[1])
		if err != nil {
			return nil, err
		}
		period, ok := calendar.NewBusyPeriod(start, end)
		if !ok {
			return nil, fmt.Errorf("busy block %s-%s ends before it starts", block[0], block[1])
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// MustApply adds the periods to provider and panics on a malformed block.
func (b *BusyBuilder) MustApply(provider *calendar.MemoryProvider) []calendar.BusyPeriod {
	periods, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build busy periods: %v", err))
	}
	for _, p := range periods {
		provider.AddBusy(p.Start, p.End)
	}
	return periods
}

func (b *BusyBuilder) at(clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", clock, err)
	}
	loc := b.day.Location()
	d := b.day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
