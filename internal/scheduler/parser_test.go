package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var londonLoc = func() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
	return loc
}()

func london(t *testing.T) *time.Location {
	t.Helper()
	return londonLoc
}

// Monday 19 October 2026.
func mondayAt(t *testing.T, hour, minute int) time.Time {
	return time.Date(2026, time.October, 19, hour, minute, 0, 0, london(t))
}

func TestParse_MeridiemConversion(t *testing.T) {
	now := mondayAt(t, 8, 0)

	tests := []struct {
		text       string
		wantHour   int
		wantMinute int
	}{
		{"12pm", 12, 0},
		{"12am tomorrow", 0, 0},
		{"2:30pm", 14, 30},
		{"2:30 PM", 14, 30},
		{"9am", 9, 0},
		{"11:45 a.m.", 11, 45},
		{"at 4 p.m.", 16, 0},
		{"12:15am tomorrow", 0, 15},
		{"14:30", 14, 30},
		{"noon", 12, 0},
		{"midnight tomorrow", 0, 0},
		{"tomorrow at 14", 14, 0},
		{"friday at 9", 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Parse(tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.wantHour, got.Hour())
			assert.Equal(t, tt.wantMinute, got.Minute())
		})
	}
}

func TestParse_BareTimeRollsOverOncePassed(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		now := mondayAt(t, hour, 30)
		got, ok := Parse("3pm", now)
		require.True(t, ok)

		wantDay := 19
		if hour >= 15 {
			wantDay = 20
		}
		assert.Equal(t, wantDay, got.Day(), "now hour %d", hour)
		assert.Equal(t, 15, got.Hour())
		assert.Equal(t, 0, got.Minute())
	}
}

func TestParse_BareTimeAtExactlyNowIsTomorrow(t *testing.T) {
	got, ok := Parse("3pm", mondayAt(t, 15, 0))
	require.True(t, ok)
	assert.Equal(t, 20, got.Day())
}

func TestParse_TomorrowIgnoresCurrentTime(t *testing.T) {
	for _, hour := range []int{0, 9, 14, 15, 23} {
		got, ok := Parse("tomorrow at 2pm", mondayAt(t, hour, 0))
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.October, 20, 14, 0, 0, 0, london(t)), got)
	}
}

func TestParse_Weekdays(t *testing.T) {
	loc := london(t)
	monday := mondayAt(t, 9, 0)
	tuesday := time.Date(2026, time.October, 20, 9, 0, 0, 0, loc)

	tests := []struct {
		name string
		text string
		now  time.Time
		want time.Time
	}{
		{"same weekday never resolves to today", "Tuesday", tuesday, time.Date(2026, time.October, 27, 10, 0, 0, 0, loc)},
		{"next on the same weekday is two weeks out", "next Tuesday at 10am", tuesday, time.Date(2026, time.November, 3, 10, 0, 0, 0, loc)},
		{"plain weekday is the next occurrence", "tuesday at 10am", monday, time.Date(2026, time.October, 20, 10, 0, 0, 0, loc)},
		// "next" always adds a week, so on a Monday "next Tuesday" is eight days away.
		{"next adds a further week", "next Tuesday at 10am", monday, time.Date(2026, time.October, 27, 10, 0, 0, 0, loc)},
		{"earlier weekday wraps into next week", "fri", time.Date(2026, time.October, 24, 9, 0, 0, 0, loc), time.Date(2026, time.October, 30, 10, 0, 0, 0, loc)},
		{"abbreviation", "thurs 3:15pm", monday, time.Date(2026, time.October, 22, 15, 15, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.text, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_NextTuesdayOnTuesdayIsMoreThanAWeekAhead(t *testing.T) {
	now := time.Date(2026, time.October, 20, 9, 0, 0, 0, london(t))
	got, ok := Parse("next Tuesday at 10am", now)
	require.True(t, ok)
	assert.Greater(t, got.Sub(now), 7*24*time.Hour)
	assert.Equal(t, time.Tuesday, got.Weekday())
}

func TestParse_ExplicitDates(t *testing.T) {
	loc := london(t)
	now := mondayAt(t, 14, 0)

	tests := []struct {
		text string
		want time.Time
	}{
		{"9th February", time.Date(2027, time.February, 9, 10, 0, 0, 0, loc)},
		{"February 9th at 3pm", time.Date(2027, time.February, 9, 15, 0, 0, 0, loc)},
		{"23 oct 11am", time.Date(2026, time.October, 23, 11, 0, 0, 0, loc)},
		{"the 2nd of December", time.Date(2026, time.December, 2, 10, 0, 0, 0, loc)},
		{"sept 30", time.Date(2027, time.September, 30, 10, 0, 0, 0, loc)},
		{"19 october", time.Date(2026, time.October, 19, 10, 0, 0, 0, loc)},
		{"how about 1st jan next year", time.Date(2027, time.January, 1, 10, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Parse(tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_MonthFollowedByTimeIsNotADay(t *testing.T) {
	got, ok := Parse("march 3pm", mondayAt(t, 9, 0))
	require.True(t, ok)
	// No date matched, so the time applies to today.
	assert.Equal(t, time.Date(2026, time.October, 19, 15, 0, 0, 0, london(t)), got)
}

func TestParse_AtHourBeforeMonthIsADay(t *testing.T) {
	got, ok := Parse("at 9 february", mondayAt(t, 9, 0))
	require.True(t, ok)
	assert.Equal(t, time.Date(2027, time.February, 9, 10, 0, 0, 0, london(t)), got)
}

func TestParse_InvalidCalendarDateIsIgnored(t *testing.T) {
	_, ok := Parse("31 february", mondayAt(t, 9, 0))
	assert.False(t, ok)
}

func TestParse_Precedence(t *testing.T) {
	loc := london(t)
	now := mondayAt(t, 9, 0)

	got, ok := Parse("tomorrow, or friday 2pm", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 20, 14, 0, 0, 0, loc), got, "relative day beats weekday")

	got, ok = Parse("next week, say 5 november", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.November, 5, 10, 0, 0, 0, loc), got, "explicit date beats relative day")

	got, ok = Parse("next week", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 26, 10, 0, 0, 0, loc), got)
}

func TestParse_Unparseable(t *testing.T) {
	now := mondayAt(t, 9, 0)
	for _, text := range []string{"", "   ", "gibberish", "whenever suits you", "3 amazing ideas", "25:00", "13:75", "at 25", "room 12"} {
		t.Run(text, func(t *testing.T) {
			_, ok := Parse(text, now)
			assert.False(t, ok)
		})
	}
}

func TestParse_InvalidTimeWithDateIsNotDefaulted(t *testing.T) {
	now := mondayAt(t, 8, 0)
	for _, text := range []string{"tomorrow at 2.30pm", "tuesday at 25", "tomorrow at 13:75", "friday 13pm"} {
		t.Run(text, func(t *testing.T) {
			_, ok := Parse(text, now)
			assert.False(t, ok)
		})
	}
}

func TestParse_BareHourAfterDateIsNotATime(t *testing.T) {
	// Only "at H" reads a bare number as an hour.
	got, ok := Parse("tuesday 14", mondayAt(t, 8, 0))
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 20, 10, 0, 0, 0, london(t)), got)
}

func TestParse_WeekdayAbbreviationNeedsWordStart(t *testing.T) {
	now := mondayAt(t, 8, 0)

	_, ok := Parse("c'mon, let's talk", now)
	assert.False(t, ok)

	got, ok := Parse("c'mon, tue at 3pm?", now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 20, 15, 0, 0, 0, london(t)), got)

	got, ok = Parse("(fri) 9am", now)
	require.True(t, ok)
	assert.Equal(t, time.Friday, got.Weekday())
}

func TestParse_KeepsLocation(t *testing.T) {
	loc := london(t)
	got, ok := Parse("tomorrow 9am", mondayAt(t, 9, 0))
	require.True(t, ok)
	assert.Equal(t, loc, got.Location())
}

func TestScheduler_ParseTimeRequestUsesOrganizerClock(t *testing.T) {
	loc := london(t)
	// 13:30 UTC is 14:30 in London in October.
	s := New(nil, Config{
		Location: loc,
		Now:      func() time.Time { return time.Date(2026, time.October, 19, 13, 30, 0, 0, time.UTC) },
	})

	got, ok := s.ParseTimeRequest("2pm")
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.October, 20, 14, 0, 0, 0, loc), got)
}
