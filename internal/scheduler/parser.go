package scheduler

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Time-of-day used when a request names a day but no time.
const (
	defaultHour   = 10
	defaultMinute = 0
)

type clockTime struct {
	hour   int
	minute int
}

// dateMatcher recognises one family of date expressions. today is midnight
// of the current day in the organizer's location; the returned date is
// midnight of the resolved day.
type dateMatcher struct {
	name  string
	match func(text string, today time.Time) (time.Time, bool)
}

// Order is precedence: the first matcher that recognises a date wins.
var dateMatchers = []dateMatcher{
	{name: "explicit-date", match: matchExplicitDate},
	{name: "relative-day", match: matchRelativeDay},
	{name: "weekday-name", match: matchWeekday},
}

const monthPattern = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	meridiemPattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am\b|pm\b|a\.m\.|p\.m\.)`)
	clockPattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	noonPattern     = regexp.MustCompile(`\b(noon|midday|midnight)\b`)
	atHourPattern   = regexp.MustCompile(`\bat\s+(\d{1,2})\b`)
	leadingMonth    = regexp.MustCompile(`^\s+(?:of\s+)?` + monthPattern + `\b`)

	dayMonthPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b`)
	monthDayPattern = regexp.MustCompile(`\b` + monthPattern + `\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?\b`)
	trailingClock   = regexp.MustCompile(`^\s*(?:am\b|pm\b|a\.m\.|p\.m\.|:)`)

	tomorrowPattern = regexp.MustCompile(`\btomorrow\b`)
	nextWeekPattern = regexp.MustCompile(`\bnext\s+week\b`)
	nextPattern     = regexp.MustCompile(`\bnext\b`)
	// The name must not follow a letter or apostrophe, so "c'mon" is not Monday.
	weekdayPattern = regexp.MustCompile(`(?:^|[^\w'])(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)\b`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseTimeRequest resolves free text against the scheduler's clock and
// location. ok is false when the text has neither a date nor a time in it,
// or names a time that does not exist.
func (s *Scheduler) ParseTimeRequest(text string) (time.Time, bool) {
	return Parse(text, s.now().In(s.loc))
}

// Parse resolves text to a point in time in now's location. A date
// without a time gets 10:00; a time without a date is today, or tomorrow
// once that time has passed.
func Parse(text string, now time.Time) (time.Time, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return time.Time{}, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var date *time.Time
	for _, m := range dateMatchers {
		if d, ok := m.match(normalized, today); ok {
			date = &d
			break
		}
	}

	clock, sawTime := matchTimeOfDay(normalized)
	if sawTime && clock == nil {
		return time.Time{}, false
	}

	return compose(now, date, clock)
}

// compose joins the optional date and time-of-day. Both missing means the
// request could not be understood.
func compose(now time.Time, date *time.Time, clock *clockTime) (time.Time, bool) {
	if date == nil && clock == nil {
		return time.Time{}, false
	}

	c := clockTime{hour: defaultHour, minute: defaultMinute}
	if clock != nil {
		c = *clock
	}

	var day time.Time
	if date != nil {
		day = *date
	} else {
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if !at(day, c).After(now) {
			day = day.AddDate(0, 0, 1)
		}
	}

	return at(day, c), true
}

func at(day time.Time, c clockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.minute, 0, 0, day.Location())
}

// matchTimeOfDay prefers an am/pm time, then a 24-hour H:MM, then
// noon/midnight, then a bare 24-hour "at H". The leftmost match of the
// winning form is used. Bare numbers are never times on their own.
// sawTime reports a time token even when its value is out of range
// ("13:75", "at 25"), in which case clock is nil.
func matchTimeOfDay(text string) (clock *clockTime, sawTime bool) {
	if m := meridiemPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		pm := strings.HasPrefix(m[3], "p")
		if pm && hour < 12 {
			hour += 12
		}
		if !pm && hour == 12 {
			hour = 0
		}
		return validClock(hour, minute), true
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return validClock(hour, minute), true
	}

	if m := noonPattern.FindStringSubmatch(text); m != nil {
		if m[1] == "midnight" {
			return &clockTime{hour: 0}, true
		}
		return &clockTime{hour: 12}, true
	}

	for _, m := range atHourPattern.FindAllStringSubmatchIndex(text, -1) {
		// "at 9 february" names a day, not an hour.
		if leadingMonth.MatchString(text[m[1]:]) {
			continue
		}
		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		return validClock(hour, 0), true
	}

	return nil, false
}

func validClock(hour, minute int) *clockTime {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil
	}
	return &clockTime{hour: hour, minute: minute}
}

// matchExplicitDate handles "9th February", "9 of feb" and "February 9".
// A date that has already passed this year rolls to next year.
func matchExplicitDate(text string, today time.Time) (time.Time, bool) {
	for _, m := range dayMonthPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > 0 && text[m[0]-1] == ':' {
			continue
		}
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		month := months[text[m[4]:m[4]+3]]
		if d, ok := resolveCalendarDate(today, month, day); ok {
			return d, true
		}
	}

	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		if trailingClock.MatchString(text[m[1]:]) {
			continue
		}
		month := months[text[m[2]:m[2]+3]]
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		if d, ok := resolveCalendarDate(today, month, day); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

func resolveCalendarDate(today time.Time, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}

	year := today.Year()
	candidate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if candidate.Before(today) || candidate.Day() != day {
		year++
		candidate = time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	}
	if candidate.Day() != day {
		return time.Time{}, false
	}

	return candidate, true
}

// matchRelativeDay handles "tomorrow" and then "next week".
func matchRelativeDay(text string, today time.Time) (time.Time, bool) {
	if tomorrowPattern.MatchString(text) {
		return today.AddDate(0, 0, 1), true
	}
	if nextWeekPattern.MatchString(text) {
		return today.AddDate(0, 0, 7), true
	}
	return time.Time{}, false
}

// matchWeekday resolves a weekday name to its next occurrence, never
// today. "next" anywhere in the text pushes it a further week out, so on
// a Monday "Tuesday" is tomorrow and "next Tuesday" is eight days away.
func matchWeekday(text string, today time.Time) (time.Time, bool) {
	m := weekdayPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	target := weekdays[m[1]]
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	if nextPattern.MatchString(text) {
		daysUntil += 7
	}

	return today.AddDate(0, 0, daysUntil), true
}
