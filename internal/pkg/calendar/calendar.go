package calendar

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// Calendar buckets instants into calendar days of a fixed reference timezone.
// A day is represented by its start-of-day instant in that zone.
type Calendar struct {
	loc *time.Location
}

// New returns a Calendar for loc. A nil loc means UTC.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

// Load resolves an IANA zone name such as "Asia/Jakarta".
func Load(name string) (*Calendar, error) {
	if name == "" {
		return New(time.UTC), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// StartOfDay zeroes the clock of t as seen in the reference timezone.
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

// Today is the canonical day that contains now.
func (c *Calendar) Today(now time.Time) time.Time {
	return c.StartOfDay(now)
}

// ParseDay accepts YYYY-MM-DD (read in the reference timezone) or an RFC3339 timestamp.
func (c *Calendar) ParseDay(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DayLayout, s, c.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return c.StartOfDay(t), nil
}

// Days lists every canonical day from start through end inclusive.
// Days are built from the calendar date so DST shifts never skip or repeat a day.
func (c *Calendar) Days(start, end time.Time) []time.Time {
	first := c.StartOfDay(start)
	last := c.StartOfDay(end)
	if last.Before(first) {
		return nil
	}

	var days []time.Time
	for i := 0; ; i++ {
		day := time.Date(first.Year(), first.Month(), first.Day()+i, 0, 0, 0, 0, c.loc)
		if day.After(last) {
			break
		}
		days = append(days, day)
	}
	return days
}

// MonthWindow returns the half-open range [first of month, first of next month).
func (c *Calendar) MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, c.loc)
	return from, to
}

func (c *Calendar) DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, c.loc).Day()
}

// Format renders a canonical day as YYYY-MM-DD in the reference timezone.
func (c *Calendar) Format(day time.Time) string {
	return day.In(c.loc).Format(DayLayout)
}

// FormatInstant renders t as RFC3339 in the reference timezone. Nil stays nil.
func (c *Calendar) FormatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(c.loc).Format(time.RFC3339)
	return &s
}
