package domain

import "time"

// DateLayout is the ISO calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Period is the Monday to Sunday reporting week.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodOf returns the reporting week containing t.
func PeriodOf(t time.Time) Period {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return Period{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether the ISO date falls inside the period.
func (p Period) Contains(date string) bool {
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(p.Start) && !d.After(p.End)
}
