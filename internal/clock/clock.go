package clock

import "time"

// The studio operates on KST wall-clock days. Day boundaries and the
// cancellation window are always computed in this zone.
var Business = time.FixedZone("KST", 9*60*60)

const DayFormat = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// System is the real clock.
type System struct{}

func (System) Now() time.Time { return time.Now().In(Business) }

// Fixed always reports the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T.In(Business) }

// Day truncates t to its calendar day in the business zone.
func Day(t time.Time) time.Time {
	t = t.In(Business)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Business)
}

// ParseDay parses a YYYY-MM-DD string as a business-zone day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, Business)
}

// FormatDay renders t as YYYY-MM-DD in the business zone.
func FormatDay(t time.Time) string {
	return t.In(Business).Format(DayFormat)
}

// SlotStart returns the wall-clock start of an hour slot on the given day.
func SlotStart(day time.Time, hour int) time.Time {
	d := Day(day)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, Business)
}

// SameOrBetween reports whether day d falls within [from, to] at calendar-day
// granularity, endpoints included.
func SameOrBetween(d, from, to time.Time) bool {
	d, from, to = Day(d), Day(from), Day(to)
	return !d.Before(from) && !d.After(to)
}
