package profile

import "time"

// DayLayout is the storage format of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar day. The zero value means "never".
type Day string

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// IsZero reports whether d is unset.
func (d Day) IsZero() bool { return d == "" }

// Time returns midnight UTC of d.
func (d Day) Time() (time.Time, error) {
	return time.Parse(DayLayout, string(d))
}

// AddDays returns the day n days after d. It returns d unchanged if d
// does not parse.
func (d Day) AddDays(n int) Day {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days from from to to. The
// second result is false when either day is unset or malformed.
func DaysBetween(from, to Day) (int, bool) {
	a, err := from.Time()
	if err != nil {
		return 0, false
	}
	b, err := to.Time()
	if err != nil {
		return 0, false
	}
	return int(b.Sub(a).Hours() / 24), true
}
