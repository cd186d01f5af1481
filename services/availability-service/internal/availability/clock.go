package availability

import (
	"fmt"
	"time"
)

// ClockTime is a time of day expressed in seconds since local midnight.
// Values past 24h are allowed for bookings that end on the following day.
type ClockTime int

const day = ClockTime(24 * 60 * 60)

// Clock returns the ClockTime for the given hour, minute and second.
func Clock(h, m, s int) ClockTime {
	return ClockTime(h*3600 + m*60 + s)
}

// ClockOf projects t onto the clock of the calendar date on. The wall clock of t
// is read in t's own location, so callers pass timestamps already in the
// location's zone (or zone-less database timestamps).
func ClockOf(t time.Time, on time.Time) ClockTime {
	offset := DaysBetween(on, t)
	return ClockTime(offset)*day + Clock(t.Hour(), t.Minute(), t.Second())
}

// ParseClock parses "15:04:05" or "15:04".
func ParseClock(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c ClockTime) parts() (int, int, int) {
	v := int(c)
	if v < 0 {
		v = 0
	}
	return v / 3600, (v % 3600) / 60, v % 60
}

// String formats c as HH:MM:SS.
func (c ClockTime) String() string {
	h, m, s := c.parts()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// HourMinute formats c as HH:MM.
func (c ClockTime) HourMinute() string {
	h, m, _ := c.parts()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatDuration renders d as H:MM:SS, the shape venue templates publish for a
// slot's service duration.
func FormatDuration(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// DaysBetween returns the number of calendar days from a to b, comparing the
// dates as written in each value's own location.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// AddDays returns local midnight n calendar days after d.
func AddDays(d time.Time, n int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, d.Location())
}

// Midnight truncates t to midnight of its calendar date in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateString formats d as YYYY-MM-DD.
func DateString(d time.Time) string {
	return d.Format(time.DateOnly)
}
