package availability

import "time"

// ScheduleWeekday converts a calendar date to the day_of_week numbering stored
// on recurring templates: Sunday=0, Monday=1 ... Saturday=6.
//
// Templates were written by tooling that numbers weekdays from Monday=0 and
// shifts with (weekday+1)%7; the result coincides with time.Weekday.
func ScheduleWeekday(d time.Time) int {
	mondayBased := (int(d.Weekday()) + 6) % 7
	return (mondayBased + 1) % 7
}
