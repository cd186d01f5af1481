package storage

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// sqlDate renders a calendar date for `$n::date` parameters. Dates are passed
// as text so the date written in the location's zone is what Postgres sees.
func sqlDate(d time.Time) string {
	return availability.DateString(d)
}

func clockFromTime(t pgtype.Time) availability.ClockTime {
	if !t.Valid {
		return 0
	}
	return availability.ClockTime(t.Microseconds / int64(time.Second/time.Microsecond))
}

func durationFromInterval(iv pgtype.Interval) time.Duration {
	if !iv.Valid {
		return 0
	}
	d := time.Duration(iv.Microseconds) * time.Microsecond
	d += time.Duration(iv.Days) * 24 * time.Hour
	return d
}

// templateRow is the common shape of staff and venue availability rows.
type templateRow struct {
	resourceID int64
	name       string
	start      pgtype.Time
	end        pgtype.Time
	closed     bool
}

func (r templateRow) entry() availability.Entry {
	return availability.Entry{
		ResourceID: r.resourceID,
		Name:       r.name,
		Closed:     r.closed,
		Slot: availability.Slot{
			Start: clockFromTime(r.start),
			End:   clockFromTime(r.end),
		},
	}
}

// exclusion turns an id list into an array parameter that never binds as NULL.
func exclusion(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
