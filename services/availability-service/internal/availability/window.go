package availability

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ChunkDays is the number of days cached under one key.
	ChunkDays = 3
	// HorizonDays is the length of a full refresh.
	HorizonDays = 60
)

// Window is the range of dates a run computes.
type Window struct {
	Start time.Time
	Days  int
	Regen bool
}

// Chunk is a run of consecutive dates published under one cache key.
type Chunk struct {
	Start time.Time
	Dates []time.Time
}

// PlanWindow picks the dates to compute. Without an affected date the window is
// the full horizon from today. With one it is the single chunk containing that
// date, chunks being aligned to today. ok is false when the affected date is
// before today.
func PlanWindow(today time.Time, affected *time.Time) (w Window, ok bool) {
	if affected == nil {
		return Window{Start: today, Days: HorizonDays}, true
	}
	offset := DaysBetween(today, *affected)
	if offset < 0 {
		return Window{}, false
	}
	index := offset / ChunkDays
	return Window{Start: AddDays(today, index*ChunkDays), Days: ChunkDays, Regen: true}, true
}

// Chunks partitions the window into ChunkDays-sized chunks in date order.
func (w Window) Chunks() []Chunk {
	var out []Chunk
	for offset := 0; offset < w.Days; offset += ChunkDays {
		c := Chunk{Start: AddDays(w.Start, offset)}
		for d := offset; d < offset+ChunkDays && d < w.Days; d++ {
			c.Dates = append(c.Dates, AddDays(w.Start, d))
		}
		out = append(out, c)
	}
	return out
}

// ParseAffectedDate reads YYYY-MM-DD or an RFC 3339 timestamp and returns the
// calendar date as written, at midnight in loc.
func ParseAffectedDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid affected date %q", raw)
}

// ChunkKey is the cache key of the chunk starting at start.
func ChunkKey(tenantID, locationID int64, start time.Time) string {
	return fmt.Sprintf("availability:tenant_%d:location_%d:start_date_%s", tenantID, locationID, DateString(start))
}
