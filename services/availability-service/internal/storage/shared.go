package storage

import (
	"context"
	"time"

	"github.com/speakoai/availability/libs/db"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

func resourceServices(ctx context.Context, pool *db.Pool, query string, tenantID int64) (map[int64][]int64, error) {
	rows, err := pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]int64)
	for rows.Next() {
		var resourceID, serviceID int64
		if err := rows.Scan(&resourceID, &serviceID); err != nil {
			return nil, err
		}
		out[resourceID] = append(out[resourceID], serviceID)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// confirmedBookings runs a booking query whose columns are (resource id,
// start, end). Booking timestamps hold the location's wall clock, so they are
// projected onto the day as read.
func confirmedBookings(ctx context.Context, pool *db.Pool, query string, tenantID, locationID int64, date time.Time) ([]availability.Booking, error) {
	rows, err := pool.Query(ctx, query, tenantID, locationID, sqlDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Booking
	for rows.Next() {
		var (
			resourceID int64
			start, end time.Time
		)
		if err := rows.Scan(&resourceID, &start, &end); err != nil {
			return nil, err
		}
		out = append(out, availability.Booking{
			ResourceID: resourceID,
			Start:      availability.ClockOf(start, date),
			End:        availability.ClockOf(end, date),
		})
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
