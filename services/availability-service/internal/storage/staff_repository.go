package storage

import (
	"context"
	"time"

	"github.com/speakoai/availability/libs/db"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// StaffRepository reads staff templates and staff bookings.
type StaffRepository struct {
	pool *db.Pool
}

func NewStaffRepository(pool *db.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func (r *StaffRepository) ResourceServices(ctx context.Context, tenantID int64) (map[int64][]int64, error) {
	return resourceServices(ctx, r.pool, `
		SELECT staff_id, service_id
		FROM staff_services
		WHERE tenant_id = $1
		ORDER BY staff_id, service_id
	`, tenantID)
}

func (r *StaffRepository) OneTimeEntries(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.staff_id, s.name, sa.start_time, sa.end_time, COALESCE(sa.is_closed, FALSE)
		FROM staff s
		JOIN staff_availability sa ON s.tenant_id = sa.tenant_id AND s.staff_id = sa.staff_id
		WHERE s.tenant_id = $1 AND sa.location_id = $2 AND sa.type = 'one_time'
			AND sa.specific_date = $3::date AND sa.is_active = TRUE
		ORDER BY s.staff_id, sa.start_time NULLS FIRST
	`, tenantID, locationID, sqlDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Entry
	for rows.Next() {
		var row templateRow
		if err := rows.Scan(&row.resourceID, &row.name, &row.start, &row.end, &row.closed); err != nil {
			return nil, err
		}
		out = append(out, row.entry())
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *StaffRepository) RecurringEntries(ctx context.Context, tenantID, locationID int64, weekday int, date time.Time, exclude []int64) ([]availability.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.staff_id, s.name, sa.start_time, sa.end_time
		FROM staff s
		JOIN staff_availability sa ON s.tenant_id = sa.tenant_id AND s.staff_id = sa.staff_id
		WHERE s.tenant_id = $1 AND sa.location_id = $2 AND sa.type = 'recurring'
			AND sa.day_of_week = $3 AND (sa.specific_date IS NULL OR sa.specific_date <> $4::date)
			AND sa.is_active = TRUE
			AND NOT (s.staff_id = ANY($5))
		ORDER BY s.staff_id, sa.start_time
	`, tenantID, locationID, weekday, sqlDate(date), exclusion(exclude))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Entry
	for rows.Next() {
		var row templateRow
		if err := rows.Scan(&row.resourceID, &row.name, &row.start, &row.end); err != nil {
			return nil, err
		}
		out = append(out, row.entry())
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *StaffRepository) ConfirmedBookings(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Booking, error) {
	return confirmedBookings(ctx, r.pool, `
		SELECT staff_id, start_time, end_time
		FROM bookings
		WHERE tenant_id = $1 AND location_id = $2
			AND start_time >= $3::date AND start_time < $3::date + INTERVAL '1 day'
			AND status = 'confirmed'
			AND staff_id IS NOT NULL
		ORDER BY start_time
	`, tenantID, locationID, date)
}
