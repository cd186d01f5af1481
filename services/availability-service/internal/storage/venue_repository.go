package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/speakoai/availability/libs/db"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// VenueRepository reads venue unit templates and venue bookings.
type VenueRepository struct {
	pool *db.Pool
}

func NewVenueRepository(pool *db.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) ResourceServices(ctx context.Context, tenantID int64) (map[int64][]int64, error) {
	return resourceServices(ctx, r.pool, `
		SELECT venue_unit_id, service_id
		FROM venue_unit_services
		WHERE tenant_id = $1
		ORDER BY venue_unit_id, service_id
	`, tenantID)
}

func (r *VenueRepository) OneTimeEntries(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vu.venue_unit_id, vu.name, vu.venue_unit_type, COALESCE(vu.capacity, 0), COALESCE(vu.min_capacity, 0),
			vu.zone_tag_ids, va.service_duration, va.start_time, va.end_time, COALESCE(va.is_closed, FALSE)
		FROM venue_unit vu
		JOIN venue_availability va ON vu.tenant_id = va.tenant_id AND vu.venue_unit_id = va.venue_unit_id
		WHERE vu.tenant_id = $1 AND va.location_id = $2 AND va.type = 'one_time'
			AND va.specific_date = $3::date AND va.is_active = TRUE
		ORDER BY vu.venue_unit_id, va.start_time NULLS FIRST
	`, tenantID, locationID, sqlDate(date))
	if err != nil {
		return nil, err
	}
	return scanVenueEntries(rows)
}

func (r *VenueRepository) RecurringEntries(ctx context.Context, tenantID, locationID int64, weekday int, date time.Time, exclude []int64) ([]availability.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vu.venue_unit_id, vu.name, vu.venue_unit_type, COALESCE(vu.capacity, 0), COALESCE(vu.min_capacity, 0),
			vu.zone_tag_ids, va.service_duration, va.start_time, va.end_time, FALSE
		FROM venue_unit vu
		JOIN venue_availability va ON vu.tenant_id = va.tenant_id AND vu.venue_unit_id = va.venue_unit_id
		WHERE vu.tenant_id = $1 AND va.location_id = $2 AND va.type = 'recurring'
			AND va.day_of_week = $3 AND (va.specific_date IS NULL OR va.specific_date <> $4::date)
			AND va.is_active = TRUE
			AND NOT (vu.venue_unit_id = ANY($5))
		ORDER BY vu.venue_unit_id, va.start_time
	`, tenantID, locationID, weekday, sqlDate(date), exclusion(exclude))
	if err != nil {
		return nil, err
	}
	return scanVenueEntries(rows)
}

func scanVenueEntries(rows pgx.Rows) ([]availability.Entry, error) {
	defer rows.Close()

	var out []availability.Entry
	for rows.Next() {
		var (
			row         templateRow
			unitType    pgtype.Text
			capacity    int
			minCapacity int
			zoneTagIDs  []int64
			serviceDur  pgtype.Interval
		)
		if err := rows.Scan(&row.resourceID, &row.name, &unitType, &capacity, &minCapacity,
			&zoneTagIDs, &serviceDur, &row.start, &row.end, &row.closed); err != nil {
			return nil, err
		}
		e := row.entry()
		if serviceDur.Valid {
			e.Slot.ServiceDuration = availability.FormatDuration(durationFromInterval(serviceDur))
		}
		e.Unit = &availability.VenueUnit{
			Type:        unitType.String,
			Capacity:    capacity,
			MinCapacity: minCapacity,
			ZoneTagIDs:  zoneTagIDs,
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *VenueRepository) ConfirmedBookings(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Booking, error) {
	return confirmedBookings(ctx, r.pool, `
		SELECT venue_unit_id, start_time, end_time
		FROM bookings
		WHERE tenant_id = $1 AND location_id = $2
			AND start_time >= $3::date AND start_time < $3::date + INTERVAL '1 day'
			AND status = 'confirmed'
			AND venue_unit_id IS NOT NULL
		ORDER BY start_time
	`, tenantID, locationID, date)
}
