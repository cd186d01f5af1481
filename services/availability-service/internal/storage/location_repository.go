package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/speakoai/availability/libs/db"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// LocationRepository reads location-wide catalogs, hours and the location roster.
type LocationRepository struct {
	pool *db.Pool
}

func NewLocationRepository(pool *db.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) LocationServices(ctx context.Context, tenantID, locationID int64) ([]availability.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.service_id, s.name, FLOOR(COALESCE(EXTRACT(EPOCH FROM s.duration), 0) / 60)::int
		FROM location_services ls
		JOIN services s ON ls.tenant_id = s.tenant_id AND ls.service_id = s.service_id
		WHERE ls.tenant_id = $1 AND ls.location_id = $2
		ORDER BY s.service_id
	`, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.Service
	for rows.Next() {
		var s availability.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// ZoneTags returns the active zone tags (category 1) of the location.
func (r *LocationRepository) ZoneTags(ctx context.Context, tenantID, locationID int64) ([]availability.ZoneTag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tag_id, name, COALESCE(slug, '')
		FROM location_tag
		WHERE tenant_id = $1 AND location_id = $2 AND is_active = TRUE AND category_id = 1
		ORDER BY name
	`, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.ZoneTag
	for rows.Next() {
		var t availability.ZoneTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *LocationRepository) LocationClosed(ctx context.Context, tenantID, locationID int64, date time.Time) (bool, error) {
	var closed bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM location_availability
			WHERE tenant_id = $1 AND location_id = $2 AND type = 'one_time'
				AND specific_date = $3::date AND is_active = TRUE AND is_closed = TRUE
		)
	`, tenantID, locationID, sqlDate(date)).Scan(&closed)
	return closed, err
}

// OpenHours returns the location's open windows for the date, one-time and
// recurring alike, ordered by start.
func (r *LocationRepository) OpenHours(ctx context.Context, tenantID, locationID int64, weekday int, date time.Time) ([]availability.OpenHours, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time, end_time
		FROM location_availability
		WHERE tenant_id = $1 AND location_id = $2 AND is_active = TRUE AND is_closed = FALSE
			AND ((type = 'recurring' AND day_of_week = $3) OR (type = 'one_time' AND specific_date = $4::date))
		ORDER BY start_time
	`, tenantID, locationID, weekday, sqlDate(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.OpenHours
	for rows.Next() {
		var start, end pgtype.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, err
		}
		out = append(out, availability.OpenHours{
			Start: clockFromTime(start).HourMinute(),
			End:   clockFromTime(end).HourMinute(),
		})
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// Location is one entry of the nightly roster.
type Location struct {
	TenantID   int64
	LocationID int64
	Timezone   string
	Type       string
}

func (r *LocationRepository) ListActiveLocations(ctx context.Context) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT tenant_id, location_id, COALESCE(timezone, 'UTC'), COALESCE(location_type, '')
		FROM locations
		WHERE is_active = TRUE
		ORDER BY tenant_id, location_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.TenantID, &l.LocationID, &l.Timezone, &l.Type); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
