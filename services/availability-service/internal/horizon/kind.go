package horizon

import (
	"context"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// ResourceSource reads the templates and bookings of one kind of resource.
// Implementations decide which booking column identifies the resource.
type ResourceSource interface {
	// ResourceServices maps each resource of the tenant to the services it can perform.
	ResourceServices(ctx context.Context, tenantID int64) (map[int64][]int64, error)
	// OneTimeEntries returns active one-time entries (open or closed) for the date.
	OneTimeEntries(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Entry, error)
	// RecurringEntries returns active recurring entries for the weekday, skipping
	// the resources listed in exclude.
	RecurringEntries(ctx context.Context, tenantID, locationID int64, weekday int, date time.Time, exclude []int64) ([]availability.Entry, error)
	// ConfirmedBookings returns confirmed bookings that start on the date.
	ConfirmedBookings(ctx context.Context, tenantID, locationID int64, date time.Time) ([]availability.Booking, error)
}

// LocationSource reads location-wide data.
type LocationSource interface {
	LocationServices(ctx context.Context, tenantID, locationID int64) ([]availability.Service, error)
	ZoneTags(ctx context.Context, tenantID, locationID int64) ([]availability.ZoneTag, error)
	// LocationClosed reports an active closed one-time location entry for the date.
	LocationClosed(ctx context.Context, tenantID, locationID int64, date time.Time) (bool, error)
	OpenHours(ctx context.Context, tenantID, locationID int64, weekday int, date time.Time) ([]availability.OpenHours, error)
}

// Kind is the resource-specific part of a run.
type Kind struct {
	Name      string
	Resources ResourceSource
	// ZoneTags enables zone tag resolution and the location tag catalog.
	ZoneTags bool
	// ListKey names the resource list of a day from the day's template rows.
	ListKey func(oneTime, recurring []availability.Entry) string
}

const (
	KindStaff = "staff"
	KindVenue = "venue"
)

func StaffKind(src ResourceSource) Kind {
	return Kind{
		Name:      KindStaff,
		Resources: src,
		ListKey: func(_, _ []availability.Entry) string {
			return availability.KeyStaff
		},
	}
}

func VenueKind(src ResourceSource) Kind {
	return Kind{
		Name:      KindVenue,
		Resources: src,
		ZoneTags:  true,
		ListKey: func(oneTime, recurring []availability.Entry) string {
			return availability.ResourceKeyFor(oneTime, recurring)
		},
	}
}
