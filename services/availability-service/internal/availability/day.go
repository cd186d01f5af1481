package availability

import (
	"encoding/json"
	"time"
)

// Resource list keys used in a DayRecord.
const (
	KeyStaff      = "staff"
	KeyVenueUnits = "venue_units"
	KeyTables     = "tables"
)

// UnitTypeDiningTable marks venue units that are restaurant tables.
const UnitTypeDiningTable = "dining_table"

type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ZoneTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// OpenHours is a location opening window formatted as HH:MM.
type OpenHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayRecord is the computed state of one date at one location.
type DayRecord struct {
	Date        time.Time
	ResourceKey string
	Resources   []Resource
	Holiday     bool
	IsOpen      bool
	OpenHours   []OpenHours
}

// ChunkPayload is the cached unit: consecutive DayRecords plus the location's
// catalogs.
type ChunkPayload struct {
	TenantID       int64       `json:"tenant_id"`
	LocationID     int64       `json:"location_id"`
	Services       []Service   `json:"services"`
	ZoneTags       []ZoneTag   `json:"location_zone_tags,omitempty"`
	Availabilities []DayRecord `json:"availabilities"`
}

type slotJSON struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	ServiceDuration string `json:"service_duration,omitempty"`
}

type resourceJSON struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Services []int64 `json:"service"`
	*VenueUnit
	Slots []slotJSON `json:"slots"`
}

func (r Resource) MarshalJSON() ([]byte, error) {
	out := resourceJSON{
		ID:        r.ID,
		Name:      r.Name,
		Services:  r.Services,
		VenueUnit: r.Unit,
		Slots:     make([]slotJSON, 0, len(r.Slots)),
	}
	if out.Services == nil {
		out.Services = []int64{}
	}
	if r.Unit != nil && r.Unit.ZoneTagIDs == nil {
		u := *r.Unit
		u.ZoneTagIDs = []int64{}
		out.VenueUnit = &u
	}
	for _, s := range r.Slots {
		out.Slots = append(out.Slots, slotJSON{
			Start:           s.Start.String(),
			End:             s.End.String(),
			ServiceDuration: s.ServiceDuration,
		})
	}
	return json.Marshal(out)
}

func (d DayRecord) MarshalJSON() ([]byte, error) {
	key := d.ResourceKey
	if key == "" {
		key = KeyStaff
	}
	resources := d.Resources
	if resources == nil {
		resources = []Resource{}
	}
	hours := d.OpenHours
	if hours == nil {
		hours = []OpenHours{}
	}
	return json.Marshal(map[string]any{
		"date":       DateString(d.Date),
		key:          resources,
		"holiday":    d.Holiday,
		"is_open":    d.IsOpen,
		"open_hours": hours,
	})
}

// ResourceKeyFor picks the list key of a venue day: tables when any unit seen
// on the day is a dining table.
func ResourceKeyFor(entries ...[]Entry) string {
	for _, list := range entries {
		for _, e := range list {
			if e.Unit != nil && e.Unit.Type == UnitTypeDiningTable {
				return KeyTables
			}
		}
	}
	return KeyVenueUnits
}
