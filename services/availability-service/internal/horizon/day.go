package horizon

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// catalog is loaded once per run and shared by every day of it.
type catalog struct {
	services []availability.Service
	zoneTags []availability.ZoneTag
	// resourceServices is already narrowed to services offered at the location.
	resourceServices map[int64][]int64
	tagNames         map[int64]string
}

func loadCatalog(ctx context.Context, kind Kind, loc LocationSource, tenantID, locationID int64) (catalog, error) {
	services, err := loc.LocationServices(ctx, tenantID, locationID)
	if err != nil {
		return catalog{}, fmt.Errorf("load location services: %w", err)
	}
	mapping, err := kind.Resources.ResourceServices(ctx, tenantID)
	if err != nil {
		return catalog{}, fmt.Errorf("load %s services: %w", kind.Name, err)
	}

	offered := make(map[int64]bool, len(services))
	for _, s := range services {
		offered[s.ID] = true
	}
	c := catalog{
		services:         services,
		resourceServices: make(map[int64][]int64, len(mapping)),
		tagNames:         map[int64]string{},
	}
	for id, list := range mapping {
		var keep []int64
		for _, svc := range list {
			if offered[svc] {
				keep = append(keep, svc)
			}
		}
		c.resourceServices[id] = keep
	}

	if kind.ZoneTags {
		tags, err := loc.ZoneTags(ctx, tenantID, locationID)
		if err != nil {
			return catalog{}, fmt.Errorf("load zone tags: %w", err)
		}
		c.zoneTags = tags
		for _, t := range tags {
			c.tagNames[t.ID] = t.Name
		}
	}
	return c, nil
}

// zoneTagNames turns tag ids into a sorted, comma separated list of names.
// Unknown ids are ignored.
func (c catalog) zoneTagNames(ids []int64) string {
	var names []string
	for _, id := range ids {
		if name, ok := c.tagNames[id]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type dayBuilder struct {
	kind       Kind
	loc        LocationSource
	catalog    catalog
	tenantID   int64
	locationID int64
}

func (b dayBuilder) build(ctx context.Context, date time.Time) (availability.DayRecord, error) {
	weekday := availability.ScheduleWeekday(date)
	src := b.kind.Resources

	oneTime, err := src.OneTimeEntries(ctx, b.tenantID, b.locationID, date)
	if err != nil {
		return availability.DayRecord{}, fmt.Errorf("one-time entries: %w", err)
	}
	exclude := make([]int64, 0, len(oneTime))
	seen := make(map[int64]bool, len(oneTime))
	for _, e := range oneTime {
		if !seen[e.ResourceID] {
			seen[e.ResourceID] = true
			exclude = append(exclude, e.ResourceID)
		}
	}
	recurring, err := src.RecurringEntries(ctx, b.tenantID, b.locationID, weekday, date, exclude)
	if err != nil {
		return availability.DayRecord{}, fmt.Errorf("recurring entries: %w", err)
	}
	bookings, err := src.ConfirmedBookings(ctx, b.tenantID, b.locationID, date)
	if err != nil {
		return availability.DayRecord{}, fmt.Errorf("bookings: %w", err)
	}

	resources := availability.Resolve(oneTime, recurring)
	for i := range resources {
		resources[i].Services = b.catalog.resourceServices[resources[i].ID]
		if resources[i].Unit != nil {
			resources[i].Unit.ZoneTags = b.catalog.zoneTagNames(resources[i].Unit.ZoneTagIDs)
		}
	}

	rec := availability.DayRecord{
		Date:        date,
		ResourceKey: b.kind.ListKey(oneTime, recurring),
		Resources:   availability.Reconstruct(resources, bookings),
		IsOpen:      true,
	}

	closed, err := b.loc.LocationClosed(ctx, b.tenantID, b.locationID, date)
	if err != nil {
		return availability.DayRecord{}, fmt.Errorf("location closure: %w", err)
	}
	if closed {
		rec.Holiday = true
		rec.IsOpen = false
		return rec, nil
	}
	hours, err := b.loc.OpenHours(ctx, b.tenantID, b.locationID, weekday, date)
	if err != nil {
		return availability.DayRecord{}, fmt.Errorf("open hours: %w", err)
	}
	rec.OpenHours = hours
	if len(hours) == 0 {
		rec.IsOpen = false
	}
	return rec, nil
}
