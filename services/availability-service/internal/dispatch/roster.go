package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/speakoai/availability/services/availability-service/internal/horizon"
	"github.com/speakoai/availability/services/availability-service/internal/storage"
	"gopkg.in/yaml.v3"
)

// RosterEntry is one location the nightly sweep keeps fresh.
type RosterEntry struct {
	TenantID   int64  `yaml:"tenant_id"`
	LocationID int64  `yaml:"location_id"`
	Timezone   string `yaml:"timezone"`
	Kind       string `yaml:"kind"`
}

type Roster interface {
	Locations(ctx context.Context) ([]RosterEntry, error)
}

// StaticRoster is a fixed list, usually loaded from a file.
type StaticRoster []RosterEntry

func (r StaticRoster) Locations(context.Context) ([]RosterEntry, error) {
	return r, nil
}

// LoadRosterFile reads a YAML list of roster entries. A missing kind means staff.
func LoadRosterFile(path string) (StaticRoster, error) {
	if path == "" {
		return nil, errors.New("roster path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []RosterEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	for i := range entries {
		e := &entries[i]
		if e.TenantID == 0 || e.LocationID == 0 || strings.TrimSpace(e.Timezone) == "" {
			return nil, fmt.Errorf("roster entry %d: tenant_id, location_id and timezone are required", i)
		}
		switch e.Kind {
		case "":
			e.Kind = horizon.KindStaff
		case horizon.KindStaff, horizon.KindVenue:
		default:
			return nil, fmt.Errorf("roster entry %d: unknown kind %q", i, e.Kind)
		}
	}
	return StaticRoster(entries), nil
}

type locationLister interface {
	ListActiveLocations(ctx context.Context) ([]storage.Location, error)
}

// DBRoster lists active locations from the database. Restaurants are served
// by venue units, everything else by staff.
type DBRoster struct {
	repo locationLister
}

func NewDBRoster(repo locationLister) *DBRoster {
	return &DBRoster{repo: repo}
}

func (r *DBRoster) Locations(ctx context.Context) ([]RosterEntry, error) {
	locs, err := r.repo.ListActiveLocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RosterEntry, 0, len(locs))
	for _, l := range locs {
		kind := horizon.KindStaff
		if strings.EqualFold(l.Type, "restaurant") {
			kind = horizon.KindVenue
		}
		out = append(out, RosterEntry{
			TenantID:   l.TenantID,
			LocationID: l.LocationID,
			Timezone:   l.Timezone,
			Kind:       kind,
		})
	}
	return out, nil
}
