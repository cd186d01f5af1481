package horizon

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeResources struct {
	services  map[int64][]int64
	oneTime   map[string][]availability.Entry
	recurring map[int][]availability.Entry
	bookings  map[string][]availability.Booking

	failOn       string
	err          error
	panicOn      string
	serviceCalls int
}

func (f *fakeResources) ResourceServices(_ context.Context, _ int64) (map[int64][]int64, error) {
	f.serviceCalls++
	return f.services, nil
}

func (f *fakeResources) OneTimeEntries(_ context.Context, _, _ int64, date time.Time) ([]availability.Entry, error) {
	ds := availability.DateString(date)
	if ds == f.panicOn {
		panic("boom")
	}
	if ds == f.failOn {
		return nil, f.err
	}
	return f.oneTime[ds], nil
}

func (f *fakeResources) RecurringEntries(_ context.Context, _, _ int64, weekday int, _ time.Time, exclude []int64) ([]availability.Entry, error) {
	skip := map[int64]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	var out []availability.Entry
	for _, e := range f.recurring[weekday] {
		if !skip[e.ResourceID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeResources) ConfirmedBookings(_ context.Context, _, _ int64, date time.Time) ([]availability.Booking, error) {
	return f.bookings[availability.DateString(date)], nil
}

type fakeLocation struct {
	services   []availability.Service
	tags       []availability.ZoneTag
	closed     map[string]bool
	hours      map[int][]availability.OpenHours
	hoursCalls int
}

func (f *fakeLocation) LocationServices(_ context.Context, _, _ int64) ([]availability.Service, error) {
	return f.services, nil
}

func (f *fakeLocation) ZoneTags(_ context.Context, _, _ int64) ([]availability.ZoneTag, error) {
	return f.tags, nil
}

func (f *fakeLocation) LocationClosed(_ context.Context, _, _ int64, date time.Time) (bool, error) {
	return f.closed[availability.DateString(date)], nil
}

func (f *fakeLocation) OpenHours(_ context.Context, _, _ int64, weekday int, _ time.Time) ([]availability.OpenHours, error) {
	f.hoursCalls++
	return f.hours[weekday], nil
}

type cacheOp struct {
	op  string
	key string
}

type fakeCache struct {
	ops    []cacheOp
	values map[string][]byte
	setErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}}
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.ops = append(c.ops, cacheOp{op: "set", key: key})
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) (bool, error) {
	c.ops = append(c.ops, cacheOp{op: "del", key: key})
	_, ok := c.values[key]
	delete(c.values, key)
	return ok, nil
}

func (c *fakeCache) sets() []string {
	var out []string
	for _, op := range c.ops {
		if op.op == "set" {
			out = append(out, op.key)
		}
	}
	return out
}

func (c *fakeCache) deletes() []string {
	var out []string
	for _, op := range c.ops {
		if op.op == "del" {
			out = append(out, op.key)
		}
	}
	return out
}
