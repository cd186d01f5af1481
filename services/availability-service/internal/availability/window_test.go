package availability

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestPlanWindow_FullChunksAlignToToday(t *testing.T) {
	today := mustDate(t, "2025-08-01")
	w, ok := PlanWindow(today, nil)
	if !ok || w.Regen || w.Days != HorizonDays {
		t.Fatalf("unexpected full window %+v ok=%v", w, ok)
	}
	chunks := w.Chunks()
	if len(chunks) != HorizonDays/ChunkDays {
		t.Fatalf("expected %d chunks, got %d", HorizonDays/ChunkDays, len(chunks))
	}
	for i, c := range chunks {
		if off := DaysBetween(today, c.Start); off != i*ChunkDays {
			t.Fatalf("chunk %d starts at offset %d", i, off)
		}
		if len(c.Dates) != ChunkDays || !c.Dates[0].Equal(c.Start) {
			t.Fatalf("chunk %d has dates %v", i, c.Dates)
		}
	}
	if last := chunks[len(chunks)-1]; DaysBetween(today, last.Start) != 57 {
		t.Fatalf("expected last chunk at offset 57, got %d", DaysBetween(today, last.Start))
	}
}

func TestPlanWindow_RegenPicksContainingChunk(t *testing.T) {
	today := mustDate(t, "2025-08-01")
	affected := AddDays(today, 5)
	w, ok := PlanWindow(today, &affected)
	if !ok || !w.Regen {
		t.Fatalf("expected regen window, got %+v ok=%v", w, ok)
	}
	chunks := w.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(chunks))
	}
	for i, d := range chunks[0].Dates {
		if off := DaysBetween(today, d); off != 3+i {
			t.Fatalf("expected day offset %d, got %d", 3+i, off)
		}
	}
}

func TestPlanWindow_PastDateSkipped(t *testing.T) {
	today := mustDate(t, "2025-08-01")
	affected := AddDays(today, -1)
	if _, ok := PlanWindow(today, &affected); ok {
		t.Fatalf("expected past date to be skipped")
	}
	same := today
	if w, ok := PlanWindow(today, &same); !ok || !w.Start.Equal(today) {
		t.Fatalf("expected today to regen chunk 0, got %+v ok=%v", w, ok)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Sydney moves clocks forward on 2025-10-05.
	start := time.Date(2025, 10, 4, 0, 0, 0, 0, loc)
	next := AddDays(start, 1)
	if next.Hour() != 0 || next.Day() != 5 {
		t.Fatalf("expected local midnight on the 5th, got %s", next)
	}
	if DaysBetween(start, AddDays(start, 2)) != 2 {
		t.Fatalf("expected two calendar days")
	}
}

func TestParseAffectedDate(t *testing.T) {
	for _, raw := range []string{"2025-08-04", "2025-08-04T15:30:00+10:00", " 2025-08-04 "} {
		d, err := ParseAffectedDate(raw, time.UTC)
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if DateString(d) != "2025-08-04" || d.Hour() != 0 {
			t.Fatalf("%q: got %s", raw, d)
		}
	}
	if _, err := ParseAffectedDate("next tuesday", time.UTC); err == nil {
		t.Fatalf("expected error")
	}
}

func TestChunkKey(t *testing.T) {
	got := ChunkKey(2, 35, mustDate(t, "2025-08-04"))
	if got != "availability:tenant_2:location_35:start_date_2025-08-04" {
		t.Fatalf("unexpected key %s", got)
	}
}

func TestDayRecordJSON(t *testing.T) {
	rec := DayRecord{
		Date:        mustDate(t, "2025-08-04"),
		ResourceKey: KeyTables,
		Resources: []Resource{{
			ID:    7,
			Name:  "T1",
			Slots: []Slot{{Start: Clock(9, 0, 0), End: Clock(12, 0, 0), ServiceDuration: "1:30:00"}},
			Unit:  &VenueUnit{Type: UnitTypeDiningTable, Capacity: 4, MinCapacity: 2, ZoneTags: "Patio"},
		}},
		IsOpen:    true,
		OpenHours: []OpenHours{{Start: "09:00", End: "17:00"}},
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["date"] != "2025-08-04" || decoded["holiday"] != false || decoded["is_open"] != true {
		t.Fatalf("unexpected record %s", raw)
	}
	if _, ok := decoded[KeyStaff]; ok {
		t.Fatalf("staff key must not be present: %s", raw)
	}
	tables, ok := decoded[KeyTables].([]any)
	if !ok || len(tables) != 1 {
		t.Fatalf("expected one table: %s", raw)
	}
	table := tables[0].(map[string]any)
	if table["capacity"] != float64(4) || table["zone_tags"] != "Patio" {
		t.Fatalf("unexpected table %v", table)
	}
	if _, ok := table["zone_tag_ids"].([]any); !ok {
		t.Fatalf("zone_tag_ids must be a list: %s", raw)
	}
	if !strings.Contains(string(raw), `"start":"09:00:00","end":"12:00:00","service_duration":"1:30:00"`) {
		t.Fatalf("unexpected slot encoding: %s", raw)
	}
}

func TestStaffResourceJSONHasNoVenueFields(t *testing.T) {
	raw, err := json.Marshal(Resource{ID: 1, Name: "Ana"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"id":1,"name":"Ana","service":[],"slots":[]}` {
		t.Fatalf("unexpected staff encoding: %s", raw)
	}
}
