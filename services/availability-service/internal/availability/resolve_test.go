package availability

import "testing"

func TestResolve_OneTimeOverridesRecurring(t *testing.T) {
	recurring := []Entry{
		{ResourceID: 1, Name: "Ana", Slot: slot(Clock(9, 0, 0), Clock(17, 0, 0))},
		{ResourceID: 2, Name: "Ben", Slot: slot(Clock(9, 0, 0), Clock(17, 0, 0))},
	}
	oneTime := []Entry{
		{ResourceID: 1, Name: "Ana", Slot: slot(Clock(10, 0, 0), Clock(14, 0, 0))},
	}
	got := Resolve(oneTime, recurring)
	if len(got) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(got))
	}
	if got[0].ID != 1 || len(got[0].Slots) != 1 || got[0].Slots[0] != slot(Clock(10, 0, 0), Clock(14, 0, 0)) {
		t.Fatalf("expected one-time window 10:00-14:00 for Ana, got %+v", got[0])
	}
	if got[1].ID != 2 || got[1].Slots[0] != slot(Clock(9, 0, 0), Clock(17, 0, 0)) {
		t.Fatalf("expected recurring window for Ben, got %+v", got[1])
	}
}

func TestResolve_ClosedOneTimeRemovesResource(t *testing.T) {
	recurring := []Entry{{ResourceID: 1, Slot: slot(Clock(9, 0, 0), Clock(17, 0, 0))}}
	oneTime := []Entry{{ResourceID: 1, Closed: true}}
	if got := Resolve(oneTime, recurring); len(got) != 0 {
		t.Fatalf("expected closed resource to be dropped, got %+v", got)
	}
}

func TestResolve_ClosedRowKeepsOpenOneTimeWindows(t *testing.T) {
	recurring := []Entry{{ResourceID: 1, Name: "Ana", Slot: slot(Clock(9, 0, 0), Clock(17, 0, 0))}}
	oneTime := []Entry{
		{ResourceID: 1, Name: "Ana", Slot: slot(Clock(10, 0, 0), Clock(14, 0, 0))},
		{ResourceID: 1, Name: "Ana", Closed: true},
	}
	got := Resolve(oneTime, recurring)
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected Ana to stay open, got %+v", got)
	}
	if len(got[0].Slots) != 1 || got[0].Slots[0] != slot(Clock(10, 0, 0), Clock(14, 0, 0)) {
		t.Fatalf("expected only the open one-time window 10:00-14:00, got %+v", got[0].Slots)
	}
}

func TestResolve_MultipleSlotsKeepOrder(t *testing.T) {
	recurring := []Entry{
		{ResourceID: 3, Slot: slot(Clock(13, 0, 0), Clock(17, 0, 0))},
		{ResourceID: 5, Slot: slot(Clock(9, 0, 0), Clock(12, 0, 0))},
		{ResourceID: 3, Slot: slot(Clock(9, 0, 0), Clock(12, 0, 0))},
	}
	got := Resolve(nil, recurring)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 5 {
		t.Fatalf("unexpected resources %+v", got)
	}
	if len(got[0].Slots) != 2 || got[0].Slots[0].Start != Clock(13, 0, 0) {
		t.Fatalf("unexpected slots %+v", got[0].Slots)
	}
}

func TestResourceKeyFor(t *testing.T) {
	booth := Entry{ResourceID: 1, Unit: &VenueUnit{Type: "booth"}}
	table := Entry{ResourceID: 2, Closed: true, Unit: &VenueUnit{Type: UnitTypeDiningTable}}
	if got := ResourceKeyFor([]Entry{booth}); got != KeyVenueUnits {
		t.Fatalf("expected %s, got %s", KeyVenueUnits, got)
	}
	if got := ResourceKeyFor([]Entry{table}, []Entry{booth}); got != KeyTables {
		t.Fatalf("expected %s, got %s", KeyTables, got)
	}
}

func TestScheduleWeekday(t *testing.T) {
	// 2025-08-03 is a Sunday.
	base := mustDate(t, "2025-08-03")
	for i, want := range []int{0, 1, 2, 3, 4, 5, 6} {
		if got := ScheduleWeekday(AddDays(base, i)); got != want {
			t.Fatalf("%s: expected %d, got %d", DateString(AddDays(base, i)), want, got)
		}
	}
}
