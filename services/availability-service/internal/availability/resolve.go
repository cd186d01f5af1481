package availability

// Entry is one template row (one-time or recurring) that applies to a date.
type Entry struct {
	ResourceID int64
	Name       string
	Slot       Slot
	Closed     bool
	Unit       *VenueUnit
}

// Resolve decides which resources are open on a date and with which slots.
//
// A resource with any active one-time entry for the date uses its open
// one-time entries only. A closed one-time entry contributes no slot but still
// suppresses the recurring entries, so a resource with nothing but closed rows
// is absent for the day. Recurring entries apply to resources without a
// one-time entry. Resources are returned in order of first appearance,
// one-time rows first.
func Resolve(oneTime, recurring []Entry) []Resource {
	overridden := make(map[int64]bool, len(oneTime))
	for _, e := range oneTime {
		overridden[e.ResourceID] = true
	}

	index := make(map[int64]int)
	var out []Resource
	add := func(e Entry) {
		i, ok := index[e.ResourceID]
		if !ok {
			r := Resource{ID: e.ResourceID, Name: e.Name}
			if e.Unit != nil {
				u := *e.Unit
				r.Unit = &u
			}
			out = append(out, r)
			i = len(out) - 1
			index[e.ResourceID] = i
		}
		out[i].Slots = append(out[i].Slots, e.Slot)
	}

	for _, e := range oneTime {
		if e.Closed {
			continue
		}
		add(e)
	}
	for _, e := range recurring {
		if overridden[e.ResourceID] {
			continue
		}
		add(e)
	}
	return out
}
