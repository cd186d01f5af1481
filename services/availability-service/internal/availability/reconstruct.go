package availability

import "sort"

// Booking is a confirmed booking projected onto one day's clock.
type Booking struct {
	ResourceID int64
	Start      ClockTime
	End        ClockTime
}

// VenueUnit carries the venue-only attributes of a resource.
type VenueUnit struct {
	Type        string  `json:"-"`
	Capacity    int     `json:"capacity"`
	MinCapacity int     `json:"min_capacity"`
	ZoneTags    string  `json:"zone_tags"`
	ZoneTagIDs  []int64 `json:"zone_tag_ids"`
}

// Resource is a staff member or venue unit with its free slots for one day.
type Resource struct {
	ID       int64
	Name     string
	Services []int64
	Slots    []Slot
	// Unit is nil for staff.
	Unit *VenueUnit
}

func (r Resource) clone() Resource {
	out := r
	out.Services = append([]int64(nil), r.Services...)
	out.Slots = append([]Slot(nil), r.Slots...)
	if r.Unit != nil {
		u := *r.Unit
		u.ZoneTagIDs = append([]int64(nil), r.Unit.ZoneTagIDs...)
		out.Unit = &u
	}
	return out
}

// Reconstruct subtracts every booking from the slots of the resource it
// belongs to and returns the resulting resources in input order. The input is
// left untouched.
func Reconstruct(resources []Resource, bookings []Booking) []Resource {
	byResource := make(map[int64][]Booking)
	for _, b := range bookings {
		byResource[b.ResourceID] = append(byResource[b.ResourceID], b)
	}
	for id := range byResource {
		list := byResource[id]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Start < list[j].Start })
	}

	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		r = r.clone()
		booked := byResource[r.ID]
		if len(booked) == 0 {
			out = append(out, r)
			continue
		}

		free := make([]Slot, 0, len(r.Slots))
		for _, slot := range r.Slots {
			candidates := []Slot{slot}
			for _, b := range booked {
				next := make([]Slot, 0, len(candidates)+1)
				for _, c := range candidates {
					next = append(next, Subtract(c, Slot{Start: b.Start, End: b.End})...)
				}
				candidates = next
			}
			free = append(free, candidates...)
		}
		r.Slots = free
		out = append(out, r)
	}
	return out
}
