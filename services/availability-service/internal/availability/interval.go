package availability

// Slot is a contiguous window of a day during which a resource is free.
type Slot struct {
	Start ClockTime
	End   ClockTime
	// ServiceDuration is the venue template's per-slot service duration
	// (H:MM:SS). Empty for staff slots.
	ServiceDuration string
}

func (s Slot) Duration() ClockTime {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Subtract removes the booked window b from slot and returns what is left:
// zero, one or two sub-slots. Sub-slots keep the slot's ServiceDuration.
func Subtract(slot Slot, b Slot) []Slot {
	switch {
	case b.End <= b.Start:
		// Empty or inverted bookings hold no time.
		return []Slot{slot}
	case b.Start > slot.Start && b.End < slot.End:
		left, right := slot, slot
		left.End = b.Start
		right.Start = b.End
		return []Slot{left, right}
	case b.Start <= slot.Start && slot.Start < b.End && b.End < slot.End:
		right := slot
		right.Start = b.End
		return []Slot{right}
	case slot.Start < b.Start && b.Start < slot.End && slot.End <= b.End:
		left := slot
		left.End = b.Start
		return []Slot{left}
	case b.Start <= slot.Start && b.End >= slot.End:
		return nil
	default:
		return []Slot{slot}
	}
}
