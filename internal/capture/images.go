package capture

// Images is an immutable set of photos keyed by slot.
// With and Without return a new set and leave the receiver unchanged.
type Images struct {
	slots map[Slot]Image
}

// With returns a copy of the set with img placed in slot, replacing any previous photo.
func (s Images) With(slot Slot, img Image) Images {
	next := s.clone()
	next.slots[slot] = img
	return next
}

// Without returns a copy of the set with slot cleared.
func (s Images) Without(slot Slot) Images {
	if _, ok := s.slots[slot]; !ok {
		return s
	}
	next := s.clone()
	delete(next.slots, slot)
	return next
}

// Get returns the photo in slot, if any.
func (s Images) Get(slot Slot) (Image, bool) {
	img, ok := s.slots[slot]
	return img, ok
}

// Has reports whether slot holds a photo.
func (s Images) Has(slot Slot) bool {
	_, ok := s.slots[slot]
	return ok
}

// Preview returns the data URI for slot, or an empty string when the slot is empty.
func (s Images) Preview(slot Slot) string {
	if img, ok := s.slots[slot]; ok {
		return img.Preview()
	}
	return ""
}

// Present returns the occupied slots in presentation order.
func (s Images) Present() []Slot {
	present := make([]Slot, 0, len(s.slots))
	for _, slot := range Slots {
		if s.Has(slot) {
			present = append(present, slot)
		}
	}
	return present
}

// Len is the number of occupied slots.
func (s Images) Len() int { return len(s.slots) }

func (s Images) clone() Images {
	next := Images{slots: make(map[Slot]Image, len(s.slots)+1)}
	for k, v := range s.slots {
		next.slots[k] = v
	}
	return next
}
