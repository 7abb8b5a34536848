// Package capture holds the photos attached to a contribution draft.
// Each photo occupies one of four fixed slots; only the product slot is required.
package capture

import "fmt"

// Slot identifies a photo position on a contribution.
type Slot string

const (
	SlotProduct      Slot = "product"
	SlotBack         Slot = "back"
	SlotRecycling    Slot = "recycling"
	SlotManufacturer Slot = "manufacturer"
)

// Slots lists every slot in presentation order.
var Slots = []Slot{SlotProduct, SlotBack, SlotRecycling, SlotManufacturer}

// ParseSlot validates a slot name.
func ParseSlot(s string) (Slot, error) {
	for _, slot := range Slots {
		if string(slot) == s {
			return slot, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Required reports whether a contribution cannot be submitted without this slot.
func (s Slot) Required() bool {
	return s == SlotProduct
}
