package routine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSlotCatalog is returned when the display slot configuration
// cannot be used to lay out a grid.
var ErrInvalidSlotCatalog = errors.New("invalid display slot catalog")

// SlotSpec is a display slot as configured: Value is "start-end" in 12-hour
// notation, Label is what the grid shows.
type SlotSpec struct {
	Value string `json:"value" mapstructure:"value"`
	Label string `json:"label" mapstructure:"label"`
}

// DisplaySlot is a day-agnostic time band used as a grid row.
type DisplaySlot struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Start int    `json:"start_minutes"`
	End   int    `json:"end_minutes"`
}

// SlotCatalog is the ordered, read-only list of display slots.
type SlotCatalog struct {
	slots []DisplaySlot
}

// DefaultSlotSpecs are seven 80-minute bands covering 8:00 AM to 6:20 PM.
var DefaultSlotSpecs = []SlotSpec{
	{Value: "8:00 AM-9:20 AM", Label: "8:00 AM-9:20 AM"},
	{Value: "9:30 AM-10:50 AM", Label: "9:30 AM-10:50 AM"},
	{Value: "11:00 AM-12:20 PM", Label: "11:00 AM-12:20 PM"},
	{Value: "12:30 PM-1:50 PM", Label: "12:30 PM-1:50 PM"},
	{Value: "2:00 PM-3:20 PM", Label: "2:00 PM-3:20 PM"},
	{Value: "3:30 PM-4:50 PM", Label: "3:30 PM-4:50 PM"},
	{Value: "5:00 PM-6:20 PM", Label: "5:00 PM-6:20 PM"},
}

// NewSlotCatalog parses specs. Unlike meeting times, a bad slot is a
// configuration error and is reported instead of defaulted.
func NewSlotCatalog(specs []SlotSpec) (*SlotCatalog, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no slots", ErrInvalidSlotCatalog)
	}
	slots := make([]DisplaySlot, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for i, spec := range specs {
		start, end, err := ParseSlotValue(spec.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrInvalidSlotCatalog, i, err)
		}
		if seen[spec.Value] {
			return nil, fmt.Errorf("%w: duplicate slot %q", ErrInvalidSlotCatalog, spec.Value)
		}
		seen[spec.Value] = true

		label := spec.Label
		if label == "" {
			label = spec.Value
		}
		slots = append(slots, DisplaySlot{Value: spec.Value, Label: label, Start: start, End: end})
	}
	return &SlotCatalog{slots: slots}, nil
}

// DefaultSlotCatalog returns the catalog built from DefaultSlotSpecs.
func DefaultSlotCatalog() *SlotCatalog {
	c, err := NewSlotCatalog(DefaultSlotSpecs)
	if err != nil {
		panic(err) // DefaultSlotSpecs is a constant
	}
	return c
}

// ParseSlotValue splits "8:00 AM-9:20 AM" (hyphen or en-dash) into minutes.
func ParseSlotValue(value string) (int, int, error) {
	v := strings.ReplaceAll(value, "–", "-")
	parts := strings.Split(v, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q is not a start-end range", value)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%q ends before it starts", value)
	}
	return start, end, nil
}

// Len returns the number of slots.
func (c *SlotCatalog) Len() int { return len(c.slots) }

// Slot returns the i-th slot.
func (c *SlotCatalog) Slot(i int) DisplaySlot { return c.slots[i] }

// Slots returns a copy of the slots in order.
func (c *SlotCatalog) Slots() []DisplaySlot {
	out := make([]DisplaySlot, len(c.slots))
	copy(out, c.slots)
	return out
}
