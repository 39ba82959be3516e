package routine

import (
	"errors"
	"testing"
)

func TestDefaultSlotCatalog(t *testing.T) {
	c := DefaultSlotCatalog()
	if c.Len() != 7 {
		t.Fatalf("expected 7 slots, got %d", c.Len())
	}
	first, last := c.Slot(0), c.Slot(c.Len()-1)
	if first.Start != 480 || first.End != 560 {
		t.Errorf("first slot = [%d,%d), want [480,560)", first.Start, first.End)
	}
	if last.Start != 1020 || last.End != 1100 {
		t.Errorf("last slot = [%d,%d), want [1020,1100)", last.Start, last.End)
	}
	for i := 0; i < c.Len(); i++ {
		if s := c.Slot(i); s.End-s.Start != 80 {
			t.Errorf("slot %q is %d minutes, want 80", s.Value, s.End-s.Start)
		}
	}
}

func TestNewSlotCatalog_EnDashAndLabel(t *testing.T) {
	c, err := NewSlotCatalog([]SlotSpec{{Value: "8:00 AM–9:20 AM"}})
	if err != nil {
		t.Fatalf("NewSlotCatalog failed: %v", err)
	}
	s := c.Slot(0)
	if s.Start != 480 || s.End != 560 {
		t.Errorf("slot = [%d,%d)", s.Start, s.End)
	}
	if s.Label != s.Value {
		t.Errorf("label should default to value, got %q", s.Label)
	}
}

func TestNewSlotCatalog_Invalid(t *testing.T) {
	tests := map[string][]SlotSpec{
		"empty":       nil,
		"single time": {{Value: "8:00 AM"}},
		"reversed":    {{Value: "9:20 AM-8:00 AM"}},
		"garbage":     {{Value: "morning-noon"}},
		"duplicate":   {{Value: "8:00 AM-9:20 AM"}, {Value: "8:00 AM-9:20 AM"}},
	}
	for name, specs := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewSlotCatalog(specs); !errors.Is(err, ErrInvalidSlotCatalog) {
				t.Errorf("expected ErrInvalidSlotCatalog, got %v", err)
			}
		})
	}
}

func TestSlotCatalog_SlotsIsCopy(t *testing.T) {
	c := DefaultSlotCatalog()
	slots := c.Slots()
	slots[0].Start = 0
	if c.Slot(0).Start != 480 {
		t.Error("Slots() must not expose internal storage")
	}
}
