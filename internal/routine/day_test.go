package routine

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want Day
	}{
		{"Sunday", Sunday},
		{"  monday ", Monday},
		{"TUESDAY", Tuesday},
		{"wed", Wednesday},
		{"Thu", Thursday},
		{"fri", Friday},
		{"Sat", Saturday},
	}
	for _, tt := range tests {
		got, err := ParseDay(tt.in)
		if err != nil {
			t.Errorf("ParseDay(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "Funday", "Su", "Sundays"} {
		if _, err := ParseDay(in); !errors.Is(err, ErrUnknownDay) {
			t.Errorf("ParseDay(%q) error = %v, want ErrUnknownDay", in, err)
		}
	}
}

func TestDay_Names(t *testing.T) {
	if Sunday.String() != "Sunday" || Saturday.Upper() != "SATURDAY" {
		t.Errorf("unexpected names %q %q", Sunday.String(), Saturday.Upper())
	}
	if got := Day(9).String(); got != "Day(9)" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestCanonicalDayName(t *testing.T) {
	if got := CanonicalDayName("  tHURSDAY "); got != "Thursday" {
		t.Errorf("CanonicalDayName = %q, want Thursday", got)
	}
	if got := CanonicalDayName(""); got != "" {
		t.Errorf("CanonicalDayName(\"\") = %q", got)
	}
}

func TestDaySet(t *testing.T) {
	s, err := ParseDaySet([]string{"Tuesday", "sunday", "SUN"})
	if err != nil {
		t.Fatalf("ParseDaySet failed: %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected 2 days, got %d", s.Len())
	}
	if !s.Has(Sunday) || !s.Has(Tuesday) || s.Has(Monday) {
		t.Errorf("unexpected membership: %v", s.Names())
	}
	if !reflect.DeepEqual(s.Names(), []string{"Sunday", "Tuesday"}) {
		t.Errorf("Names() = %v, want week order", s.Names())
	}
	if NewDaySet(Day(-1), Day(7)).Len() != 0 {
		t.Error("out of range days must be ignored")
	}
}

func TestParseDaySet_UnknownName(t *testing.T) {
	if _, err := ParseDaySet([]string{"Sunday", "Someday"}); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("expected ErrUnknownDay, got %v", err)
	}
}
