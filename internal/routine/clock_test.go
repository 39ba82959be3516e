package routine

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2:30 PM", 870},
		{"12:00 AM", 0},
		{"12:15 PM", 735},
		{"8:00 AM", 480},
		{" 2:30 pm ", 870},
		{"00:15", 15},
		{"13:45:00", 825},
		{"08:00:00", 480},
		{"23:59", 1439},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"garbage", "", "1430", "25:00", "10:60", "7:61 PM", "13:00 PM", "0:30 AM", "ab:cd", "10:00:99", "1:2:3:4"} {
		if _, err := ParseClock(in); !errors.Is(err, ErrBadClock) {
			t.Errorf("ParseClock(%q) error = %v, want ErrBadClock", in, err)
		}
	}
}

func TestTimeParser_FallsBackToMidnight(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := NewTimeParser(zap.New(core))

	if got := p.Minutes("garbage"); got != 0 {
		t.Errorf("Minutes(garbage) = %d, want 0", got)
	}
	if got := p.Minutes("2:30 PM"); got != 870 {
		t.Errorf("Minutes(2:30 PM) = %d, want 870", got)
	}
	if n := logs.FilterMessage("time of day fell back to 00:00").Len(); n != 1 {
		t.Errorf("expected 1 fallback warning, got %d", n)
	}
}

func TestTimeParser_NilLogger(t *testing.T) {
	if got := NewTimeParser(nil).Minutes("??"); got != 0 {
		t.Errorf("Minutes(??) = %d, want 0", got)
	}
}

func TestFormatClock12(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"14:30:00", "2:30 PM"},
		{"08:00", "8:00 AM"},
		{"00:05", "12:05 AM"},
		{"12:00", "12:00 PM"},
		{"bad", "bad"},
		{"8:00 AM", "8:00 AM"},
	}
	for _, tt := range tests {
		if got := FormatClock12(tt.in); got != tt.want {
			t.Errorf("FormatClock12(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRange12(t *testing.T) {
	if got := FormatRange12("08:00:00", "09:20:00"); got != "8:00 AM - 9:20 AM" {
		t.Errorf("FormatRange12 = %q", got)
	}
}

func TestFormatMinutes12_Wraps(t *testing.T) {
	if got := FormatMinutes12(MinutesPerDay + 60); got != "1:00 AM" {
		t.Errorf("FormatMinutes12 = %q, want 1:00 AM", got)
	}
}
