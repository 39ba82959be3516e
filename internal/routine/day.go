package routine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDay is returned when a day name is not one of the seven weekdays.
var ErrUnknownDay = errors.New("unknown day of week")

// Day is a day of the week. The university week starts on Sunday.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllDays is the full day axis of every grid, in week order.
var AllDays = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// String returns the canonical display name, e.g. "Sunday".
func (d Day) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Upper returns the upper-cased name used by the catalog, e.g. "SUNDAY".
func (d Day) Upper() string {
	return strings.ToUpper(d.String())
}

// ParseDay trims and case-folds text and accepts full names ("monday") and
// three-letter abbreviations ("Mon").
func ParseDay(text string) (Day, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrUnknownDay)
	}
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, text)
}

// CanonicalDayName capitalises the first letter and lower-cases the rest,
// after trimming. It does not check that the result is a real day.
func CanonicalDayName(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// DaySet is a set of days stored as a bitmask. The zero value is empty.
type DaySet uint8

// NewDaySet builds a set from the given days.
func NewDaySet(days ...Day) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// ParseDaySet parses raw day names. An unrecognised name is caller misuse and
// fails the whole set.
func ParseDaySet(names []string) (DaySet, error) {
	var s DaySet
	for _, n := range names {
		d, err := ParseDay(n)
		if err != nil {
			return 0, err
		}
		s = s.Add(d)
	}
	return s, nil
}

// Add returns the set with d included.
func (s DaySet) Add(d Day) DaySet {
	if d < Sunday || d > Saturday {
		return s
	}
	return s | 1<<uint(d)
}

// Has reports whether d is in the set.
func (s DaySet) Has(d Day) bool {
	if d < Sunday || d > Saturday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

// Len returns the number of days in the set.
func (s DaySet) Len() int {
	n := 0
	for _, d := range AllDays {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the members in week order.
func (s DaySet) Days() []Day {
	out := make([]Day, 0, 7)
	for _, d := range AllDays {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Names returns the canonical names of the members in week order.
func (s DaySet) Names() []string {
	days := s.Days()
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}
