package routine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// MinutesPerDay bounds every parsed time of day: [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

// ErrBadClock is returned by ParseClock for text that is not a time of day.
var ErrBadClock = errors.New("malformed time of day")

// ParseClock converts "h:mm AM/PM" or "HH:MM[:SS]" text into minutes since
// midnight. A seconds field is accepted and ignored.
func ParseClock(text string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(text))

	if strings.Contains(s, "AM") || strings.Contains(s, "PM") {
		return parse12(s, text)
	}
	if strings.Contains(s, ":") {
		h, m, err := parse24(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadClock, text)
		}
		return h*60 + m, nil
	}
	return 0, fmt.Errorf("%w: %q has no separator", ErrBadClock, text)
}

func parse12(s, raw string) (int, error) {
	var period string
	switch {
	case strings.HasSuffix(s, "AM"):
		period = "AM"
	case strings.HasSuffix(s, "PM"):
		period = "PM"
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}
	clock := strings.TrimSpace(strings.TrimSuffix(s, period))

	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || h < 1 || h > 12 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, raw)
	}

	if period == "AM" && h == 12 {
		h = 0
	}
	if period == "PM" && h != 12 {
		h += 12
	}
	return h*60 + m, nil
}

func parse24(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, ErrBadClock
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, 0, ErrBadClock
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, 0, ErrBadClock
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || sec < 0 || sec > 59 {
			return 0, 0, ErrBadClock
		}
	}
	return h, m, nil
}

// TimeParser is the lenient front of ParseClock used while rendering and
// validating: bad input becomes minute 0 and a warning, never an error.
type TimeParser struct {
	logger *zap.Logger
}

// NewTimeParser returns a parser that reports fallbacks to logger.
func NewTimeParser(logger *zap.Logger) *TimeParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeParser{logger: logger}
}

// Minutes returns minutes since midnight, or 0 when text cannot be parsed.
func (p *TimeParser) Minutes(text string) int {
	m, err := ParseClock(text)
	if err != nil {
		p.logger.Warn("time of day fell back to 00:00",
			zap.String("input", text),
			zap.Error(err),
		)
		return 0
	}
	return m
}

// FormatClock12 renders a 24-hour "HH:MM[:SS]" string as "h:mm AM/PM".
// Input that is not a 24-hour time is returned unchanged.
func FormatClock12(text string) string {
	h, m, err := parse24(strings.TrimSpace(text))
	if err != nil {
		return text
	}
	return FormatMinutes12(h*60 + m)
}

// FormatMinutes12 renders minutes since midnight as "h:mm AM/PM".
func FormatMinutes12(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	h, m := minutes/60, minutes%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, period)
}

// FormatRange12 renders "8:00 AM - 9:20 AM" from two 24-hour strings.
func FormatRange12(start, end string) string {
	return FormatClock12(start) + " - " + FormatClock12(end)
}
