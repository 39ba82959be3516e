package routine

import (
	"fmt"

	"go.uber.org/zap"

	"routine-maker/backend/internal/model"
)

// TimeClash is two meeting entries that occupy the same minutes of one day.
// For an internal clash A and B are the same section.
type TimeClash struct {
	SectionA *model.Section
	SectionB *model.Section
	KindA    MeetingKind
	KindB    MeetingKind
	Day      Day
	TimeA    string
	TimeB    string
}

// Message describes the clash for display.
func (c TimeClash) Message() string {
	if c.SectionA == c.SectionB {
		return fmt.Sprintf("%s section %s: %s (%s) overlaps its %s (%s) on %s",
			c.SectionA.CourseCode, c.SectionA.SectionName, c.KindA, c.TimeA, c.KindB, c.TimeB, c.Day)
	}
	return fmt.Sprintf("%s %s (%s) overlaps %s %s (%s) on %s",
		c.SectionA.CourseCode, c.KindA, c.TimeA, c.SectionB.CourseCode, c.KindB, c.TimeB, c.Day)
}

// ConflictChecker finds overlapping weekly meetings.
type ConflictChecker struct {
	parser *TimeParser
	logger *zap.Logger
}

// NewConflictChecker returns a checker logging fallbacks to logger.
func NewConflictChecker(logger *zap.Logger) *ConflictChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictChecker{parser: NewTimeParser(logger), logger: logger}
}

type entry struct {
	kind  MeetingKind
	day   Day
	start int
	end   int
	label string
}

func (c *ConflictChecker) entries(sec *model.Section) []entry {
	out := make([]entry, 0, len(sec.SectionSchedule.ClassSchedules)+len(sec.LabSchedules))
	add := func(kind MeetingKind, meetings []model.Meeting) {
		for _, m := range meetings {
			day, err := ParseDay(m.Day)
			if err != nil {
				c.logger.Warn("meeting ignored for conflicts: unrecognised day",
					zap.String("course", sec.CourseCode),
					zap.String("day", m.Day),
				)
				continue
			}
			start, end := c.parser.Span(m)
			out = append(out, entry{kind: kind, day: day, start: start, end: end, label: meetingLabel(m)})
		}
	}
	add(KindClass, sec.SectionSchedule.ClassSchedules)
	add(KindLab, sec.LabSchedules)
	return out
}

// Internal returns the clashes among a section's own class and lab meetings.
func (c *ConflictChecker) Internal(sec *model.Section) []TimeClash {
	var out []TimeClash
	es := c.entries(sec)
	for i := 0; i < len(es); i++ {
		for j := i + 1; j < len(es); j++ {
			if es[i].day == es[j].day && Overlaps(es[i].start, es[i].end, es[j].start, es[j].end) {
				out = append(out, clashOf(sec, sec, es[i], es[j]))
			}
		}
	}
	return out
}

// HasInternal reports whether a section cannot be taken on its own.
func (c *ConflictChecker) HasInternal(sec *model.Section) bool {
	return len(c.Internal(sec)) > 0
}

// Between returns every clash between meetings of distinct sections, in
// input order. Class/class, lab/lab and class/lab pairs are all checked.
func (c *ConflictChecker) Between(sections []model.Section) []TimeClash {
	all := make([][]entry, len(sections))
	for i := range sections {
		all[i] = c.entries(&sections[i])
	}

	var out []TimeClash
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			for _, a := range all[i] {
				for _, b := range all[j] {
					if a.day == b.day && Overlaps(a.start, a.end, b.start, b.end) {
						out = append(out, clashOf(&sections[i], &sections[j], a, b))
					}
				}
			}
		}
	}
	return out
}

func clashOf(a, b *model.Section, ea, eb entry) TimeClash {
	return TimeClash{
		SectionA: a,
		SectionB: b,
		KindA:    ea.kind,
		KindB:    eb.kind,
		Day:      ea.day,
		TimeA:    ea.label,
		TimeB:    eb.label,
	}
}
