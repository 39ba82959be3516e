package routine

import (
	"fmt"

	"go.uber.org/zap"

	"routine-maker/backend/internal/model"
)

// MinSelectedDays is the fewest available days a routine can be built on:
// a course meets at least twice a week.
const MinSelectedDays = 2

// ── Violations ──

// ViolationKind names a rule a routine broke.
type ViolationKind string

const (
	ViolationInsufficientDays   ViolationKind = "insufficient_days"
	ViolationMissingDayForClass ViolationKind = "missing_day_for_class"
	ViolationMissingDayForLab   ViolationKind = "missing_day_for_lab"
	ViolationExamConflict       ViolationKind = "exam_conflict"
)

// Violation is one broken rule. Violations are results, not errors.
type Violation interface {
	Kind() ViolationKind
	Message() string
}

// InsufficientDays is reported, alone, when fewer than MinSelectedDays days are
// selected.
type InsufficientDays struct {
	Selected int
	Required int
}

func (InsufficientDays) Kind() ViolationKind { return ViolationInsufficientDays }

func (v InsufficientDays) Message() string {
	return fmt.Sprintf("Please select at least %d days. Classes typically require %d days per week.", v.Required, v.Required)
}

// MissingDayForClass is a class meeting on a day the student is not available.
type MissingDayForClass struct {
	Section *model.Section
	Day     string
}

func (MissingDayForClass) Kind() ViolationKind { return ViolationMissingDayForClass }

func (v MissingDayForClass) Message() string {
	return fmt.Sprintf("%s section %s has a class on %s, which is not among the selected days.",
		v.Section.CourseCode, v.Section.SectionName, v.Day)
}

// MissingDayForLab is a lab meeting on a day the student is not available.
type MissingDayForLab struct {
	Section *model.Section
	Day     string
}

func (MissingDayForLab) Kind() ViolationKind { return ViolationMissingDayForLab }

func (v MissingDayForLab) Message() string {
	return fmt.Sprintf("%s section %s has a lab on %s, which is not among the selected days.",
		v.Section.CourseCode, v.Section.SectionName, v.Day)
}

// ExamConflict is two sections sitting exams at overlapping times on one date.
type ExamConflict struct {
	SectionA *model.Section
	SectionB *model.Section
	Date     string
	KindA    model.ExamKind
	KindB    model.ExamKind
	TimeA    string
	TimeB    string
}

func (ExamConflict) Kind() ViolationKind { return ViolationExamConflict }

func (v ExamConflict) Message() string {
	return fmt.Sprintf("%s (%s) and %s (%s) have exams on %s: %s %s, %s %s",
		v.SectionA.CourseCode, v.KindA, v.SectionB.CourseCode, v.KindB, v.Date,
		v.SectionA.CourseCode, v.TimeA, v.SectionB.CourseCode, v.TimeB)
}

// Verdict is the outcome of one validation. No violations means Valid.
type Verdict struct {
	Violations []Violation
}

// Valid reports whether the routine broke no rule.
func (v Verdict) Valid() bool { return len(v.Violations) == 0 }

// ── Exam feed ──

// ExamFeed indexes exam records by exact (course code, section name).
type ExamFeed struct {
	records map[model.SectionKey]model.ExamRecord
}

// NewExamFeed indexes records; a later duplicate key replaces an earlier one.
func NewExamFeed(records []model.ExamRecord) *ExamFeed {
	f := &ExamFeed{records: make(map[model.SectionKey]model.ExamRecord, len(records))}
	for _, r := range records {
		f.records[r.Key()] = r
	}
	return f
}

// Lookup returns the record of a section, if the feed has one.
func (f *ExamFeed) Lookup(key model.SectionKey) (model.ExamRecord, bool) {
	if f == nil {
		return model.ExamRecord{}, false
	}
	r, ok := f.records[key]
	return r, ok
}

// Len returns the number of indexed records.
func (f *ExamFeed) Len() int {
	if f == nil {
		return 0
	}
	return len(f.records)
}

// ── Validator ──

// Validator checks a chosen routine against the hard constraints.
type Validator struct {
	logger *zap.Logger
}

// NewValidator returns a validator logging fallbacks to logger.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Validate checks day coverage for every section and, when feed is non-nil,
// exam clashes between every pair of sections. All violations are collected;
// only InsufficientDays short-circuits.
func (v *Validator) Validate(sections []model.Section, selectedDays DaySet, feed *ExamFeed) Verdict {
	if n := selectedDays.Len(); n < MinSelectedDays {
		return Verdict{Violations: []Violation{InsufficientDays{Selected: n, Required: MinSelectedDays}}}
	}

	var out []Violation
	for i := range sections {
		sec := &sections[i]
		for _, m := range sec.SectionSchedule.ClassSchedules {
			if day, ok := v.uncovered(sec, m, selectedDays); ok {
				out = append(out, MissingDayForClass{Section: sec, Day: day})
			}
		}
		for _, m := range sec.LabSchedules {
			if day, ok := v.uncovered(sec, m, selectedDays); ok {
				out = append(out, MissingDayForLab{Section: sec, Day: day})
			}
		}
	}

	if feed != nil {
		out = append(out, v.examConflicts(sections, feed)...)
	}
	return Verdict{Violations: out}
}

// uncovered returns the display name of m's day when it is not selected. An
// unrecognised day can never be covered.
func (v *Validator) uncovered(sec *model.Section, m model.Meeting, selected DaySet) (string, bool) {
	day, err := ParseDay(m.Day)
	if err != nil {
		v.logger.Warn("meeting day not recognised",
			zap.String("course", sec.CourseCode),
			zap.String("section", sec.SectionName.String()),
			zap.String("day", m.Day),
		)
		return CanonicalDayName(m.Day), true
	}
	if selected.Has(day) {
		return "", false
	}
	return day.String(), true
}

func (v *Validator) examConflicts(sections []model.Section, feed *ExamFeed) []Violation {
	var out []Violation
	for i := 0; i < len(sections); i++ {
		a := &sections[i]
		recA, ok := feed.Lookup(a.Key())
		if !ok {
			continue
		}
		for j := i + 1; j < len(sections); j++ {
			b := &sections[j]
			if a.Key() == b.Key() {
				continue
			}
			recB, ok := feed.Lookup(b.Key())
			if !ok {
				continue
			}
			// mid/mid, mid/final, final/mid and final/final are independent:
			// a mid-term and a final can land on the same date.
			for _, ea := range recA.Sittings() {
				for _, eb := range recB.Sittings() {
					if v.clash(ea, eb) {
						out = append(out, ExamConflict{
							SectionA: a,
							SectionB: b,
							Date:     ea.Date,
							KindA:    ea.Kind,
							KindB:    eb.Kind,
							TimeA:    ea.TimeLabel(),
							TimeB:    eb.TimeLabel(),
						})
					}
				}
			}
		}
	}
	return out
}

func (v *Validator) clash(a, b model.ExamSitting) bool {
	if a.Date != b.Date {
		return false
	}
	sa, ea := v.examSpan(a)
	sb, eb := v.examSpan(b)
	return Overlaps(sa, ea, sb, eb)
}

// examSpan treats a sitting whose times cannot be read as taking the whole
// day, so that a same-date pair is still reported.
func (v *Validator) examSpan(e model.ExamSitting) (int, int) {
	start, errS := ParseClock(e.StartTime)
	end, errE := ParseClock(e.EndTime)
	if errS != nil || errE != nil || end <= start {
		v.logger.Warn("exam time unreadable, assuming whole day",
			zap.String("date", e.Date),
			zap.String("start", e.StartTime),
			zap.String("end", e.EndTime),
		)
		return 0, MinutesPerDay
	}
	return start, end
}
