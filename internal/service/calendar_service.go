package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/routine"
)

// ── iCalendar export ────────────────────────────────────────
//
// Every class and lab meeting becomes one weekly event: DTSTART is the first
// occurrence of its weekday on or after the term start, RRULE repeats it for
// the configured number of weeks. Every exam sitting known for a section
// becomes a single event.
// ─────────────────────────────────────────────────────────────

const icsProductID = "-//Routine Maker//Routine Export//EN"

// exam dates arrive in more than one shape depending on the feed
var examDateLayouts = []string{"2006-01-02", "02-01-2006", "2 Jan 2006", "Jan 2, 2006", "January 2, 2006"}

// CalendarService renders a routine as an iCalendar file.
type CalendarService interface {
	// ExportICS returns the calendar and a suggested file name.
	ExportICS(ctx context.Context, req *dto.RoutineRequest) ([]byte, string, error)
}

type calendarService struct {
	catalog   CatalogService
	exams     ExamFeedService
	termStart time.Time
	termWeeks int
	parser    *routine.TimeParser
	logger    *zap.Logger
}

// NewCalendarService creates a CalendarService. termStart carries the
// timezone events are placed in.
func NewCalendarService(catalog CatalogService, exams ExamFeedService, termStart time.Time, termWeeks int, logger *zap.Logger) CalendarService {
	if termWeeks <= 0 {
		termWeeks = 14
	}
	return &calendarService{
		catalog:   catalog,
		exams:     exams,
		termStart: termStart,
		termWeeks: termWeeks,
		parser:    routine.NewTimeParser(logger),
		logger:    logger,
	}
}

func (s *calendarService) ExportICS(ctx context.Context, req *dto.RoutineRequest) ([]byte, string, error) {
	sections, err := s.catalog.Resolve(ctx, req.Sections)
	if err != nil {
		return nil, "", err
	}

	feed, err := s.exams.Feed(ctx)
	if err != nil {
		s.logger.Warn("exam data unavailable, calendar has classes only", zap.Error(err))
		feed = nil
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	stamp := time.Now().UTC()
	weekly, exams := 0, 0
	for i := range sections {
		sec := &sections[i]
		weekly += s.addMeetings(cal, sec, routine.KindClass, sec.SectionSchedule.ClassSchedules, stamp)
		weekly += s.addMeetings(cal, sec, routine.KindLab, sec.LabSchedules, stamp)

		rec, ok := feed.Lookup(sec.Key())
		if !ok {
			continue
		}
		for _, sitting := range rec.Sittings() {
			if s.addExam(cal, sec, sitting, stamp) {
				exams++
			}
		}
	}

	s.logger.Debug("routine calendar exported",
		zap.Int("sections", len(sections)),
		zap.Int("weekly_events", weekly),
		zap.Int("exam_events", exams),
	)
	return []byte(cal.Serialize()), "routine.ics", nil
}

func (s *calendarService) addMeetings(cal *ics.Calendar, sec *model.Section, kind routine.MeetingKind, meetings []model.Meeting, stamp time.Time) int {
	added := 0
	for i, m := range meetings {
		day, err := routine.ParseDay(m.Day)
		if err != nil {
			s.logger.Warn("meeting left out of calendar: unrecognised day",
				zap.String("course", sec.CourseCode),
				zap.String("day", m.Day),
			)
			continue
		}
		startMin, endMin := s.parser.Span(m)
		first := firstOnOrAfter(s.termStart, time.Weekday(day))

		room := m.Room
		if room == "" {
			room = cellRoom(routine.Cell{Kind: kind, Section: sec})
		}

		evt := cal.AddEvent(fmt.Sprintf("%s-%s-%d@routine-maker", sec.Key(), kind, i))
		evt.SetDtStampTime(stamp)
		evt.SetStartAt(first.Add(time.Duration(startMin) * time.Minute))
		evt.SetEndAt(first.Add(time.Duration(endMin) * time.Minute))
		evt.SetSummary(fmt.Sprintf("%s %s (%s)", sec.CourseCode, kindTitle(kind), sec.SectionName))
		evt.SetDescription("Faculty: " + sec.FacultyName())
		if room != "" {
			evt.SetLocation(room)
		}
		evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", s.termWeeks))
		added++
	}
	return added
}

func (s *calendarService) addExam(cal *ics.Calendar, sec *model.Section, e model.ExamSitting, stamp time.Time) bool {
	date, err := parseExamDate(e.Date, s.termStart.Location())
	if err != nil {
		s.logger.Warn("exam left out of calendar: unreadable date",
			zap.String("course", sec.CourseCode),
			zap.String("date", e.Date),
		)
		return false
	}
	start, errS := routine.ParseClock(e.StartTime)
	end, errE := routine.ParseClock(e.EndTime)
	if errS != nil || errE != nil || end <= start {
		// an all-day event still blocks the date in the student's calendar
		start, end = 0, routine.MinutesPerDay
	}

	evt := cal.AddEvent(fmt.Sprintf("%s-exam-%s@routine-maker", sec.Key(), strings.ToLower(string(e.Kind))))
	evt.SetDtStampTime(stamp)
	evt.SetStartAt(date.Add(time.Duration(start) * time.Minute))
	evt.SetEndAt(date.Add(time.Duration(end) * time.Minute))
	evt.SetSummary(fmt.Sprintf("%s %s Exam (%s)", sec.CourseCode, e.Kind, sec.SectionName))
	if e.Room != "" {
		evt.SetLocation(e.Room)
	}
	return true
}

// ── helpers ──

func kindTitle(kind routine.MeetingKind) string {
	if kind == routine.KindLab {
		return "Lab"
	}
	return "Class"
}

// firstOnOrAfter returns midnight of the first wd on or after t.
func firstOnOrAfter(t time.Time, wd time.Weekday) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(wd) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

func parseExamDate(value string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range examDateLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised exam date %q", value)
}
