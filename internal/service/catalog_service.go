package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/repository"
	"routine-maker/backend/internal/routine"
	pkgerrors "routine-maker/backend/pkg/errors"
)

// ── Catalog errors ──

var (
	ErrCatalogNotLoaded = errors.New("section catalog not loaded yet")
	ErrCourseNotFound   = errors.New("course not found")
	ErrSectionNotFound  = errors.New("section not found")
)

const (
	originUpstream = "upstream"
	originSnapshot = "snapshot"

	snapshotRetention = 7 * 24 * time.Hour
)

// CatalogService serves the section catalog from an in-memory snapshot.
//
// The snapshot is replaced whole on Refresh; readers never see a partial
// catalog. Returned sections are copies and may be modified by the caller.
type CatalogService interface {
	// Refresh fetches the catalog upstream and, when storage is on, persists it.
	Refresh(ctx context.Context) (*dto.CatalogStatusResponse, error)
	// LoadLatest serves the most recent persisted snapshot.
	LoadLatest(ctx context.Context) (*dto.CatalogStatusResponse, error)
	Status() (*dto.CatalogStatusResponse, error)
	// Run refreshes every interval until ctx ends.
	Run(ctx context.Context, interval time.Duration)

	Sections() ([]model.Section, error)
	ListCourses(ctx context.Context) ([]dto.CourseBrief, error)
	CourseDetails(ctx context.Context, code string) ([]model.Section, error)
	SeatStatus(ctx context.Context, code string) ([]dto.SeatStatusItem, error)
	ListFaculty(ctx context.Context, courses []string) ([]string, error)
	ExamSchedule(ctx context.Context, req *dto.ExamScheduleRequest) (*dto.ExamScheduleResponse, error)
	Query(ctx context.Context, req *dto.SectionQueryRequest) ([]dto.CourseCandidates, error)
	// Resolve returns the referenced sections in reference order.
	Resolve(ctx context.Context, refs []model.SectionRef) ([]model.Section, error)
}

type catalogService struct {
	source  CatalogSource
	repo    *repository.Repository // nil when storage is off
	persist bool
	parser  *routine.TimeParser
	checker *routine.ConflictChecker
	logger  *zap.Logger

	mu    sync.RWMutex
	state *catalogState
}

// NewCatalogService creates a CatalogService. repo may be nil.
func NewCatalogService(source CatalogSource, repo *repository.Repository, persist bool, logger *zap.Logger) CatalogService {
	return &catalogService{
		source:  source,
		repo:    repo,
		persist: persist,
		parser:  routine.NewTimeParser(logger),
		checker: routine.NewConflictChecker(logger),
		logger:  logger,
	}
}

// ── snapshot state ──

type catalogState struct {
	sections  []model.Section
	byKey     map[model.SectionKey]int
	byID      map[int64]int
	byCourse  map[string][]int // upper-cased code → indexes in input order
	courses   []dto.CourseBrief
	source    string
	origin    string
	fetchedAt time.Time
}

func newCatalogState(sections []model.Section, source, origin string, fetchedAt time.Time) *catalogState {
	st := &catalogState{
		sections:  sections,
		byKey:     make(map[model.SectionKey]int, len(sections)),
		byID:      make(map[int64]int, len(sections)),
		byCourse:  make(map[string][]int),
		source:    source,
		origin:    origin,
		fetchedAt: fetchedAt,
	}
	for i := range sections {
		sec := &sections[i]
		if _, dup := st.byKey[sec.Key()]; !dup {
			st.byKey[sec.Key()] = i
		}
		if sec.SectionID != 0 {
			st.byID[sec.SectionID] = i
		}
		code := strings.ToUpper(sec.CourseCode)
		if _, seen := st.byCourse[code]; !seen {
			name := sec.CourseName
			if name == "" {
				name = sec.CourseCode
			}
			st.courses = append(st.courses, dto.CourseBrief{Code: sec.CourseCode, Name: name})
		}
		st.byCourse[code] = append(st.byCourse[code], i)
	}
	return st
}

func (st *catalogState) status() *dto.CatalogStatusResponse {
	return &dto.CatalogStatusResponse{
		Source:       st.source,
		Origin:       st.origin,
		SectionCount: len(st.sections),
		CourseCount:  len(st.courses),
		FetchedAt:    st.fetchedAt.Format(time.RFC3339),
	}
}

func (s *catalogService) current() (*catalogState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrCatalogNotLoaded
	}
	return s.state, nil
}

func (s *catalogService) swap(st *catalogState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// cloneSection copies the slices a caller may rewrite.
func cloneSection(sec *model.Section) model.Section {
	out := *sec
	out.SectionSchedule.ClassSchedules = append([]model.Meeting(nil), sec.SectionSchedule.ClassSchedules...)
	out.LabSchedules = append([]model.Meeting(nil), sec.LabSchedules...)
	return out
}

// ═══════════════════════════════════════════════════════════
// Refresh / LoadLatest / Run
// ═══════════════════════════════════════════════════════════

func (s *catalogService) Refresh(ctx context.Context) (*dto.CatalogStatusResponse, error) {
	sections, raw, err := s.source.FetchSections(ctx)
	if err != nil {
		s.logger.Error("catalog fetch failed", zap.String("source", s.source.Name()), zap.Error(err))
		return nil, err
	}

	fetchedAt := time.Now()
	st := newCatalogState(sections, s.source.Name(), originUpstream, fetchedAt)
	s.swap(st)

	s.logger.Info("catalog refreshed",
		zap.String("source", s.source.Name()),
		zap.Int("sections", len(sections)),
		zap.Int("courses", len(st.courses)),
	)

	if s.persist && s.repo != nil {
		s.saveSnapshot(ctx, raw, len(sections), fetchedAt)
	}
	return st.status(), nil
}

// saveSnapshot failures only cost the restart fallback, so they are logged.
func (s *catalogService) saveSnapshot(ctx context.Context, raw []byte, count int, fetchedAt time.Time) {
	snap := &model.CatalogSnapshot{
		SnapshotID:   uuid.New().String(),
		Source:       s.source.Name(),
		SectionCount: count,
		Payload:      datatypes.JSON(raw),
		FetchedAt:    fetchedAt,
	}
	if err := s.repo.CatalogSnapshot.Create(ctx, snap); err != nil {
		s.logger.Warn("catalog snapshot not saved", zap.Error(err))
		return
	}
	if n, err := s.repo.CatalogSnapshot.Prune(ctx, fetchedAt.Add(-snapshotRetention)); err != nil {
		s.logger.Warn("catalog snapshot prune failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("old catalog snapshots pruned", zap.Int64("count", n))
	}
}

func (s *catalogService) LoadLatest(ctx context.Context) (*dto.CatalogStatusResponse, error) {
	if s.repo == nil {
		return nil, pkgerrors.ErrStorageDisabled
	}
	snap, err := s.repo.CatalogSnapshot.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCatalogNotLoaded
		}
		s.logger.Error("load catalog snapshot failed", zap.Error(err))
		return nil, err
	}

	var sections []model.Section
	if err := json.Unmarshal(snap.Payload, &sections); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.SnapshotID, err)
	}

	st := newCatalogState(sections, snap.Source, originSnapshot, snap.FetchedAt)
	s.swap(st)

	s.logger.Info("catalog loaded from snapshot",
		zap.String("snapshot_id", snap.SnapshotID),
		zap.Time("fetched_at", snap.FetchedAt),
		zap.Int("sections", len(sections)),
	)
	return st.status(), nil
}

func (s *catalogService) Status() (*dto.CatalogStatusResponse, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return st.status(), nil
}

func (s *catalogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// errors are already logged; the previous snapshot stays in place
			_, _ = s.Refresh(ctx)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Read operations
// ═══════════════════════════════════════════════════════════

func (s *catalogService) Sections() ([]model.Section, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	out := make([]model.Section, len(st.sections))
	for i := range st.sections {
		out[i] = cloneSection(&st.sections[i])
	}
	return out, nil
}

func (s *catalogService) ListCourses(_ context.Context) ([]dto.CourseBrief, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	return append([]dto.CourseBrief(nil), st.courses...), nil
}

// CourseDetails lists the sections of a course that still have seats, with
// seat counts and 12-hour meeting times filled in.
func (s *catalogService) CourseDetails(_ context.Context, code string) ([]model.Section, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	idx, ok := st.byCourse[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrCourseNotFound
	}

	out := make([]model.Section, 0, len(idx))
	for _, i := range idx {
		sec := &st.sections[i]
		remaining := sec.SeatsRemaining()
		if remaining <= 0 {
			continue
		}
		c := cloneSection(sec)
		c.AvailableSeats = &remaining
		for j := range c.SectionSchedule.ClassSchedules {
			m := &c.SectionSchedule.ClassSchedules[j]
			m.FormattedTime = routine.FormatRange12(m.StartTime, m.EndTime)
		}
		for j := range c.LabSchedules {
			m := &c.LabSchedules[j]
			m.FormattedTime = routine.FormatRange12(m.StartTime, m.EndTime)
		}
		out = append(out, c)
	}
	sortSections(out)
	return out, nil
}

func (s *catalogService) SeatStatus(_ context.Context, code string) ([]dto.SeatStatusItem, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	idx, ok := st.byCourse[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrCourseNotFound
	}

	sections := make([]model.Section, 0, len(idx))
	for _, i := range idx {
		sections = append(sections, st.sections[i])
	}
	sortSections(sections)

	out := make([]dto.SeatStatusItem, 0, len(sections))
	for i := range sections {
		sec := &sections[i]
		remaining := sec.SeatsRemaining()
		out = append(out, dto.SeatStatusItem{
			SectionID:   sec.SectionID,
			SectionName: sec.SectionName.String(),
			Faculty:     sec.FacultyName(),
			Capacity:    sec.Capacity,
			Consumed:    sec.ConsumedSeat,
			Remaining:   max(remaining, 0),
			Full:        remaining <= 0,
		})
	}
	return out, nil
}

// ListFaculty returns the distinct faculty of the given courses, or of the
// whole catalog when courses is empty, sorted.
func (s *catalogService) ListFaculty(_ context.Context, courses []string) ([]string, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	add := func(sec *model.Section) {
		if f := strings.TrimSpace(sec.Faculties); f != "" {
			seen[f] = true
		}
	}
	if len(courses) == 0 {
		for i := range st.sections {
			add(&st.sections[i])
		}
	} else {
		for _, code := range courses {
			for _, i := range st.byCourse[strings.ToUpper(strings.TrimSpace(code))] {
				add(&st.sections[i])
			}
		}
	}

	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func (s *catalogService) ExamSchedule(_ context.Context, req *dto.ExamScheduleRequest) (*dto.ExamScheduleResponse, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}
	i, ok := st.byKey[model.SectionKey{CourseCode: req.CourseCode, SectionName: req.SectionName}]
	if !ok {
		return nil, ErrSectionNotFound
	}
	sec := &st.sections[i]
	rec := sec.ExamRecord()

	resp := &dto.ExamScheduleResponse{
		CourseCode:  rec.CourseCode,
		SectionName: rec.SectionName,
		Mid:         rec.Mid,
		Final:       rec.Final,
		MidDetail:   firstNonEmpty(sec.SectionSchedule.MidExamDetail, sec.MidExamDetail),
		FinalDetail: firstNonEmpty(sec.SectionSchedule.FinalExamDetail, sec.FinalExamDetail),
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// Query: candidate sections for the chosen courses
// ═══════════════════════════════════════════════════════════
//
// Per course, in request order:
//   1. course code matches case-insensitively
//   2. faculty: exact match, or case-insensitive when "TBA" is a choice
//   3. sections whose own meetings clash are dropped
//   4. days: every meeting must fall on a chosen day
//   5. times: a class meeting, and a lab meeting if there are labs, must
//      overlap a chosen time range

func (s *catalogService) Query(_ context.Context, req *dto.SectionQueryRequest) ([]dto.CourseCandidates, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}

	days, err := routine.ParseDaySet(req.Days)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	ranges := make([][2]int, 0, len(req.Times))
	for _, t := range req.Times {
		start, end, err := routine.ParseSlotValue(t)
		if err != nil {
			return nil, fmt.Errorf("%w: time %q: %v", pkgerrors.ErrInvalidArgument, t, err)
		}
		ranges = append(ranges, [2]int{start, end})
	}
	match := facultyMatcher(req.Faculty)

	out := make([]dto.CourseCandidates, 0, len(req.Courses))
	for _, code := range req.Courses {
		cand := dto.CourseCandidates{Course: code, Sections: []model.Section{}}
		for _, i := range st.byCourse[strings.ToUpper(strings.TrimSpace(code))] {
			sec := &st.sections[i]
			if !match(sec.Faculties) {
				continue
			}
			if s.checker.HasInternal(sec) {
				s.logger.Debug("section skipped: internal clash",
					zap.String("course", sec.CourseCode),
					zap.String("section", sec.SectionName.String()),
				)
				continue
			}
			if len(req.Days) > 0 && !onDays(sec, days) {
				continue
			}
			if len(ranges) > 0 && !s.withinTimes(sec, ranges) {
				continue
			}
			cand.Sections = append(cand.Sections, cloneSection(sec))
		}
		sortSections(cand.Sections)
		out = append(out, cand)
	}
	return out, nil
}

func facultyMatcher(choices []string) func(string) bool {
	if len(choices) == 0 {
		return func(string) bool { return true }
	}
	tba := false
	for _, f := range choices {
		if strings.EqualFold(strings.TrimSpace(f), "TBA") {
			tba = true
		}
	}
	return func(faculty string) bool {
		for _, f := range choices {
			if tba && strings.EqualFold(f, faculty) {
				return true
			}
			if !tba && f == faculty {
				return true
			}
		}
		return false
	}
}

func onDays(sec *model.Section, days routine.DaySet) bool {
	for _, list := range [][]model.Meeting{sec.SectionSchedule.ClassSchedules, sec.LabSchedules} {
		for _, m := range list {
			d, err := routine.ParseDay(m.Day)
			if err != nil || !days.Has(d) {
				return false
			}
		}
	}
	return true
}

func (s *catalogService) withinTimes(sec *model.Section, ranges [][2]int) bool {
	hits := func(meetings []model.Meeting) bool {
		for _, m := range meetings {
			start, end := s.parser.Span(m)
			for _, r := range ranges {
				if routine.Overlaps(start, end, r[0], r[1]) {
					return true
				}
			}
		}
		return false
	}
	if !hits(sec.SectionSchedule.ClassSchedules) {
		return false
	}
	return len(sec.LabSchedules) == 0 || hits(sec.LabSchedules)
}

// ═══════════════════════════════════════════════════════════
// Resolve
// ═══════════════════════════════════════════════════════════

func (s *catalogService) Resolve(_ context.Context, refs []model.SectionRef) ([]model.Section, error) {
	st, err := s.current()
	if err != nil {
		return nil, err
	}

	out := make([]model.Section, 0, len(refs))
	for _, ref := range refs {
		i, ok := -1, false
		if ref.SectionID != 0 {
			i, ok = st.byID[ref.SectionID]
		}
		if !ok && ref.CourseCode != "" {
			i, ok = st.byKey[model.SectionKey{CourseCode: ref.CourseCode, SectionName: ref.SectionName}]
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, refLabel(ref))
		}
		out = append(out, cloneSection(&st.sections[i]))
	}
	return out, nil
}

// ── helpers ──

func sortSections(sections []model.Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return model.CompareSectionNames(sections[i].SectionName.String(), sections[j].SectionName.String()) < 0
	})
}

func refLabel(ref model.SectionRef) string {
	if ref.CourseCode != "" {
		return model.SectionKey{CourseCode: ref.CourseCode, SectionName: ref.SectionName}.String()
	}
	return fmt.Sprintf("id %d", ref.SectionID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
