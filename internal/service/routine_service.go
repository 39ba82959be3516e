package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

// ── Routine errors ──

var (
	ErrRoutineInvalid  = errors.New("routine breaks scheduling rules")
	ErrRoutineNotFound = errors.New("routine not found")
)

// RoutineInvalidError carries the verdict of a routine that cannot be saved.
// It matches ErrRoutineInvalid with errors.Is.
type RoutineInvalidError struct {
	Verdict *dto.VerdictResponse
}

func (e *RoutineInvalidError) Error() string {
	return fmt.Sprintf("%s: %d violation(s)", ErrRoutineInvalid, len(e.Verdict.Violations))
}

func (e *RoutineInvalidError) Is(target error) bool { return target == ErrRoutineInvalid }

// RoutineService renders, validates and stores routines built from catalog
// sections.
type RoutineService interface {
	RenderGrid(ctx context.Context, req *dto.RoutineRequest) (*dto.GridResponse, error)
	Validate(ctx context.Context, req *dto.RoutineRequest) (*dto.VerdictResponse, error)
	TimeConflicts(ctx context.Context, req *dto.RoutineRequest) (*dto.TimeConflictResponse, error)
	// Save stores a valid routine; an invalid one fails with *RoutineInvalidError.
	Save(ctx context.Context, req *dto.SaveRoutineRequest) (*dto.SavedRoutineResponse, error)
	Get(ctx context.Context, id string) (*dto.SavedRoutineResponse, error)
}

type routineService struct {
	catalog   CatalogService
	exams     ExamFeedService
	repo      *repository.Repository // nil when storage is off
	builder   *routine.Builder
	validator *routine.Validator
	checker   *routine.ConflictChecker
	baseURL   string
	logger    *zap.Logger
}

// NewRoutineService creates a RoutineService. repo may be nil.
func NewRoutineService(
	catalog CatalogService,
	exams ExamFeedService,
	repo *repository.Repository,
	builder *routine.Builder,
	baseURL string,
	logger *zap.Logger,
) RoutineService {
	return &routineService{
		catalog:   catalog,
		exams:     exams,
		repo:      repo,
		builder:   builder,
		validator: routine.NewValidator(logger),
		checker:   routine.NewConflictChecker(logger),
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

// resolveRoutine looks up the sections of a request and parses its days.
// With allWhenEmpty an empty day list means the whole week.
func resolveRoutine(ctx context.Context, catalog CatalogService, req *dto.RoutineRequest, allWhenEmpty bool) ([]model.Section, routine.DaySet, error) {
	days, err := routine.ParseDaySet(req.Days)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidArgument, err)
	}
	if allWhenEmpty && len(req.Days) == 0 {
		days = routine.NewDaySet(routine.AllDays[:]...)
	}
	sections, err := catalog.Resolve(ctx, req.Sections)
	if err != nil {
		return nil, 0, err
	}
	return sections, days, nil
}

// ═══════════════════════════════════════════════════════════
// RenderGrid
// ═══════════════════════════════════════════════════════════

func (s *routineService) RenderGrid(ctx context.Context, req *dto.RoutineRequest) (*dto.GridResponse, error) {
	sections, days, err := resolveRoutine(ctx, s.catalog, req, true)
	if err != nil {
		return nil, err
	}
	return toGridResponse(s.builder.BuildGrid(sections, days), days), nil
}

// ═══════════════════════════════════════════════════════════
// Validate
// ═══════════════════════════════════════════════════════════

func (s *routineService) Validate(ctx context.Context, req *dto.RoutineRequest) (*dto.VerdictResponse, error) {
	sections, days, err := resolveRoutine(ctx, s.catalog, req, false)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, sections, days)
}

func (s *routineService) validate(ctx context.Context, sections []model.Section, days routine.DaySet) (*dto.VerdictResponse, error) {
	feed, err := s.exams.Feed(ctx)
	if err != nil {
		// day coverage is still worth reporting without exam data
		s.logger.Warn("exam data unavailable, skipping exam checks", zap.Error(err))
		feed = nil
	}
	verdict := s.validator.Validate(sections, days, feed)
	return toVerdictResponse(verdict, feed != nil), nil
}

// ═══════════════════════════════════════════════════════════
// TimeConflicts
// ═══════════════════════════════════════════════════════════

func (s *routineService) TimeConflicts(ctx context.Context, req *dto.RoutineRequest) (*dto.TimeConflictResponse, error) {
	sections, err := s.catalog.Resolve(ctx, req.Sections)
	if err != nil {
		return nil, err
	}

	resp := &dto.TimeConflictResponse{
		Between:  toClashResponses(s.checker.Between(sections)),
		Internal: []dto.ClashResponse{},
	}
	for i := range sections {
		resp.Internal = append(resp.Internal, toClashResponses(s.checker.Internal(&sections[i]))...)
	}
	resp.HasConflicts = len(resp.Between) > 0 || len(resp.Internal) > 0
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// Save / Get
// ═══════════════════════════════════════════════════════════

func (s *routineService) Save(ctx context.Context, req *dto.SaveRoutineRequest) (*dto.SavedRoutineResponse, error) {
	if s.repo == nil {
		return nil, pkgerrors.ErrStorageDisabled
	}

	sections, days, err := resolveRoutine(ctx, s.catalog, &req.RoutineRequest, false)
	if err != nil {
		return nil, err
	}
	verdict, err := s.validate(ctx, sections, days)
	if err != nil {
		return nil, err
	}
	if !verdict.Valid {
		return nil, &RoutineInvalidError{Verdict: verdict}
	}

	refs := make([]model.SectionRef, 0, len(sections))
	for i := range sections {
		refs = append(refs, model.SectionRef{
			SectionID:   sections[i].SectionID,
			CourseCode:  sections[i].CourseCode,
			SectionName: sections[i].SectionName.String(),
		})
	}
	payload, err := json.Marshal(refs)
	if err != nil {
		return nil, err
	}
	dayNums := make(model.IntArray, 0, days.Len())
	for _, d := range days.Days() {
		dayNums = append(dayNums, int(d))
	}

	saved := &model.SavedRoutine{
		RoutineID:    uuid.New().String(),
		Title:        strings.TrimSpace(req.Title),
		Sections:     datatypes.JSON(payload),
		SelectedDays: dayNums,
		SectionCount: len(refs),
	}
	if err := s.repo.SavedRoutine.Create(ctx, saved); err != nil {
		s.logger.Error("save routine failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("routine saved",
		zap.String("routine_id", saved.RoutineID),
		zap.Int("sections", saved.SectionCount),
	)

	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now()
	}
	return s.toSavedResponse(saved, refs, days, toGridResponse(s.builder.BuildGrid(sections, days), days)), nil
}

func (s *routineService) Get(ctx context.Context, id string) (*dto.SavedRoutineResponse, error) {
	if s.repo == nil {
		return nil, pkgerrors.ErrStorageDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrRoutineNotFound
	}

	saved, err := s.repo.SavedRoutine.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	var refs []model.SectionRef
	if err := json.Unmarshal(saved.Sections, &refs); err != nil {
		return nil, fmt.Errorf("decode routine %s: %w", id, err)
	}
	var days routine.DaySet
	for _, n := range saved.SelectedDays {
		if n >= int(routine.Sunday) && n <= int(routine.Saturday) {
			days = days.Add(routine.Day(n))
		}
	}

	// the catalog may have moved on since the routine was saved
	var grid *dto.GridResponse
	if sections, err := s.catalog.Resolve(ctx, refs); err == nil {
		grid = toGridResponse(s.builder.BuildGrid(sections, days), days)
	} else {
		s.logger.Warn("saved routine no longer resolves",
			zap.String("routine_id", id),
			zap.Error(err),
		)
	}
	return s.toSavedResponse(saved, refs, days, grid), nil
}

func (s *routineService) toSavedResponse(saved *model.SavedRoutine, refs []model.SectionRef, days routine.DaySet, grid *dto.GridResponse) *dto.SavedRoutineResponse {
	return &dto.SavedRoutineResponse{
		ID:        saved.RoutineID,
		Title:     saved.Title,
		ShareURL:  s.baseURL + "/api/v1/routines/" + saved.RoutineID,
		Sections:  refs,
		Days:      days.Names(),
		Grid:      grid,
		CreatedAt: saved.CreatedAt.Format(time.RFC3339),
	}
}

// ── conversions ──

func sectionBrief(sec *model.Section) *dto.SectionBrief {
	return &dto.SectionBrief{
		SectionID:   sec.SectionID,
		CourseCode:  sec.CourseCode,
		SectionName: sec.SectionName.String(),
		Faculty:     sec.FacultyName(),
	}
}

// cellRoom is the room a grid entry meets in.
func cellRoom(c routine.Cell) string {
	if c.Kind == routine.KindLab {
		return c.Section.LabRoomName
	}
	return firstNonEmpty(c.Section.RoomName, c.Section.SectionSchedule.RoomName)
}

func toGridResponse(g *routine.Grid, active routine.DaySet) *dto.GridResponse {
	resp := &dto.GridResponse{
		Days:       make([]string, 0, len(routine.AllDays)),
		ActiveDays: active.Names(),
		Placements: g.Placements(),
	}
	for _, d := range routine.AllDays {
		resp.Days = append(resp.Days, d.String())
	}

	for _, row := range g.Rows() {
		gr := dto.GridRow{
			Value: row.Slot.Value,
			Label: row.Slot.Label,
			Cells: make(map[string][]dto.GridCell, len(routine.AllDays)),
		}
		for _, d := range routine.AllDays {
			cells := make([]dto.GridCell, 0, len(row.Cells[d]))
			for _, c := range row.Cells[d] {
				cells = append(cells, dto.GridCell{
					Kind:        string(c.Kind),
					CourseCode:  c.Section.CourseCode,
					SectionName: c.Section.SectionName.String(),
					Faculty:     c.Section.FacultyName(),
					Room:        cellRoom(c),
					TimeLabel:   c.TimeLabel,
					Day:         c.Day,
				})
			}
			gr.Cells[d.String()] = cells
		}
		resp.Rows = append(resp.Rows, gr)
	}
	return resp
}

func toVerdictResponse(v routine.Verdict, examsChecked bool) *dto.VerdictResponse {
	resp := &dto.VerdictResponse{
		Valid:        v.Valid(),
		Violations:   make([]dto.ViolationResponse, 0, len(v.Violations)),
		ExamsChecked: examsChecked,
	}
	for _, vi := range v.Violations {
		item := dto.ViolationResponse{Kind: string(vi.Kind()), Message: vi.Message()}
		switch x := vi.(type) {
		case routine.InsufficientDays:
			item.Selected = x.Selected
			item.Required = x.Required
		case routine.MissingDayForClass:
			item.Section = sectionBrief(x.Section)
			item.Day = x.Day
		case routine.MissingDayForLab:
			item.Section = sectionBrief(x.Section)
			item.Day = x.Day
		case routine.ExamConflict:
			item.Section = sectionBrief(x.SectionA)
			item.Other = sectionBrief(x.SectionB)
			item.Date = x.Date
			item.ExamA = string(x.KindA)
			item.ExamB = string(x.KindB)
			item.TimeA = x.TimeA
			item.TimeB = x.TimeB
		}
		resp.Violations = append(resp.Violations, item)
	}
	return resp
}

func toClashResponses(clashes []routine.TimeClash) []dto.ClashResponse {
	out := make([]dto.ClashResponse, 0, len(clashes))
	for _, c := range clashes {
		out = append(out, dto.ClashResponse{
			Type:    string(c.KindA) + "-" + string(c.KindB),
			Message: c.Message(),
			A:       *sectionBrief(c.SectionA),
			B:       *sectionBrief(c.SectionB),
			Day:     c.Day.String(),
			TimeA:   c.TimeA,
			TimeB:   c.TimeB,
		})
	}
	return out
}
