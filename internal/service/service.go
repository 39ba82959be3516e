package service

import (
	"go.uber.org/zap"

	"routine-maker/backend/config"
	"routine-maker/backend/internal/repository"
	"routine-maker/backend/internal/routine"
)

// Service aggregates every service.
type Service struct {
	Catalog  CatalogService
	ExamFeed ExamFeedService
	Routine  RoutineService
	Export   ExportService
	Calendar CalendarService
}

// NewService wires the services. repo and cache may be nil when storage or
// Redis are off.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	source CatalogSource,
	cache Cache,
	logger *zap.Logger,
) (*Service, error) {
	slots, err := cfg.Routine.SlotCatalog()
	if err != nil {
		return nil, err
	}
	termStart, err := cfg.Routine.TermStartDate()
	if err != nil {
		return nil, err
	}
	builder := routine.NewBuilder(slots, logger)

	catalog := NewCatalogService(source, repo, cfg.Catalog.PersistSnapshot, logger)
	exams := NewExamFeedService(source, catalog, cache, cfg.Routine.ExamCacheTTL, logger)

	return &Service{
		Catalog:  catalog,
		ExamFeed: exams,
		Routine:  NewRoutineService(catalog, exams, repo, builder, cfg.Server.BaseURL, logger),
		Export:   NewExportService(catalog, builder, logger),
		Calendar: NewCalendarService(catalog, exams, termStart, cfg.Routine.TermWeeks, logger),
	}, nil
}
