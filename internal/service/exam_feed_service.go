package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/routine"
)

const examFeedCacheKey = "exam_feed:v1"

// Cache is the JSON cache the services use; *redis.Client satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ExamFeedService provides the exam records routines are validated against.
type ExamFeedService interface {
	// Feed returns the exam index. The third-party feed is preferred; without
	// it the catalog's own exam columns are used. A nil feed means no exam
	// data is available at all.
	Feed(ctx context.Context) (*routine.ExamFeed, error)
	// Invalidate drops the cached third-party feed.
	Invalidate(ctx context.Context) error
}

type examFeedService struct {
	source  CatalogSource
	catalog CatalogService
	cache   Cache // nil when Redis is off
	ttl     time.Duration
	logger  *zap.Logger
}

// NewExamFeedService creates an ExamFeedService. cache may be nil.
func NewExamFeedService(source CatalogSource, catalog CatalogService, cache Cache, ttl time.Duration, logger *zap.Logger) ExamFeedService {
	return &examFeedService{
		source:  source,
		catalog: catalog,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

func (s *examFeedService) Feed(ctx context.Context) (*routine.ExamFeed, error) {
	if records, ok := s.cached(ctx); ok {
		return routine.NewExamFeed(records), nil
	}

	records, err := s.source.FetchExamFeed(ctx)
	switch {
	case err == nil:
		s.store(ctx, records)
		return routine.NewExamFeed(records), nil
	case errors.Is(err, ErrExamFeedNotConfigured):
		// expected: the catalog carries the exam columns itself
	default:
		s.logger.Warn("exam feed unavailable, using catalog exam data", zap.Error(err))
	}

	sections, err := s.catalog.Sections()
	if err != nil {
		if errors.Is(err, ErrCatalogNotLoaded) {
			return nil, nil
		}
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return routine.NewExamFeed(model.ExamRecordsFromSections(sections)), nil
}

func (s *examFeedService) cached(ctx context.Context) ([]model.ExamRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	var records []model.ExamRecord
	hit, err := s.cache.GetJSON(ctx, examFeedCacheKey, &records)
	if err != nil {
		s.logger.Warn("exam feed cache read failed", zap.Error(err))
		return nil, false
	}
	return records, hit
}

func (s *examFeedService) store(ctx context.Context, records []model.ExamRecord) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.SetJSON(ctx, examFeedCacheKey, records, s.ttl); err != nil {
		s.logger.Warn("exam feed cache write failed", zap.Error(err))
	}
}

func (s *examFeedService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, examFeedCacheKey)
}
