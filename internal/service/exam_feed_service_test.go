package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"routine-maker/backend/internal/model"
)

func TestExamFeedService_FallsBackToCatalog(t *testing.T) {
	catalog, source, _ := setupTestCatalogService(t)
	svc := NewExamFeedService(source, catalog, nil, time.Minute, zap.NewNop())

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	rec, ok := feed.Lookup(model.SectionKey{CourseCode: "CSE110", SectionName: "01"})
	if !ok || rec.Final == nil || rec.Final.StartTime != "09:00:00" {
		t.Errorf("expected the catalog's own final exam, got %+v %v", rec, ok)
	}
}

func TestExamFeedService_FetchErrorFallsBack(t *testing.T) {
	catalog, source, _ := setupTestCatalogService(t)
	source.examErr = errMockUpstream
	svc := NewExamFeedService(source, catalog, nil, time.Minute, zap.NewNop())

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed.Len() != 6 {
		t.Errorf("expected one record per catalog section, got %d", feed.Len())
	}
}

func TestExamFeedService_NoDataAtAll(t *testing.T) {
	catalog := NewCatalogService(&mockCatalogSource{}, nil, false, zap.NewNop())
	svc := NewExamFeedService(&mockCatalogSource{}, catalog, nil, time.Minute, zap.NewNop())

	feed, err := svc.Feed(context.Background())
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if feed != nil {
		t.Errorf("expected a nil feed, got %d records", feed.Len())
	}
}

func TestExamFeedService_CachesThirdPartyFeed(t *testing.T) {
	catalog, source, _ := setupTestCatalogService(t)
	source.exams = []model.ExamRecord{{
		CourseCode:  "CSE110",
		SectionName: "01",
		Mid:         &model.ExamSitting{Kind: model.ExamMid, Date: "2025-07-20", StartTime: "10:00", EndTime: "11:30"},
	}}
	cache := newMockCache()
	svc := NewExamFeedService(source, catalog, cache, 10*time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		feed, err := svc.Feed(context.Background())
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		if feed.Len() != 1 {
			t.Fatalf("expected the feed's single record, got %d", feed.Len())
		}
	}
	if source.examCalls != 1 {
		t.Errorf("feed fetched %d times, want 1", source.examCalls)
	}
	if len(cache.setTTLs) != 1 || cache.setTTLs[0] != 10*time.Minute {
		t.Errorf("unexpected cache writes: %v", cache.setTTLs)
	}

	if err := svc.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := svc.Feed(context.Background()); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if source.examCalls != 2 {
		t.Errorf("expected a refetch after Invalidate, got %d calls", source.examCalls)
	}
}

func TestExamFeedService_CacheErrorIgnored(t *testing.T) {
	catalog, source, _ := setupTestCatalogService(t)
	source.exams = []model.ExamRecord{{CourseCode: "CSE110", SectionName: "01"}}
	cache := newMockCache()
	cache.getErr = errors.New("connection refused")
	svc := NewExamFeedService(source, catalog, cache, time.Minute, zap.NewNop())

	feed, err := svc.Feed(context.Background())
	if err != nil || feed.Len() != 1 {
		t.Errorf("a cache failure should fall through to the feed, got %v", err)
	}
}
