package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"routine-maker/backend/internal/model"
	"routine-maker/backend/internal/repository"
)

// ── Mock CatalogSnapshotRepository ──

type mockCatalogSnapshotRepo struct {
	snaps     []*model.CatalogSnapshot
	createErr error
}

func newMockCatalogSnapshotRepo() *mockCatalogSnapshotRepo {
	return &mockCatalogSnapshotRepo{}
}

func (m *mockCatalogSnapshotRepo) Create(_ context.Context, snap *model.CatalogSnapshot) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.snaps = append(m.snaps, snap)
	return nil
}

func (m *mockCatalogSnapshotRepo) GetLatest(_ context.Context) (*model.CatalogSnapshot, error) {
	if len(m.snaps) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	latest := m.snaps[0]
	for _, s := range m.snaps[1:] {
		if s.FetchedAt.After(latest.FetchedAt) {
			latest = s
		}
	}
	return latest, nil
}

func (m *mockCatalogSnapshotRepo) Prune(_ context.Context, cutoff time.Time) (int64, error) {
	if len(m.snaps) <= 1 {
		return 0, nil
	}
	sort.Slice(m.snaps, func(i, j int) bool { return m.snaps[i].FetchedAt.Before(m.snaps[j].FetchedAt) })
	kept := m.snaps[:0]
	var n int64
	for i, s := range m.snaps {
		if i < len(m.snaps)-1 && s.FetchedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, s)
	}
	m.snaps = kept
	return n, nil
}

// ── Mock SavedRoutineRepository ──

type mockSavedRoutineRepo struct {
	routines map[string]*model.SavedRoutine
}

func newMockSavedRoutineRepo() *mockSavedRoutineRepo {
	return &mockSavedRoutineRepo{routines: make(map[string]*model.SavedRoutine)}
}

func (m *mockSavedRoutineRepo) Create(_ context.Context, r *model.SavedRoutine) error {
	r.CreatedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m.routines[r.RoutineID] = r
	return nil
}

func (m *mockSavedRoutineRepo) GetByID(_ context.Context, id string) (*model.SavedRoutine, error) {
	if r, ok := m.routines[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSavedRoutineRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.routines[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.routines, id)
	return nil
}

func newMockRepository() (*repository.Repository, *mockCatalogSnapshotRepo, *mockSavedRoutineRepo) {
	snaps := newMockCatalogSnapshotRepo()
	saved := newMockSavedRoutineRepo()
	return &repository.Repository{CatalogSnapshot: snaps, SavedRoutine: saved}, snaps, saved
}

// ── Mock CatalogSource ──

type mockCatalogSource struct {
	sections  []model.Section
	exams     []model.ExamRecord
	err       error
	examErr   error
	examCalls int
}

func (m *mockCatalogSource) FetchSections(_ context.Context) ([]model.Section, []byte, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	raw, _ := json.Marshal(m.sections)
	// decode a fresh copy the way an HTTP source would
	var out []model.Section
	_ = json.Unmarshal(raw, &out)
	return out, raw, nil
}

func (m *mockCatalogSource) FetchExamFeed(_ context.Context) ([]model.ExamRecord, error) {
	m.examCalls++
	if m.examErr != nil {
		return nil, m.examErr
	}
	if m.exams == nil {
		return nil, ErrExamFeedNotConfigured
	}
	return m.exams, nil
}

func (m *mockCatalogSource) Name() string { return "mock" }

// ── Mock Cache ──

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setTTLs []time.Duration
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mockCache) SetJSON(_ context.Context, key string, v interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.setTTLs = append(m.setTTLs, ttl)
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

var errMockUpstream = errors.New("mock upstream down")

// ── Fixtures ──

func strPtr(s string) *string { return &s }

func meet(day, start, end string) model.Meeting {
	return model.Meeting{Day: day, StartTime: start, EndTime: end}
}

// fixtureSections is a small catalog:
//
//	CSE110-01  Sun/Tue 08:00-09:20, lab Thu 14:00-16:50, 10 seats left
//	CSE110-02  Mon/Wed 09:30-10:50, full
//	CSE110-10  Sun/Tue 11:00-12:20, faculty TBA
//	MAT120-01  Sun/Tue 08:00-09:20, clashes with CSE110-01
//	MAT120-02  Mon/Wed 11:00-12:20
//	PHY111-01  class and lab both Sun 09:00, clashes internally
func fixtureSections() []model.Section {
	sec := func(id int64, code, name, fac string, cap, used int, classes, labs []model.Meeting) model.Section {
		return model.Section{
			SectionID:       id,
			CourseCode:      code,
			CourseName:      code + " Course",
			SectionName:     model.FlexString(name),
			Faculties:       fac,
			Capacity:        cap,
			ConsumedSeat:    used,
			RoomName:        "UB" + name,
			LabRoomName:     "LAB" + name,
			SectionSchedule: model.SectionSchedule{ClassSchedules: classes},
			LabSchedules:    labs,
		}
	}
	out := []model.Section{
		sec(1, "CSE110", "01", "ABC", 30, 20,
			[]model.Meeting{meet("SUNDAY", "08:00:00", "09:20:00"), meet("TUESDAY", "08:00:00", "09:20:00")},
			[]model.Meeting{meet("THURSDAY", "14:00:00", "16:50:00")}),
		sec(2, "CSE110", "02", "XYZ", 30, 30,
			[]model.Meeting{meet("MONDAY", "09:30:00", "10:50:00"), meet("WEDNESDAY", "09:30:00", "10:50:00")}, nil),
		sec(3, "CSE110", "10", "", 30, 5,
			[]model.Meeting{meet("SUNDAY", "11:00:00", "12:20:00"), meet("TUESDAY", "11:00:00", "12:20:00")}, nil),
		sec(4, "MAT120", "01", "DEF", 40, 10,
			[]model.Meeting{meet("SUNDAY", "08:00:00", "09:20:00"), meet("TUESDAY", "08:00:00", "09:20:00")}, nil),
		sec(5, "MAT120", "02", "abc", 40, 10,
			[]model.Meeting{meet("MONDAY", "11:00:00", "12:20:00"), meet("WEDNESDAY", "11:00:00", "12:20:00")}, nil),
		sec(6, "PHY111", "01", "GHI", 40, 10,
			[]model.Meeting{meet("SUNDAY", "09:00:00", "10:20:00")},
			[]model.Meeting{meet("SUNDAY", "09:30:00", "12:20:00")}),
	}
	// CSE110-01 and MAT120-02 share a final exam slot
	out[0].SectionSchedule.ExamFields = model.ExamFields{
		FinalExamDate: strPtr("2025-09-10"), FinalExamStartTime: strPtr("09:00:00"), FinalExamEndTime: strPtr("11:00:00"),
	}
	out[4].SectionSchedule.ExamFields = model.ExamFields{
		FinalExamDate: strPtr("2025-09-10"), FinalExamStartTime: strPtr("10:00:00"), FinalExamEndTime: strPtr("12:00:00"),
	}
	return out
}
