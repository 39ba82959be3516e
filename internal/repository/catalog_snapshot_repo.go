package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"routine-maker/backend/internal/model"
)

// CatalogSnapshotRepository stores fetched copies of the section catalog.
type CatalogSnapshotRepository interface {
	Create(ctx context.Context, snap *model.CatalogSnapshot) error
	// GetLatest returns gorm.ErrRecordNotFound when nothing was stored yet.
	GetLatest(ctx context.Context) (*model.CatalogSnapshot, error)
	// Prune deletes snapshots fetched before cutoff, always keeping the latest.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

type catalogSnapshotRepo struct {
	db *gorm.DB
}

// NewCatalogSnapshotRepo creates a CatalogSnapshotRepository.
func NewCatalogSnapshotRepo(db *gorm.DB) CatalogSnapshotRepository {
	return &catalogSnapshotRepo{db: db}
}

func (r *catalogSnapshotRepo) Create(ctx context.Context, snap *model.CatalogSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

func (r *catalogSnapshotRepo) GetLatest(ctx context.Context) (*model.CatalogSnapshot, error) {
	var snap model.CatalogSnapshot
	err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		First(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *catalogSnapshotRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	latest := r.db.Model(&model.CatalogSnapshot{}).
		Select("snapshot_id").
		Order("fetched_at DESC").
		Limit(1)

	result := r.db.WithContext(ctx).
		Where("fetched_at < ? AND snapshot_id NOT IN (?)", cutoff, latest).
		Delete(&model.CatalogSnapshot{})
	return result.RowsAffected, result.Error
}
