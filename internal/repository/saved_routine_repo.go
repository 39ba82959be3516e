package repository

import (
	"context"

	"gorm.io/gorm"

	"routine-maker/backend/internal/model"
)

// SavedRoutineRepository stores shared routines.
type SavedRoutineRepository interface {
	Create(ctx context.Context, r *model.SavedRoutine) error
	GetByID(ctx context.Context, id string) (*model.SavedRoutine, error)
	Delete(ctx context.Context, id string) error
}

type savedRoutineRepo struct {
	db *gorm.DB
}

// NewSavedRoutineRepo creates a SavedRoutineRepository.
func NewSavedRoutineRepo(db *gorm.DB) SavedRoutineRepository {
	return &savedRoutineRepo{db: db}
}

func (r *savedRoutineRepo) Create(ctx context.Context, routine *model.SavedRoutine) error {
	return r.db.WithContext(ctx).Create(routine).Error
}

func (r *savedRoutineRepo) GetByID(ctx context.Context, id string) (*model.SavedRoutine, error) {
	var routine model.SavedRoutine
	err := r.db.WithContext(ctx).
		Where("routine_id = ?", id).
		First(&routine).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *savedRoutineRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("routine_id = ?", id).
		Delete(&model.SavedRoutine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
