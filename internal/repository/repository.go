package repository

import "gorm.io/gorm"

// Repository groups every repository.
type Repository struct {
	CatalogSnapshot CatalogSnapshotRepository
	SavedRoutine    SavedRoutineRepository
}

// NewRepository builds the repositories over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CatalogSnapshot: NewCatalogSnapshotRepo(db),
		SavedRoutine:    NewSavedRoutineRepo(db),
	}
}
