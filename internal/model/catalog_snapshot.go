package model

import (
	"time"

	"gorm.io/datatypes"
)

// CatalogSnapshot is a fetched copy of the upstream section catalog, kept so
// a restart without network can still serve sections.
type CatalogSnapshot struct {
	SnapshotID   string         `gorm:"type:uuid;primaryKey"  json:"snapshot_id"`
	Source       string         `gorm:"not null"              json:"source"`
	SectionCount int            `gorm:"not null;default:0"    json:"section_count"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"   json:"-"`
	FetchedAt    time.Time      `gorm:"not null"              json:"fetched_at"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName returns the table name.
func (CatalogSnapshot) TableName() string { return "catalog_snapshots" }
