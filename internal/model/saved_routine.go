package model

import "gorm.io/datatypes"

// SectionRef names one section of a routine, by id or by (course, section).
type SectionRef struct {
	SectionID   int64  `json:"section_id,omitempty"`
	CourseCode  string `json:"course_code,omitempty"`
	SectionName string `json:"section_name,omitempty"`
}

// SavedRoutine is a validated routine stored for sharing. Sections holds the
// []SectionRef; SelectedDays holds day numbers, Sunday = 0.
type SavedRoutine struct {
	RoutineID    string         `gorm:"type:uuid;primaryKey" json:"routine_id"`
	Title        string         `gorm:"type:varchar(120);not null;default:''" json:"title"`
	Sections     datatypes.JSON `gorm:"type:jsonb;not null"  json:"sections"`
	SelectedDays IntArray       `gorm:"type:integer[];not null" json:"selected_days"`
	SectionCount int            `gorm:"not null;default:0"   json:"section_count"`
	SoftDeleteModel
}

// TableName returns the table name.
func (SavedRoutine) TableName() string { return "saved_routines" }
