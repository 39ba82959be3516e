package dto

import "routine-maker/backend/internal/model"

// ── Catalog DTOs ──

// CourseBrief is one course of the catalog.
type CourseBrief struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FacultyListRequest filters faculty by course; empty means every course.
type FacultyListRequest struct {
	Courses string `form:"courses"` // comma separated course codes
}

// SeatStatusItem is one row of a course's seat status page.
type SeatStatusItem struct {
	SectionID   int64  `json:"section_id"`
	SectionName string `json:"section_name"`
	Faculty     string `json:"faculty"`
	Capacity    int    `json:"capacity"`
	Consumed    int    `json:"consumed"`
	Remaining   int    `json:"remaining"`
	Full        bool   `json:"full"`
}

// ExamScheduleRequest query for one section's exams.
type ExamScheduleRequest struct {
	CourseCode  string `form:"courseCode"  binding:"required,max=20"`
	SectionName string `form:"sectionName" binding:"required,max=10"`
}

// ExamScheduleResponse a section's exam sittings; nil means not scheduled.
type ExamScheduleResponse struct {
	CourseCode  string             `json:"courseCode"`
	SectionName string             `json:"sectionName"`
	Mid         *model.ExamSitting `json:"mid"`
	Final       *model.ExamSitting `json:"final"`
	MidDetail   string             `json:"midDetail,omitempty"`
	FinalDetail string             `json:"finalDetail,omitempty"`
}

// SectionQueryRequest narrows the catalog to what a student picked. Times
// are display slot values such as "8:00 AM-9:20 AM".
type SectionQueryRequest struct {
	Courses []string `json:"courses" binding:"required,min=1,max=15,dive,required,max=20"`
	Faculty []string `json:"faculty" binding:"omitempty,dive,max=50"`
	Days    []string `json:"days"    binding:"omitempty,max=7"`
	Times   []string `json:"times"   binding:"omitempty,max=20"`
}

// CourseCandidates the sections of one requested course that pass the query.
type CourseCandidates struct {
	Course   string          `json:"course"`
	Sections []model.Section `json:"sections"`
}

// CatalogStatusResponse describes the snapshot being served.
type CatalogStatusResponse struct {
	Source       string `json:"source"`
	Origin       string `json:"origin"` // upstream | snapshot
	SectionCount int    `json:"section_count"`
	CourseCount  int    `json:"course_count"`
	FetchedAt    string `json:"fetched_at"`
}
