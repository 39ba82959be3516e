package dto

import "routine-maker/backend/internal/model"

// ── Routine DTOs ──

// RoutineRequest names the sections of a routine and the student's days.
// Days selected for the grid restrict the columns filled; for validation they
// are the days the student is available.
type RoutineRequest struct {
	Sections []model.SectionRef `json:"sections" binding:"required,min=1,max=20"`
	Days     []string           `json:"days"     binding:"omitempty,max=7"`
}

// SaveRoutineRequest stores a routine for sharing.
type SaveRoutineRequest struct {
	RoutineRequest
	Title string `json:"title" binding:"omitempty,max=120"`
}

// SectionBrief identifies a section in responses.
type SectionBrief struct {
	SectionID   int64  `json:"section_id,omitempty"`
	CourseCode  string `json:"course_code"`
	SectionName string `json:"section_name"`
	Faculty     string `json:"faculty,omitempty"`
}

// GridCell is one entry placed in the grid.
type GridCell struct {
	Kind        string `json:"kind"` // class | lab
	CourseCode  string `json:"course_code"`
	SectionName string `json:"section_name"`
	Faculty     string `json:"faculty"`
	Room        string `json:"room"`
	TimeLabel   string `json:"time_label"`
	Day         string `json:"day"`
}

// GridRow is one display slot across the week; Cells is keyed by day name
// and always has all seven days.
type GridRow struct {
	Value string                `json:"value"`
	Label string                `json:"label"`
	Cells map[string][]GridCell `json:"cells"`
}

// GridResponse the rendered weekly grid.
type GridResponse struct {
	Days       []string  `json:"days"`        // full axis, week order
	ActiveDays []string  `json:"active_days"` // columns that were filled
	Rows       []GridRow `json:"rows"`
	Placements int       `json:"placements"`
}

// ViolationResponse is one broken rule, flattened for JSON.
type ViolationResponse struct {
	Kind     string        `json:"kind"`
	Message  string        `json:"message"`
	Section  *SectionBrief `json:"section,omitempty"`
	Other    *SectionBrief `json:"other,omitempty"`
	Day      string        `json:"day,omitempty"`
	Date     string        `json:"date,omitempty"`
	ExamA    string        `json:"exam_a,omitempty"`
	ExamB    string        `json:"exam_b,omitempty"`
	TimeA    string        `json:"time_a,omitempty"`
	TimeB    string        `json:"time_b,omitempty"`
	Selected int           `json:"selected,omitempty"`
	Required int           `json:"required,omitempty"`
}

// VerdictResponse the outcome of validating a routine.
type VerdictResponse struct {
	Valid        bool                `json:"valid"`
	Violations   []ViolationResponse `json:"violations"`
	ExamsChecked bool                `json:"exams_checked"`
}

// ClashResponse two meetings using the same minutes of a day.
type ClashResponse struct {
	Type    string       `json:"type"` // class-class | lab-lab | class-lab | lab-class
	Message string       `json:"message"`
	A       SectionBrief `json:"a"`
	B       SectionBrief `json:"b"`
	Day     string       `json:"day"`
	TimeA   string       `json:"time_a"`
	TimeB   string       `json:"time_b"`
}

// TimeConflictResponse clashes between sections and within each section.
type TimeConflictResponse struct {
	HasConflicts bool            `json:"has_conflicts"`
	Between      []ClashResponse `json:"between"`
	Internal     []ClashResponse `json:"internal"`
}

// SavedRoutineResponse a stored routine with its current grid.
type SavedRoutineResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	ShareURL  string             `json:"share_url"`
	Sections  []model.SectionRef `json:"sections"`
	Days      []string           `json:"days"`
	Grid      *GridResponse      `json:"grid,omitempty"`
	CreatedAt string             `json:"created_at"`
}
