package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ── Catalog payload (USIS connect.json) ──

// FlexString decodes a JSON string or number; some feeds send sectionName as 1
// and others as "01".
type FlexString string

// UnmarshalJSON accepts a string, a number or null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("FlexString: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw value.
func (f FlexString) String() string { return string(f) }

// Meeting is one recurring weekly class or lab block as delivered upstream.
// StartMinutes/EndMinutes are present when an upstream component already
// converted the times.
type Meeting struct {
	Day           string `json:"day"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Room          string `json:"room,omitempty"`
	StartMinutes  *int   `json:"startMinutes,omitempty"`
	EndMinutes    *int   `json:"endMinutes,omitempty"`
	FormattedTime string `json:"formattedTime,omitempty"`
}

// ExamFields are the nullable exam columns; each may be missing on its own.
type ExamFields struct {
	MidExamDate        *string `json:"midExamDate,omitempty"`
	MidExamStartTime   *string `json:"midExamStartTime,omitempty"`
	MidExamEndTime     *string `json:"midExamEndTime,omitempty"`
	MidExamDetail      string  `json:"midExamDetail,omitempty"`
	FinalExamDate      *string `json:"finalExamDate,omitempty"`
	FinalExamStartTime *string `json:"finalExamStartTime,omitempty"`
	FinalExamEndTime   *string `json:"finalExamEndTime,omitempty"`
	FinalExamDetail    string  `json:"finalExamDetail,omitempty"`
}

// SectionSchedule holds class meetings and the exam columns.
type SectionSchedule struct {
	ClassSchedules []Meeting `json:"classSchedules"`
	RoomName       string    `json:"roomName,omitempty"`
	ExamFields
}

// Section is one offering of a course. The routine engine treats it as an
// immutable snapshot.
type Section struct {
	SectionID       int64           `json:"sectionId"`
	CourseCode      string          `json:"courseCode"`
	CourseName      string          `json:"courseName,omitempty"`
	CourseCredit    float64         `json:"courseCredit,omitempty"`
	SectionName     FlexString      `json:"sectionName"`
	Faculties       string          `json:"faculties"`
	Capacity        int             `json:"capacity"`
	ConsumedSeat    int             `json:"consumedSeat"`
	AvailableSeats  *int            `json:"availableSeats,omitempty"`
	RoomName        string          `json:"roomName"`
	LabRoomName     string          `json:"labRoomName"`
	SectionSchedule SectionSchedule `json:"sectionSchedule"`
	LabSchedules    []Meeting       `json:"labSchedules"`

	// Some feeds carry the exam columns at the top level instead.
	ExamFields
}

// SectionKey identifies a section by exact course code and section name.
type SectionKey struct {
	CourseCode  string
	SectionName string
}

// String formats the key as "CSE110-01".
func (k SectionKey) String() string {
	return k.CourseCode + "-" + k.SectionName
}

// Key returns the lookup key of the section.
func (s *Section) Key() SectionKey {
	return SectionKey{CourseCode: s.CourseCode, SectionName: s.SectionName.String()}
}

// FacultyName returns the faculty initials or "TBA".
func (s *Section) FacultyName() string {
	if strings.TrimSpace(s.Faculties) == "" {
		return "TBA"
	}
	return s.Faculties
}

// SeatsRemaining returns capacity minus consumed seats.
func (s *Section) SeatsRemaining() int {
	return s.Capacity - s.ConsumedSeat
}

// CompareSectionNames orders section names numerically when both are numbers
// ("2" < "10") and case-insensitively otherwise.
func CompareSectionNames(a, b string) int {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
