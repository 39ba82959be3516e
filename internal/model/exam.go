package model

import "strings"

// ExamKind distinguishes the two sittings of a section.
type ExamKind string

const (
	ExamMid   ExamKind = "Mid"
	ExamFinal ExamKind = "Final"
)

// ExamSitting is one exam: a calendar date and a time range.
type ExamSitting struct {
	Kind      ExamKind `json:"kind"`
	Date      string   `json:"date"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Room      string   `json:"room,omitempty"`
}

// TimeLabel formats "10:00 - 12:00".
func (e ExamSitting) TimeLabel() string {
	return e.StartTime + " - " + e.EndTime
}

// ExamRecord is the exam-feed entry of one section. A nil sitting means no
// data, not no exam.
type ExamRecord struct {
	CourseCode  string       `json:"courseCode"`
	SectionName string       `json:"sectionName"`
	Mid         *ExamSitting `json:"mid,omitempty"`
	Final       *ExamSitting `json:"final,omitempty"`
}

// Key returns the lookup key of the record.
func (r ExamRecord) Key() SectionKey {
	return SectionKey{CourseCode: r.CourseCode, SectionName: r.SectionName}
}

// Sittings returns the present sittings, mid first.
func (r ExamRecord) Sittings() []ExamSitting {
	out := make([]ExamSitting, 0, 2)
	if r.Mid != nil {
		out = append(out, *r.Mid)
	}
	if r.Final != nil {
		out = append(out, *r.Final)
	}
	return out
}

func sitting(kind ExamKind, date, start, end *string, room string) *ExamSitting {
	d, s, e := deref(date), deref(start), deref(end)
	if d == "" || s == "" || e == "" {
		return nil
	}
	return &ExamSitting{Kind: kind, Date: d, StartTime: s, EndTime: e, Room: room}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// Mid returns the mid-term sitting when date, start and end are all present.
func (f ExamFields) Mid(room string) *ExamSitting {
	return sitting(ExamMid, f.MidExamDate, f.MidExamStartTime, f.MidExamEndTime, room)
}

// Final returns the final sitting when date, start and end are all present.
func (f ExamFields) Final(room string) *ExamSitting {
	return sitting(ExamFinal, f.FinalExamDate, f.FinalExamStartTime, f.FinalExamEndTime, room)
}

// ExamRecord extracts the section's exam data. Fields nested under
// sectionSchedule win over top-level ones.
func (s *Section) ExamRecord() ExamRecord {
	room := s.SectionSchedule.RoomName
	if room == "" {
		room = s.RoomName
	}
	rec := ExamRecord{CourseCode: s.CourseCode, SectionName: s.SectionName.String()}

	rec.Mid = s.SectionSchedule.ExamFields.Mid(room)
	if rec.Mid == nil {
		rec.Mid = s.ExamFields.Mid(room)
	}
	rec.Final = s.SectionSchedule.ExamFields.Final(room)
	if rec.Final == nil {
		rec.Final = s.ExamFields.Final(room)
	}
	return rec
}

// ExamRecordsFromSections converts section-shaped feed items.
func ExamRecordsFromSections(sections []Section) []ExamRecord {
	out := make([]ExamRecord, 0, len(sections))
	for i := range sections {
		out = append(out, sections[i].ExamRecord())
	}
	return out
}
