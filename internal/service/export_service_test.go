package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/routine"
)

// ── helpers ──

func setupTestExportService(t *testing.T) ExportService {
	t.Helper()
	catalog, _, _ := setupTestCatalogService(t)
	return NewExportService(catalog, routine.NewBuilder(nil, zap.NewNop()), zap.NewNop())
}

func setupTestCalendarService(t *testing.T) CalendarService {
	t.Helper()
	catalog, source, _ := setupTestCatalogService(t)
	exams := NewExamFeedService(source, catalog, nil, time.Minute, zap.NewNop())
	loc, _ := time.LoadLocation("Asia/Dhaka")
	// a Wednesday
	termStart := time.Date(2025, 6, 4, 0, 0, 0, 0, loc)
	return NewCalendarService(catalog, exams, termStart, 12, zap.NewNop())
}

// ── ExportGrid ──

func TestExportService_ExportGrid(t *testing.T) {
	svc := setupTestExportService(t)

	buf, filename, err := svc.ExportGrid(context.Background(), &dto.RoutineRequest{Sections: refs("CSE110-01", "MAT120-02")})
	if err != nil {
		t.Fatalf("ExportGrid: %v", err)
	}
	if filename != "routine.xlsx" {
		t.Errorf("filename = %q", filename)
	}
	// an .xlsx file starts with PK (0x504B)
	if buf.Len() < 2 || buf.Bytes()[0] != 0x50 || buf.Bytes()[1] != 0x4B {
		t.Fatal("output is not an xlsx file")
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	header, _ := f.GetCellValue(exportSheet, "B1")
	if header != "Sunday" {
		t.Errorf("B1 = %q, want Sunday", header)
	}
	slot, _ := f.GetCellValue(exportSheet, "A2")
	if slot != "8:00 AM-9:20 AM" {
		t.Errorf("A2 = %q", slot)
	}
	got, _ := f.GetCellValue(exportSheet, "B2")
	if want := "Class: CSE110 - 01 - ABC - UB01\n8:00 AM - 9:20 AM"; got != want {
		t.Errorf("B2 = %q, want %q", got, want)
	}
	lab, _ := f.GetCellValue(exportSheet, "F6")
	if !strings.HasPrefix(lab, "Lab: CSE110 - 01 - ABC - LAB01") {
		t.Errorf("Thursday 2:00 PM cell = %q", lab)
	}
	empty, _ := f.GetCellValue(exportSheet, "H2")
	if empty != "" {
		t.Errorf("Saturday should be empty, got %q", empty)
	}
}

func TestExportService_ExportGridUnknownSection(t *testing.T) {
	svc := setupTestExportService(t)

	_, _, err := svc.ExportGrid(context.Background(), &dto.RoutineRequest{Sections: refs("CSE110-77")})
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("expected ErrSectionNotFound, got %v", err)
	}
}

// ── ExportICS ──

func TestCalendarService_ExportICS(t *testing.T) {
	svc := setupTestCalendarService(t)

	raw, filename, err := svc.ExportICS(context.Background(), &dto.RoutineRequest{Sections: refs("CSE110-01")})
	if err != nil {
		t.Fatalf("ExportICS: %v", err)
	}
	if filename != "routine.ics" {
		t.Errorf("filename = %q", filename)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	events := cal.Events()
	// two classes, one lab, one final
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	first := events[0]
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt: %v", err)
	}
	// first Sunday on or after Wednesday 4 June, 08:00 in Dhaka
	if want := time.Date(2025, 6, 8, 2, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("first class starts %v, want %v", start, want)
	}
	if rr := first.GetProperty(ics.ComponentPropertyRrule); rr == nil || rr.Value != "FREQ=WEEKLY;COUNT=12" {
		t.Errorf("unexpected RRULE: %+v", rr)
	}

	exam := events[3]
	if rr := exam.GetProperty(ics.ComponentPropertyRrule); rr != nil {
		t.Error("exam events must not repeat")
	}
	if summary := exam.GetProperty(ics.ComponentPropertySummary); summary == nil || summary.Value != "CSE110 Final Exam (01)" {
		t.Errorf("unexpected exam summary: %+v", summary)
	}
}

func TestFirstOnOrAfter(t *testing.T) {
	wed := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		wd   time.Weekday
		want int
	}{
		{time.Wednesday, 4},
		{time.Thursday, 5},
		{time.Sunday, 8},
		{time.Tuesday, 10},
	}
	for _, tt := range tests {
		got := firstOnOrAfter(wed, tt.wd)
		if got.Day() != tt.want || got.Hour() != 0 {
			t.Errorf("firstOnOrAfter(%s) = %v, want June %d", tt.wd, got, tt.want)
		}
	}
}

func TestParseExamDate(t *testing.T) {
	for _, v := range []string{"2025-09-10", "10-09-2025", "10 Sep 2025", "Sep 10, 2025"} {
		got, err := parseExamDate(v, time.UTC)
		if err != nil || got.Month() != time.September || got.Day() != 10 {
			t.Errorf("parseExamDate(%q) = %v, %v", v, got, err)
		}
	}
	if _, err := parseExamDate("next week", time.UTC); err == nil {
		t.Error("expected an error")
	}
}
