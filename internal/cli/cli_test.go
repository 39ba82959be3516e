package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sectionsJSON = `[
  {
    "sectionId": 1, "courseCode": "CSE110", "sectionName": "01", "faculties": "ABC",
    "roomName": "UB01", "labRoomName": "LAB01",
    "sectionSchedule": {
      "classSchedules": [
        {"day": "SUNDAY", "startTime": "08:00:00", "endTime": "09:20:00"},
        {"day": "TUESDAY", "startTime": "08:00:00", "endTime": "09:20:00"}
      ],
      "finalExamDate": "2025-09-10", "finalExamStartTime": "09:00:00", "finalExamEndTime": "11:00:00"
    },
    "labSchedules": [{"day": "THURSDAY", "startTime": "14:00:00", "endTime": "16:50:00"}]
  },
  {
    "sectionId": 5, "courseCode": "MAT120", "sectionName": 2, "faculties": "",
    "sectionSchedule": {
      "classSchedules": [
        {"day": "MONDAY", "startTime": "11:00:00", "endTime": "12:20:00"},
        {"day": "WEDNESDAY", "startTime": "11:00:00", "endTime": "12:20:00"}
      ],
      "finalExamDate": "2025-09-10", "finalExamStartTime": "10:00:00", "finalExamEndTime": "12:00:00"
    },
    "labSchedules": []
  }
]`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewApp(&out).Execute(args)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "routinectl ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGrid(t *testing.T) {
	path := writeTemp(t, "sections.json", sectionsJSON)

	out, err := run(t, "grid", "--sections", path)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for _, want := range []string{"Class CSE110-01 ABC", "Lab CSE110-01 ABC", "MAT120-2 TBA", "6 placement(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGridDays(t *testing.T) {
	path := writeTemp(t, "sections.json", sectionsJSON)

	out, err := run(t, "grid", "-s", path, "--days", "Sunday")
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if strings.Contains(out, "Tuesday") || !strings.Contains(out, "1 placement(s)") {
		t.Errorf("only Sunday should be filled:\n%s", out)
	}
}

func TestValidate(t *testing.T) {
	path := writeTemp(t, "sections.json", sectionsJSON)

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{
			name: "valid without exams",
			args: []string{"validate", "-s", path, "-d", "Sunday,Monday,Tuesday,Wednesday,Thursday"},
			want: "valid",
		},
		{
			name:    "exam clash",
			args:    []string{"validate", "-s", path, "-d", "Sunday,Monday,Tuesday,Wednesday,Thursday", "--exams", path},
			wantErr: true,
			want:    "exam_conflict",
		},
		{
			name:    "lab day missing",
			args:    []string{"validate", "-s", path, "-d", "Sunday", "-d", "Monday", "-d", "Tuesday", "-d", "Wednesday"},
			wantErr: true,
			want:    "missing_day_for_lab",
		},
		{
			name:    "one day",
			args:    []string{"validate", "-s", path, "-d", "Sunday"},
			wantErr: true,
			want:    "insufficient_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrViolations) {
				t.Errorf("expected ErrViolations, got %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestBadInput(t *testing.T) {
	path := writeTemp(t, "sections.json", sectionsJSON)
	broken := writeTemp(t, "broken.json", "{")

	cases := [][]string{
		{"grid"},
		{"grid", "-s", broken},
		{"grid", "-s", filepath.Join(t.TempDir(), "missing.json")},
		{"validate", "-s", path, "-d", "Someday,Monday"},
	}
	for _, args := range cases {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}
