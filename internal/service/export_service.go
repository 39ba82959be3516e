package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/routine"
)

// ── Export errors ──

var ErrExportGenerateFail = errors.New("failed to generate workbook")

const exportSheet = "Routine"

// ExportService renders a routine grid as an Excel workbook.
//
// Layout: one sheet, display slots as rows, the seven days as columns, every
// entry placed in a cell on its own line pair.
type ExportService interface {
	// ExportGrid returns the workbook and a suggested file name.
	ExportGrid(ctx context.Context, req *dto.RoutineRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	catalog CatalogService
	builder *routine.Builder
	logger  *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(catalog CatalogService, builder *routine.Builder, logger *zap.Logger) ExportService {
	return &exportService{catalog: catalog, builder: builder, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportGrid
// ═══════════════════════════════════════════════════════════
//
//   | Time            | Sunday | Monday | ... | Saturday |
//   | 8:00 AM-9:20 AM | Class: CSE110 - 01 - ABC - UB10201\n8:00 AM - 9:20 AM |

func (s *exportService) ExportGrid(ctx context.Context, req *dto.RoutineRequest) (*bytes.Buffer, string, error) {
	sections, days, err := resolveRoutine(ctx, s.catalog, req, true)
	if err != nil {
		return nil, "", err
	}
	grid := s.builder.BuildGrid(sections, days)

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(exportSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheet, "A", "A", 20)
	last := colName(len(routine.AllDays))
	f.SetColWidth(exportSheet, "B", last, 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// header
	f.SetCellValue(exportSheet, cell("A", 1), "Time")
	for i, d := range routine.AllDays {
		f.SetCellValue(exportSheet, cell(colName(i+1), 1), d.String())
	}
	f.SetCellStyle(exportSheet, "A1", cell(last, 1), headerStyle)

	// body
	row := 2
	for _, r := range grid.Rows() {
		f.SetCellValue(exportSheet, cell("A", row), r.Slot.Label)
		for i, d := range routine.AllDays {
			f.SetCellValue(exportSheet, cell(colName(i+1), row), cellText(r.Cells[d]))
		}
		row++
	}
	if row > 2 {
		f.SetCellStyle(exportSheet, "A2", cell(last, row-1), bodyStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Debug("routine workbook exported",
		zap.Int("sections", len(sections)),
		zap.Int("placements", grid.Placements()),
	)
	return buf, "routine.xlsx", nil
}

// cellText joins the entries of one grid cell, blank line between entries.
func cellText(cells []routine.Cell) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		kind := "Class"
		if c.Kind == routine.KindLab {
			kind = "Lab"
		}
		parts = append(parts, fmt.Sprintf("%s: %s - %s - %s - %s\n%s",
			kind, c.Section.CourseCode, c.Section.SectionName, c.Section.FacultyName(), cellRoom(c), c.TimeLabel))
	}
	return strings.Join(parts, "\n\n")
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
