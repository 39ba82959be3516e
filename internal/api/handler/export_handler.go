package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/service"
	"routine-maker/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler routine download endpoints.
type ExportHandler struct {
	exportSvc   service.ExportService
	calendarSvc service.CalendarService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService, calendarSvc service.CalendarService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, calendarSvc: calendarSvc}
}

// ExportXLSX downloads the routine grid as a workbook.
// POST /api/v1/routine/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	var req dto.RoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	buf, filename, err := h.exportSvc.ExportGrid(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportICS downloads the routine as an iCalendar file.
// POST /api/v1/routine/export/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	var req dto.RoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	raw, filename, err := h.calendarSvc.ExportICS(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	attachment(c, filename)
	c.Data(http.StatusOK, icsContentType, raw)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 14001, "failed to generate export")
	default:
		handleCommonError(c, err)
	}
}
