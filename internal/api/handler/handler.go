package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"routine-maker/backend/internal/service"
	pkgerrors "routine-maker/backend/pkg/errors"
	"routine-maker/backend/pkg/response"
)

// Handler aggregates every handler.
type Handler struct {
	Health  *HealthHandler
	Catalog *CatalogHandler
	Routine *RoutineHandler
	Export  *ExportHandler
}

// NewHandler builds the handlers over svc.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Health:  NewHealthHandler(svc.Catalog),
		Catalog: NewCatalogHandler(svc.Catalog, svc.ExamFeed),
		Routine: NewRoutineHandler(svc.Routine),
		Export:  NewExportHandler(svc.Export, svc.Calendar),
	}
}

// bindJSON decodes the body into dst, answering 413 for an oversized body and
// 400 for anything else. Callers return when it reports false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return false
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters", err.Error())
	return false
}

// handleCommonError maps the errors every module can return.
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid parameters", err.Error())
	case errors.Is(err, service.ErrCatalogNotLoaded):
		response.ServiceUnavailable(c, 12001, "section catalog not loaded yet")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12002, "course not found")
	case errors.Is(err, service.ErrSectionNotFound):
		response.ErrorWithDetails(c, http.StatusNotFound, 12003, "section not found", err.Error())
	case errors.Is(err, pkgerrors.ErrUpstreamUnavailable):
		response.ServiceUnavailable(c, 12004, "section catalog upstream unavailable")
	case errors.Is(err, pkgerrors.ErrStorageDisabled):
		response.ServiceUnavailable(c, 13003, "routine storage is not configured")
	default:
		response.InternalError(c)
	}
}
