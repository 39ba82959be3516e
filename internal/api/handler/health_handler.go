package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"routine-maker/backend/internal/service"
)

// HealthHandler liveness endpoint.
type HealthHandler struct {
	catalogSvc service.CatalogService
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(catalogSvc service.CatalogService) *HealthHandler {
	return &HealthHandler{catalogSvc: catalogSvc}
}

// Health reports liveness, and whether a catalog is being served.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if status, err := h.catalogSvc.Status(); err == nil {
		body["catalog"] = status
	} else {
		body["catalog"] = nil
	}
	c.JSON(http.StatusOK, body)
}
