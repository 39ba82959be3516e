package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/service"
	"routine-maker/backend/pkg/response"
)

// RoutineHandler routine grid, validation and sharing endpoints.
type RoutineHandler struct {
	routineSvc service.RoutineService
}

// NewRoutineHandler creates a RoutineHandler.
func NewRoutineHandler(routineSvc service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineSvc: routineSvc}
}

// RenderGrid POST /api/v1/routine/grid
func (h *RoutineHandler) RenderGrid(c *gin.Context) {
	var req dto.RoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	grid, err := h.routineSvc.RenderGrid(c.Request.Context(), &req)
	if err != nil {
		h.handleRoutineError(c, err)
		return
	}
	response.OK(c, grid)
}

// Validate checks a routine. Broken rules are a normal 200 result.
// POST /api/v1/routine/validate
func (h *RoutineHandler) Validate(c *gin.Context) {
	var req dto.RoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	verdict, err := h.routineSvc.Validate(c.Request.Context(), &req)
	if err != nil {
		h.handleRoutineError(c, err)
		return
	}
	response.OK(c, verdict)
}

// TimeConflicts POST /api/v1/routine/time-conflicts
func (h *RoutineHandler) TimeConflicts(c *gin.Context) {
	var req dto.RoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.routineSvc.TimeConflicts(c.Request.Context(), &req)
	if err != nil {
		h.handleRoutineError(c, err)
		return
	}
	response.OK(c, resp)
}

// Save stores a valid routine for sharing.
// POST /api/v1/routines
func (h *RoutineHandler) Save(c *gin.Context) {
	var req dto.SaveRoutineRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.routineSvc.Save(c.Request.Context(), &req)
	if err != nil {
		h.handleRoutineError(c, err)
		return
	}
	response.Created(c, saved)
}

// Get GET /api/v1/routines/:id
func (h *RoutineHandler) Get(c *gin.Context) {
	saved, err := h.routineSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleRoutineError(c, err)
		return
	}
	response.OK(c, saved)
}

func (h *RoutineHandler) handleRoutineError(c *gin.Context, err error) {
	var invalid *service.RoutineInvalidError
	switch {
	case errors.As(err, &invalid):
		response.Unprocessable(c, 13001, "routine breaks scheduling rules", invalid.Verdict)
	case errors.Is(err, service.ErrRoutineNotFound):
		response.NotFound(c, 13002, "routine not found")
	default:
		handleCommonError(c, err)
	}
}
