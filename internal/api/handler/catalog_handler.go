package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"routine-maker/backend/internal/dto"
	"routine-maker/backend/internal/service"
	"routine-maker/backend/pkg/response"
)

// CatalogHandler section catalog endpoints.
type CatalogHandler struct {
	catalogSvc service.CatalogService
	examSvc    service.ExamFeedService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogSvc service.CatalogService, examSvc service.ExamFeedService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, examSvc: examSvc}
}

// ListCourses lists every course in the catalog.
// GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogSvc.ListCourses(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKList(c, courses, len(courses))
}

// CourseDetails lists the sections of a course that still have seats.
// GET /api/v1/courses/:code/sections
func (h *CatalogHandler) CourseDetails(c *gin.Context) {
	sections, err := h.catalogSvc.CourseDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKList(c, sections, len(sections))
}

// SeatStatus GET /api/v1/courses/:code/seat-status
func (h *CatalogHandler) SeatStatus(c *gin.Context) {
	items, err := h.catalogSvc.SeatStatus(c.Request.Context(), c.Param("code"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKList(c, items, len(items))
}

// ListFaculty lists faculty, optionally only of some courses.
// GET /api/v1/faculty?courses=CSE110,MAT120
func (h *CatalogHandler) ListFaculty(c *gin.Context) {
	var req dto.FacultyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	var courses []string
	for _, code := range strings.Split(req.Courses, ",") {
		if code = strings.TrimSpace(code); code != "" {
			courses = append(courses, code)
		}
	}

	faculty, err := h.catalogSvc.ListFaculty(c.Request.Context(), courses)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKList(c, faculty, len(faculty))
}

// ExamSchedule GET /api/v1/exam-schedule?courseCode=CSE110&sectionName=01
func (h *CatalogHandler) ExamSchedule(c *gin.Context) {
	var req dto.ExamScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "courseCode and sectionName are required")
		return
	}

	resp, err := h.catalogSvc.ExamSchedule(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, resp)
}

// QuerySections narrows the catalog to the student's choices.
// POST /api/v1/sections/query
func (h *CatalogHandler) QuerySections(c *gin.Context) {
	var req dto.SectionQueryRequest
	if !bindJSON(c, &req) {
		return
	}

	groups, err := h.catalogSvc.Query(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKList(c, groups, len(groups))
}

// Status GET /api/v1/catalog/status
func (h *CatalogHandler) Status(c *gin.Context) {
	status, err := h.catalogSvc.Status()
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, status)
}

// Refresh refetches the catalog and drops the cached exam feed.
// POST /api/v1/catalog/refresh
func (h *CatalogHandler) Refresh(c *gin.Context) {
	status, err := h.catalogSvc.Refresh(c.Request.Context())
	if err != nil {
		handleCommonError(c, err)
		return
	}
	// a stale exam cache only delays new exam data by its TTL
	_ = h.examSvc.Invalidate(c.Request.Context())

	response.OK(c, status)
}
