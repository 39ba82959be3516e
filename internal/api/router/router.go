package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routine-maker/backend/config"
	"routine-maker/backend/internal/api/handler"
	"routine-maker/backend/internal/api/middleware"
)

// Setup builds the Gin engine. limiter may be nil when Redis is off.
func Setup(cfg *config.Config, h *handler.Handler, limiter middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// ── health ──
	r.GET("/health", h.Health.Health)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// catalog
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Catalog.ListCourses)
			courses.GET("/:code/sections", h.Catalog.CourseDetails)
			courses.GET("/:code/seat-status", h.Catalog.SeatStatus)
		}
		v1.GET("/faculty", h.Catalog.ListFaculty)
		v1.GET("/exam-schedule", h.Catalog.ExamSchedule)
		v1.POST("/sections/query", h.Catalog.QuerySections)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/status", h.Catalog.Status)
			catalog.POST("/refresh", h.Catalog.Refresh)
		}

		// routine
		rt := v1.Group("/routine")
		{
			rt.POST("/grid", h.Routine.RenderGrid)
			rt.POST("/validate", h.Routine.Validate)
			rt.POST("/time-conflicts", h.Routine.TimeConflicts)
			rt.POST("/export/xlsx", h.Export.ExportXLSX)
			rt.POST("/export/ics", h.Export.ExportICS)
		}

		// saved routines
		routines := v1.Group("/routines")
		{
			routines.POST("", h.Routine.Save)
			routines.GET("/:id", h.Routine.Get)
		}
	}

	return r
}
