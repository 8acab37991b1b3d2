package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"hireflow/internal/access"
	"hireflow/internal/analytics"
	"hireflow/internal/api/handlers"
	"hireflow/internal/api/middleware"
	"hireflow/internal/candidates"
	"hireflow/internal/config"
	"hireflow/internal/identity"
	"hireflow/internal/jobs"
	"hireflow/internal/logging"
	"hireflow/internal/storage"
)

// Deps carries everything the routes are built from
type Deps struct {
	Config     *config.Config
	Logger     logging.Logger
	Gate       *access.Gate
	Verifier   *identity.Verifier
	Jobs       *jobs.Service
	Candidates *candidates.Service
	Analytics  *analytics.Service
	Objects    storage.ObjectStore
	Limiter    *middleware.RateLimiter

	// Required checks fail readiness, optional ones only report degraded
	Required map[string]handlers.Check
	Optional map[string]handlers.Check
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, d Deps) {
	// Global middleware
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(d.Config.Server.AllowOrigins))
	e.Use(middleware.RequestValidation())
	e.Use(middleware.TimeoutConfig(d.Config.Server.ReadTimeout))
	e.Use(middleware.Access(d.Gate, d.Logger))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(d.Required, d.Optional))
		health.GET("/live", handlers.LivenessHandler)
	}

	limited := middleware.RateLimit(d.Limiter)

	// Careers site API
	public := e.Group("/api/public")
	{
		public.GET("/jobs", handlers.ListPublicJobsHandler(d.Jobs))
		public.GET("/jobs/:id", handlers.GetPublicJobHandler(d.Jobs))
		public.POST("/jobs/:id/applications", handlers.SubmitApplicationHandler(d.Candidates), limited)
		public.POST("/uploads", handlers.UploadURLHandler(d.Objects), limited)
	}
	e.GET("/api/debug-claims", handlers.DebugClaimsHandler(d.Verifier))

	// Staff routes
	jobRoutes := e.Group("/jobs")
	{
		jobRoutes.GET("", handlers.ListJobsHandler(d.Jobs))
		jobRoutes.POST("", handlers.CreateJobHandler(d.Jobs))
		jobRoutes.GET("/:id", handlers.GetJobHandler(d.Jobs))
		jobRoutes.PATCH("/:id/status", handlers.UpdateJobStatusHandler(d.Jobs))
	}

	candidateRoutes := e.Group("/candidates")
	{
		candidateRoutes.GET("", handlers.ListCandidatesHandler(d.Candidates))
		candidateRoutes.POST("", handlers.CreateCandidateHandler(d.Candidates))
		candidateRoutes.GET("/export.xlsx", handlers.ExportCandidatesHandler(d.Candidates))
		candidateRoutes.GET("/:id", handlers.GetCandidateHandler(d.Candidates))
		candidateRoutes.PATCH("/:id/status", handlers.UpdateCandidateStatusHandler(d.Candidates))
		candidateRoutes.PUT("/:id/evaluation", handlers.UpdateEvaluationHandler(d.Candidates))
		candidateRoutes.POST("/:id/notes", handlers.AddNoteHandler(d.Candidates))
		candidateRoutes.GET("/:id/documents/:kind", handlers.DocumentHandler(d.Candidates, d.Objects))
	}

	e.GET("/analytics", handlers.AnalyticsHandler(d.Analytics))
	e.GET("/", handlers.DashboardHandler(d.Analytics))

	// Unknown paths that survive the access check
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error":   "not_found",
			"message": "Route not found",
		})
	})
}
