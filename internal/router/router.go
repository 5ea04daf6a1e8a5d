package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"loanlens/internal/domain"
	"loanlens/internal/handler"
	"loanlens/internal/metrics"
	"loanlens/internal/middleware"
	"loanlens/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Application *handler.ApplicationHandler
	Document    *handler.DocumentHandler
	Analysis    *handler.AnalysisHandler
	Health      *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and ops
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/officers", middleware.RequireRole(domain.RoleAdmin), h.Auth.CreateOfficer)
	protected.POST("/analyze", h.Analysis.AnalyzeStateless)

	apps := protected.Group("/applications")
	apps.POST("", h.Application.Create)
	apps.GET("", h.Application.List)
	apps.GET("/export", middleware.RequireRole(domain.RoleAdmin), h.Application.Export)
	apps.GET("/:id", h.Application.GetByID)

	apps.POST("/:id/documents", h.Document.Upload)
	apps.POST("/:id/documents/extracted", h.Document.SubmitExtracted)
	apps.GET("/:id/documents", h.Document.List)
	apps.GET("/:id/documents/:docId/url", h.Document.GetDownloadURL)

	apps.POST("/:id/analyze", h.Analysis.Analyze)
	apps.GET("/:id/analyses", h.Analysis.History)
	apps.GET("/:id/analyses/latest", h.Analysis.Latest)

	return r
}
