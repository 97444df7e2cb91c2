package routes

import (
	"net/http"
	"time"

	"skb-backend/internal/config"
	"skb-backend/internal/telemetry"
	"skb-backend/middleware"
	"skb-backend/services"

	"github.com/gin-gonic/gin"
)

// Dependencies is everything the HTTP surface needs; main builds it once at
// startup.
type Dependencies struct {
	Config  *config.Config
	Tokens  TokenService
	Auth    *services.AuthService
	Gallery *services.GalleryService
	Stats   *services.StatsService
	Export  *services.ExportService
	Metrics *telemetry.Metrics
}

// TokenService combines what login issues and what the middleware verifies.
type TokenService interface {
	middleware.TokenVerifier
	TTL() time.Duration
}

func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.OTelEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Backend SKB aktif"})
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)
	roleMiddleware := middleware.NewRoleMiddleware()
	admin := router.Group("/", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard())

	SetupAuthRoutes(router, cfg, deps.Auth, deps.Tokens, authMiddleware)
	SetupImageRoutes(router, admin, cfg, deps.Gallery)
	SetupStatsRoutes(router, admin, deps.Stats)
	SetupExportRoutes(admin, deps.Export)

	return router
}
