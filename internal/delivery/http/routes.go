package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steamexplorer/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		// Steam store and web API proxy
		games := api.Group("/steam/games")
		{
			games.GET("/search", handler.SearchGames)
			games.GET("/:id/details", handler.GameDetails)
			games.GET("/:id/requirements", handler.GameRequirements)
			games.GET("/:id/reviews", handler.GameReviews)
			games.GET("/:id/stats", handler.GameStats)
			games.GET("/:id/news", handler.GameNews)
		}

		// Local host inspection
		system := api.Group("/system")
		{
			system.GET("/specs", handler.SystemSpecs)
			system.POST("/compare", handler.CompareSpecs)
			system.GET("/test", handler.SystemTest)
		}

		// Accounts
		api.POST("/register", handler.Register)
		api.POST("/login", handler.Login)
		api.GET("/me", handler.Me)
	}

	return router
}
