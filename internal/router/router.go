// Package router wires the HTTP routes and global middleware.
package router

import (
	"net/http"
	"time"

	"routine-guard/internal/handler"
	"routine-guard/internal/i18n"
	"routine-guard/internal/middleware"
	"routine-guard/internal/types"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// maxCaptureBodyBytes bounds POST bodies. Captures carry detection geometry,
// not image data, so this is generous.
const maxCaptureBodyBytes = 1 << 20

func NewRouter(
	serverHandler *handler.Server,
	configManager types.ConfigManager,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Register global middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger(configManager.GetLogConfig()))
	router.Use(middleware.CORS(configManager.GetCORSConfig()))
	router.Use(middleware.RateLimiter(configManager.GetPerformanceConfig()))
	router.Use(middleware.SecurityHeaders())
	startTime := time.Now()
	router.Use(func(c *gin.Context) {
		c.Set("serverStartTime", startTime)
		c.Next()
	})

	registerSystemRoutes(router, serverHandler)
	registerAPIRoutes(router, serverHandler, configManager)

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}

// registerSystemRoutes registers system-level routes
func registerSystemRoutes(router *gin.Engine, serverHandler *handler.Server) {
	router.GET("/health", serverHandler.Health)
}

// registerAPIRoutes registers API routes
func registerAPIRoutes(
	router *gin.Engine,
	serverHandler *handler.Server,
	configManager types.ConfigManager,
) {
	api := router.Group("/api")
	api.Use(i18n.Middleware())
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	api.Use(middleware.RequestBodySizeLimit(maxCaptureBodyBytes))

	authConfig := configManager.GetAuthConfig()

	// Public routes
	api.POST("/auth/login", serverHandler.Login)

	// Protected routes
	protectedAPI := api.Group("")
	protectedAPI.Use(middleware.Auth(authConfig))
	registerProtectedAPIRoutes(protectedAPI, serverHandler)
}

// registerProtectedAPIRoutes registers protected API routes
func registerProtectedAPIRoutes(api *gin.RouterGroup, serverHandler *handler.Server) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("", serverHandler.ListSchedules)
		schedules.PUT("/:weekday", serverHandler.UpdateSchedule)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", serverHandler.GetSettings)
		settings.PUT("", serverHandler.UpdateSettings)
		settings.GET("/user", serverHandler.GetUserSettings)
		settings.PUT("/user", serverHandler.UpdateUserSettings)
	}

	streak := api.Group("/streak")
	{
		streak.GET("", serverHandler.GetStreak)
		streak.POST("/reset", serverHandler.ResetStreak)
	}

	alarms := api.Group("/alarms")
	{
		alarms.GET("/next", serverHandler.NextAlarm)
		alarms.POST("/reschedule", serverHandler.RescheduleAlarms)
		alarms.POST("/cancel-today", serverHandler.CancelTodayAlarms)
	}

	verifications := api.Group("/verifications")
	{
		verifications.POST("", serverHandler.CreateVerification)
		verifications.GET("", serverHandler.ListVerifications)
	}
}
