// Package handler contains the HTTP handlers for the routine service.
package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"routine-guard/internal/config"
	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/response"
	"routine-guard/internal/services"
	"routine-guard/internal/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// Server aggregates the handler dependencies.
type Server struct {
	DB                  *gorm.DB
	config              types.ConfigManager
	SettingsManager     *config.SystemSettingsManager
	ScheduleService     *services.ScheduleService
	StreakService       *services.StreakService
	AlarmScheduler      *services.AlarmScheduler
	VerificationService *services.VerificationService
}

// ServerParams defines the dependencies for the server handler.
type ServerParams struct {
	dig.In

	DB                  *gorm.DB
	Config              types.ConfigManager
	SettingsManager     *config.SystemSettingsManager
	ScheduleService     *services.ScheduleService
	StreakService       *services.StreakService
	AlarmScheduler      *services.AlarmScheduler
	VerificationService *services.VerificationService
}

// NewServer creates a new server handler.
func NewServer(params ServerParams) *Server {
	return &Server{
		DB:                  params.DB,
		config:              params.Config,
		SettingsManager:     params.SettingsManager,
		ScheduleService:     params.ScheduleService,
		StreakService:       params.StreakService,
		AlarmScheduler:      params.AlarmScheduler,
		VerificationService: params.VerificationService,
	}
}

// Health handles the health check endpoint.
func (s *Server) Health(c *gin.Context) {
	status := "healthy"
	database := "ok"
	httpStatus := http.StatusOK

	if s.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := s.DB.DB(); err != nil {
			status = "unhealthy"
			database = "unavailable"
			httpStatus = http.StatusServiceUnavailable
		} else if err := sqlDB.PingContext(ctx); err != nil {
			status = "unhealthy"
			database = "unavailable"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	uptime := "unknown"
	if startTime, exists := c.Get("serverStartTime"); exists {
		if start, ok := startTime.(time.Time); ok {
			uptime = time.Since(start).String()
		}
	}

	payload := gin.H{
		"status":    status,
		"database":  database,
		"timestamp": time.Now().Unix(),
		"uptime":    uptime,
	}

	c.JSON(httpStatus, payload)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	AuthKey string `json:"auth_key" binding:"required"`
}

// Login validates the management key. The session itself is the key; this
// endpoint only lets the client verify it before storing it.
func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	authKey := s.config.GetAuthConfig().Key
	if subtle.ConstantTimeCompare([]byte(req.AuthKey), []byte(authKey)) != 1 {
		response.ErrorI18nFromAPIError(c, app_errors.ErrUnauthorized, "auth.invalid_key")
		return
	}

	response.SuccessI18n(c, "auth.login_success", gin.H{"success": true})
}
