package handler

import (
	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/response"

	"github.com/gin-gonic/gin"
)

// GetStreak handles GET /api/streak.
func (s *Server) GetStreak(c *gin.Context) {
	data, err := s.StreakService.Get(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, data)
}

// ResetStreak handles POST /api/streak/reset.
func (s *Server) ResetStreak(c *gin.Context) {
	data, err := s.StreakService.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.SuccessI18n(c, "streak.reset", data)
}
