package handler

import (
	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/response"

	"github.com/gin-gonic/gin"
)

// NextAlarm handles GET /api/alarms/next.
func (s *Server) NextAlarm(c *gin.Context) {
	next, err := s.AlarmScheduler.NextUpcoming(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	if next == nil {
		response.SuccessI18n(c, "alarm.none_upcoming", nil)
		return
	}
	response.Success(c, next)
}

// RescheduleAlarms handles POST /api/alarms/reschedule. Per-day registration
// failures are reported alongside the count; they never abort the batch.
func (s *Server) RescheduleAlarms(c *gin.Context) {
	total, dayErrors, err := s.AlarmScheduler.RescheduleAll(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInternalServer, err.Error()))
		return
	}
	response.SuccessI18n(c, "alarm.rescheduled", gin.H{
		"registered": total,
		"day_errors": dayErrors,
	})
}

// CancelTodayAlarms handles POST /api/alarms/cancel-today. Idempotent.
func (s *Server) CancelTodayAlarms(c *gin.Context) {
	if err := s.AlarmScheduler.CancelTodayBackups(c.Request.Context()); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInternalServer, err.Error()))
		return
	}
	response.SuccessI18n(c, "alarm.cancelled_today", nil)
}
