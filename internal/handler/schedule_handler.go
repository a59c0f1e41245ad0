package handler

import (
	"errors"

	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/i18n"
	"routine-guard/internal/models"
	"routine-guard/internal/response"
	"routine-guard/internal/services"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListSchedules handles GET /api/schedules.
func (s *Server) ListSchedules(c *gin.Context) {
	schedules, err := s.ScheduleService.ListSchedules(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, schedules)
}

// UpdateSchedule handles PUT /api/schedules/:weekday. A target time past the
// cutoff is clamped and the response message says so. Any change reschedules
// the whole alarm space.
func (s *Server) UpdateSchedule(c *gin.Context) {
	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil || weekday < 1 || weekday > 7 {
		response.ErrorI18n(c, 400, "VALIDATION_ERROR", "validation.invalid_weekday")
		return
	}

	var update services.ScheduleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	schedule, clamped, err := s.ScheduleService.UpdateSchedule(c.Request.Context(), weekday, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorI18n(c, 404, "NOT_FOUND", "schedule.not_found")
			return
		}
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, err.Error()))
		return
	}

	if _, dayErrors, err := s.AlarmScheduler.RescheduleAll(c.Request.Context()); err != nil {
		logrus.WithError(err).Warn("Failed to reschedule alarms after schedule change")
	} else if len(dayErrors) > 0 {
		logrus.WithField("day_errors", dayErrors).Warn("Partial alarm reschedule after schedule change")
	}

	// A shortfall against the weekly minimum is reported, never enforced
	if ok, err := s.ScheduleService.CheckWeeklyMinimum(c.Request.Context()); err == nil && !ok {
		logrus.Debug("Schedule change left the week below the weekly minimum")
	}

	if clamped {
		response.SuccessI18n(c, "schedule.time_clamped", schedule, map[string]any{"time": *schedule.TargetTime})
		return
	}
	response.SuccessI18n(c, "schedule.updated", schedule)
}

// GetUserSettings handles GET /api/settings/user.
func (s *Server) GetUserSettings(c *gin.Context) {
	settings, err := s.ScheduleService.GetUserSettings(c.Request.Context())
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}
	response.Success(c, settings)
}

// UpdateUserSettings handles PUT /api/settings/user.
func (s *Server) UpdateUserSettings(c *gin.Context) {
	var update services.UserSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	settings, err := s.ScheduleService.UpdateUserSettings(c.Request.Context(), update)
	if err != nil {
		response.ErrorI18n(c, 400, "VALIDATION_ERROR", "validation.invalid_theme")
		return
	}

	if ok, checkErr := s.ScheduleService.CheckWeeklyMinimum(c.Request.Context()); checkErr == nil && !ok {
		var enabledCount int64
		s.DB.Model(&models.DaySchedule{}).Where("enabled = ?", true).Count(&enabledCount)
		message := i18n.Message(c, "schedule.below_minimum", map[string]any{
			"enabled": enabledCount,
			"minimum": settings.WeeklyMinimum,
		})
		response.Success(c, gin.H{"settings": settings, "warning": message})
		return
	}

	response.SuccessI18n(c, "settings.updated", settings)
}
