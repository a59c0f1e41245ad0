package handler

import (
	app_errors "routine-guard/internal/errors"
	"routine-guard/internal/i18n"
	"routine-guard/internal/models"
	"routine-guard/internal/response"
	"routine-guard/internal/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetSettings handles GET /api/settings.
// It retrieves all system settings, groups them by category, and returns them.
func (s *Server) GetSettings(c *gin.Context) {
	currentSettings := s.SettingsManager.GetSettings()
	settingsInfo := utils.GenerateSettingsMetadata(&currentSettings)

	// Translate settings info
	for i := range settingsInfo {
		if strings.HasPrefix(settingsInfo[i].Name, "config.") {
			settingsInfo[i].Name = i18n.Message(c, settingsInfo[i].Name)
		}
		if strings.HasPrefix(settingsInfo[i].Description, "config.") {
			settingsInfo[i].Description = i18n.Message(c, settingsInfo[i].Description)
		}
		if strings.HasPrefix(settingsInfo[i].Category, "config.") {
			settingsInfo[i].Category = i18n.Message(c, settingsInfo[i].Category)
		}
	}

	// Group settings by category while preserving order
	categorized := make(map[string][]models.SystemSettingInfo)
	var categoryOrder []string
	for _, info := range settingsInfo {
		if _, exists := categorized[info.Category]; !exists {
			categoryOrder = append(categoryOrder, info.Category)
		}
		categorized[info.Category] = append(categorized[info.Category], info)
	}

	var responseData []models.CategorizedSettings
	for _, categoryName := range categoryOrder {
		responseData = append(responseData, models.CategorizedSettings{
			CategoryName: categoryName,
			Settings:     categorized[categoryName],
		})
	}

	response.Success(c, responseData)
}

// UpdateSettings handles PUT /api/settings. Alarm window tunables may have
// changed, so the alarm space is rebuilt afterwards.
func (s *Server) UpdateSettings(c *gin.Context) {
	var settingsMap map[string]any
	if err := c.ShouldBindJSON(&settingsMap); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	if len(settingsMap) == 0 {
		response.Success(c, nil)
		return
	}

	if err := s.SettingsManager.UpdateSettings(settingsMap); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrValidation, err.Error()))
		return
	}

	if _, _, err := s.AlarmScheduler.RescheduleAll(c.Request.Context()); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInternalServer, err.Error()))
		return
	}

	response.SuccessI18n(c, "settings.updated", nil)
}
