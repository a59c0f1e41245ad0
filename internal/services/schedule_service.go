// Package services implements the routine domain: schedule configuration,
// the streak engine, alarm scheduling and verification recording.
package services

import (
	"context"
	"fmt"
	"sync"

	"routine-guard/internal/clock"
	"routine-guard/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cutoffMinutes is the hard upper bound for a target time: 10:00.
const cutoffMinutes = 600

const (
	weeklyMinimumFloor   = 4
	weeklyMinimumCeiling = 7
)

var validThemes = map[string]bool{
	"system": true,
	"light":  true,
	"dark":   true,
}

// ScheduleService owns DaySchedule rows and the UserSettings singleton.
// Configuration writes are serialized behind a single writer lock.
type ScheduleService struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewScheduleService creates a schedule service.
func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

// ScheduleUpdate is one weekday's configuration change. Nil fields keep the
// stored value.
type ScheduleUpdate struct {
	Enabled    *bool   `json:"enabled"`
	TargetTime *string `json:"target_time"`
}

// UserSettingsUpdate mutates the settings singleton. Nil fields keep the
// stored value.
type UserSettingsUpdate struct {
	WeeklyMinimum       *int    `json:"weekly_minimum"`
	OnboardingCompleted *bool   `json:"onboarding_completed"`
	Theme               *string `json:"theme"`
}

// EnsureDefaults seeds the seven DaySchedule rows and the UserSettings
// singleton. Safe to call on every startup.
func (s *ScheduleService) EnsureDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules := make([]models.DaySchedule, 0, 7)
	for weekday := 1; weekday <= 7; weekday++ {
		schedules = append(schedules, models.DaySchedule{Weekday: weekday})
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&schedules).Error; err != nil {
		return fmt.Errorf("failed to seed day schedules: %w", err)
	}

	var settings models.UserSettings
	if err := s.db.WithContext(ctx).
		Where(models.UserSettings{ID: 1}).
		Attrs(models.UserSettings{WeeklyMinimum: weeklyMinimumFloor, Theme: "system"}).
		FirstOrCreate(&settings).Error; err != nil {
		return fmt.Errorf("failed to seed user settings: %w", err)
	}
	return nil
}

// ListSchedules returns all seven schedules ordered by weekday.
func (s *ScheduleService) ListSchedules(ctx context.Context) ([]models.DaySchedule, error) {
	var schedules []models.DaySchedule
	if err := s.db.WithContext(ctx).Order("weekday asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule returns one weekday's schedule.
func (s *ScheduleService) GetSchedule(ctx context.Context, weekday int) (*models.DaySchedule, error) {
	if weekday < 1 || weekday > 7 {
		return nil, fmt.Errorf("weekday must be between 1 and 7")
	}
	var schedule models.DaySchedule
	if err := s.db.WithContext(ctx).Where("weekday = ?", weekday).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// UpdateSchedule applies one weekday's change. Target times past the cutoff
// are clamped to 10:00; the returned flag reports whether clamping happened.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, weekday int, update ScheduleUpdate) (*models.DaySchedule, bool, error) {
	if weekday < 1 || weekday > 7 {
		return nil, false, fmt.Errorf("weekday must be between 1 and 7")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var schedule models.DaySchedule
	if err := s.db.WithContext(ctx).Where("weekday = ?", weekday).First(&schedule).Error; err != nil {
		return nil, false, err
	}

	clamped := false
	if update.Enabled != nil {
		schedule.Enabled = *update.Enabled
	}
	if update.TargetTime != nil {
		if *update.TargetTime == "" {
			schedule.TargetTime = nil
		} else {
			minutes, err := clock.ParseMinutes(*update.TargetTime)
			if err != nil {
				return nil, false, err
			}
			if minutes > cutoffMinutes {
				minutes = cutoffMinutes
				clamped = true
			}
			formatted := clock.FormatMinutes(minutes)
			schedule.TargetTime = &formatted
		}
	}

	if err := s.db.WithContext(ctx).Save(&schedule).Error; err != nil {
		return nil, false, err
	}
	return &schedule, clamped, nil
}

// EnabledByWeekday returns the enabled flag for each weekday 1..7.
func (s *ScheduleService) EnabledByWeekday(ctx context.Context) (map[int]bool, error) {
	schedules, err := s.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make(map[int]bool, len(schedules))
	for _, schedule := range schedules {
		enabled[schedule.Weekday] = schedule.Enabled
	}
	return enabled, nil
}

// GetUserSettings returns the settings singleton, creating it if needed.
func (s *ScheduleService) GetUserSettings(ctx context.Context) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := s.db.WithContext(ctx).
		Where(models.UserSettings{ID: 1}).
		Attrs(models.UserSettings{WeeklyMinimum: weeklyMinimumFloor, Theme: "system"}).
		FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateUserSettings applies a settings change. The weekly minimum is always
// clamped into [4,7]; an unknown theme is rejected.
func (s *ScheduleService) UpdateUserSettings(ctx context.Context, update UserSettingsUpdate) (*models.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.getUserSettingsLocked(ctx)
	if err != nil {
		return nil, err
	}

	if update.WeeklyMinimum != nil {
		minimum := *update.WeeklyMinimum
		if minimum < weeklyMinimumFloor {
			minimum = weeklyMinimumFloor
		}
		if minimum > weeklyMinimumCeiling {
			minimum = weeklyMinimumCeiling
		}
		settings.WeeklyMinimum = minimum
	}
	if update.OnboardingCompleted != nil {
		settings.OnboardingCompleted = *update.OnboardingCompleted
	}
	if update.Theme != nil {
		if !validThemes[*update.Theme] {
			return nil, fmt.Errorf("invalid theme %q", *update.Theme)
		}
		settings.Theme = *update.Theme
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *ScheduleService) getUserSettingsLocked(ctx context.Context) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := s.db.WithContext(ctx).
		Where(models.UserSettings{ID: 1}).
		Attrs(models.UserSettings{WeeklyMinimum: weeklyMinimumFloor, Theme: "system"}).
		FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// CheckWeeklyMinimum reports whether the enabled-day count satisfies the
// weekly minimum. A shortfall is a configuration inconsistency: logged and
// surfaced, never fatal, self-healing on the next settings save.
func (s *ScheduleService) CheckWeeklyMinimum(ctx context.Context) (bool, error) {
	settings, err := s.GetUserSettings(ctx)
	if err != nil {
		return false, err
	}
	var enabledCount int64
	if err := s.db.WithContext(ctx).
		Model(&models.DaySchedule{}).
		Where("enabled = ?", true).
		Count(&enabledCount).Error; err != nil {
		return false, err
	}
	if int(enabledCount) < settings.WeeklyMinimum {
		logrus.WithFields(logrus.Fields{
			"enabled_days":   enabledCount,
			"weekly_minimum": settings.WeeklyMinimum,
		}).Warn("Enabled day count is below the weekly minimum")
		return false, nil
	}
	return true, nil
}
