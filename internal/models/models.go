// Package models defines the persistent entities of the routine service.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Verification result constants
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// SystemSetting corresponds to the system_settings table.
type SystemSetting struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string    `gorm:"type:varchar(255);not null;unique" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null" json:"setting_value"`
	Description  string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DaySchedule is the per-weekday routine configuration. Exactly seven rows
// exist after first launch, keyed by ISO weekday (1=Monday .. 7=Sunday).
// An enabled day without a target time contributes no alarm.
type DaySchedule struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Weekday    int       `gorm:"not null;uniqueIndex" json:"weekday"`
	Enabled    bool      `gorm:"not null;default:false" json:"enabled"`
	TargetTime *string   `gorm:"type:varchar(5)" json:"target_time"` // "HH:MM", at most "10:00"
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserSettings is a singleton row of user preferences.
type UserSettings struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WeeklyMinimum       int       `gorm:"not null;default:4" json:"weekly_minimum"` // clamped into [4,7]
	OnboardingCompleted bool      `gorm:"not null;default:false" json:"onboarding_completed"`
	Theme               string    `gorm:"type:varchar(32);not null;default:'system'" json:"theme"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// StreakData is a singleton row holding the streak counters. Only the streak
// service mutates it.
type StreakData struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CurrentStreak        int       `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak        int       `gorm:"not null;default:0" json:"longest_streak"`
	LastVerificationDate *string   `gorm:"type:varchar(10)" json:"last_verification_date"` // "2006-01-02"
	TotalVerifications   int       `gorm:"not null;default:0" json:"total_verifications"`
	LastStreakResetDate  *string   `gorm:"type:varchar(10)" json:"last_streak_reset_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Verification is an append-only record of one pipeline run that produced an
// outcome. Cancelled captures never become rows.
type Verification struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     string            `gorm:"type:varchar(36);not null;index" json:"session_id"`
	Date          string            `gorm:"type:varchar(10);not null;index" json:"date"`
	WasAlarmDay   bool              `gorm:"not null" json:"was_alarm_day"`
	Result        string            `gorm:"type:varchar(10);not null" json:"result"` // pass or fail
	FailureReason *string           `gorm:"type:varchar(40)" json:"failure_reason"`
	AttemptCount  int               `gorm:"not null;default:1" json:"attempt_count"`
	Confidence    float64           `gorm:"not null;default:0" json:"confidence"`
	Degraded      bool              `gorm:"not null;default:false" json:"degraded"`
	Details       datatypes.JSONMap `gorm:"type:json" json:"details,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
