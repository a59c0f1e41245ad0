package services

import (
	"context"
	"testing"
	"time"

	"routine-guard/internal/clock"
	"routine-guard/internal/models"
	"routine-guard/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testSettings struct{}

func (testSettings) GetSettings() types.SystemSettings {
	return types.SystemSettings{
		AlarmCutoffMinutes:      600,
		BackupCadenceMinutes:    3,
		BackupWindowMinutes:     120,
		DispatchIntervalSeconds: 30,
		SubjectMinAreaRatio:     0.15,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.DaySchedule{},
		&models.UserSettings{},
		&models.StreakData{},
		&models.Verification{},
	))
	return db
}

func seededScheduleService(t *testing.T, db *gorm.DB) *ScheduleService {
	t.Helper()
	service := NewScheduleService(db)
	require.NoError(t, service.EnsureDefaults(context.Background()))
	return service
}

// mondayMorning is a Monday at 07:00 UTC, a convenient base for clock fakes.
func mondayMorning() time.Time {
	return time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
}

func enableDay(t *testing.T, service *ScheduleService, weekday int, targetTime string) {
	t.Helper()
	enabled := true
	update := ScheduleUpdate{Enabled: &enabled}
	if targetTime != "" {
		update.TargetTime = &targetTime
	}
	_, _, err := service.UpdateSchedule(context.Background(), weekday, update)
	require.NoError(t, err)
}

func fakeClockAt(t time.Time) *clock.Fake {
	return &clock.Fake{Current: t}
}
