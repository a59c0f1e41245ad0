package handler

import (
	"context"
	"testing"
	"time"

	"routine-guard/internal/alert"
	"routine-guard/internal/capability"
	"routine-guard/internal/clock"
	"routine-guard/internal/config"
	"routine-guard/internal/i18n"
	"routine-guard/internal/models"
	"routine-guard/internal/pipeline"
	"routine-guard/internal/services"
	"routine-guard/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing (pure Go, no CGO)
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SystemSetting{},
		&models.DaySchedule{},
		&models.UserSettings{},
		&models.StreakData{},
		&models.Verification{},
	)
	require.NoError(t, err)

	return db
}

// setupTestServer creates a test server with a full in-memory service stack.
// The clock is fixed at a Monday morning so schedule math is deterministic.
func setupTestServer(t *testing.T) (*Server, *clock.Fake, alert.Registrar) {
	t.Helper()

	require.NoError(t, i18n.Init())

	db := setupTestDB(t)
	memStore := store.NewMemoryStore()
	t.Cleanup(func() { memStore.Close() })

	mockConfig := &config.MockConfig{
		AuthKeyValue: "test-auth-key-12345678",
	}
	settingsManager := config.NewSystemSettingsManager()
	require.NoError(t, settingsManager.Initialize(db, memStore))
	t.Cleanup(func() { settingsManager.Close() })

	clk := &clock.Fake{Current: time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)}
	registrar := alert.NewStoreRegistrar(memStore)

	provider := capability.NewStaticProvider()
	orchestrator := pipeline.NewOrchestrator(provider, provider, settingsManager)

	scheduleService := services.NewScheduleService(db)
	require.NoError(t, scheduleService.EnsureDefaults(context.Background()))

	streakService := services.NewStreakService(db, memStore, scheduleService, clk)
	alarmScheduler := services.NewAlarmScheduler(db, registrar, settingsManager, clk)
	verificationService := services.NewVerificationService(db, orchestrator, streakService, alarmScheduler, scheduleService, clk)

	server := &Server{
		DB:                  db,
		config:              mockConfig,
		SettingsManager:     settingsManager,
		ScheduleService:     scheduleService,
		StreakService:       streakService,
		AlarmScheduler:      alarmScheduler,
		VerificationService: verificationService,
	}
	return server, clk, registrar
}
