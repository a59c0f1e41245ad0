// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"routine-guard/internal/alert"
	"routine-guard/internal/config"
	"routine-guard/internal/httpclient"
	"routine-guard/internal/i18n"
	"routine-guard/internal/models"
	"routine-guard/internal/services"
	"routine-guard/internal/store"
	"routine-guard/internal/types"
	"routine-guard/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine            *gin.Engine
	configManager     types.ConfigManager
	settingsManager   *config.SystemSettingsManager
	scheduleService   *services.ScheduleService
	alarmScheduler    *services.AlarmScheduler
	dispatcher        *alert.Dispatcher
	httpClientManager *httpclient.HTTPClientManager
	storage           store.Store
	db                *gorm.DB
	httpServer        *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine            *gin.Engine
	ConfigManager     types.ConfigManager
	SettingsManager   *config.SystemSettingsManager
	ScheduleService   *services.ScheduleService
	AlarmScheduler    *services.AlarmScheduler
	Dispatcher        *alert.Dispatcher
	HTTPClientManager *httpclient.HTTPClientManager
	Storage           store.Store
	DB                *gorm.DB
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:            params.Engine,
		configManager:     params.ConfigManager,
		settingsManager:   params.SettingsManager,
		scheduleService:   params.ScheduleService,
		alarmScheduler:    params.AlarmScheduler,
		dispatcher:        params.Dispatcher,
		httpClientManager: params.HTTPClientManager,
		storage:           params.Storage,
		db:                params.DB,
	}
}

// Start runs the application, it is a non-blocking call.
func (a *App) Start() error {
	// Initialize i18n
	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}
	logrus.Info("i18n initialized successfully.")

	// Database migration
	if err := a.db.AutoMigrate(
		&models.SystemSetting{},
		&models.DaySchedule{},
		&models.UserSettings{},
		&models.StreakData{},
		&models.Verification{},
	); err != nil {
		return fmt.Errorf("database auto-migration failed: %w", err)
	}
	logrus.Info("Database auto-migration completed.")

	// Load runtime settings from the database and subscribe to changes
	if err := a.settingsManager.Initialize(a.db, a.storage); err != nil {
		return fmt.Errorf("failed to initialize system settings: %w", err)
	}
	logrus.Info("System settings initialized in DB.")

	// Seed the seven weekday rows and the user settings singleton
	if err := a.scheduleService.EnsureDefaults(context.Background()); err != nil {
		return fmt.Errorf("failed to seed default schedules: %w", err)
	}

	// Rebuild the alarm space from whatever is currently enabled
	total, dayErrors, err := a.alarmScheduler.RescheduleAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to schedule alarms: %w", err)
	}
	if len(dayErrors) > 0 {
		logrus.WithField("day_errors", dayErrors).Warn("Some days failed to schedule at startup")
	}
	logrus.Infof("Registered %d alarm(s) at startup.", total)

	a.dispatcher.Start()

	// Display configuration and start the HTTP server
	a.configManager.DisplayServerConfig()
	a.settingsManager.DisplaySystemConfig(a.settingsManager.GetSettings())

	serverConfig := a.configManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Infof("Routine Guard %s started on http://%s:%d", version.Version, serverConfig.Host, serverConfig.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the application.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	serverConfig := a.configManager.GetEffectiveServerConfig()
	totalTimeout := time.Duration(serverConfig.GracefulShutdownTimeout) * time.Second

	// Reserve time after HTTP shutdown for the background services
	httpShutdownTimeout := totalTimeout - 5*time.Second
	httpShutdownCtx, cancelHTTPShutdown := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancelHTTPShutdown()

	httpShutdownStart := time.Now()
	if err := a.httpServer.Shutdown(httpShutdownCtx); err != nil {
		logrus.Debug("HTTP server graceful shutdown timed out, forcing remaining connections to close.")
		if closeErr := a.httpServer.Close(); closeErr != nil {
			logrus.Errorf("Error forcing HTTP server to close: %v", closeErr)
		}
	}
	logrus.Infof("HTTP server has been shut down. (took %v)", time.Since(httpShutdownStart))

	stoppableServices := []func(context.Context){
		a.dispatcher.Stop,
	}

	var wg sync.WaitGroup
	wg.Add(len(stoppableServices))
	for _, stopFunc := range stoppableServices {
		go func(stop func(context.Context)) {
			defer wg.Done()
			stop(ctx)
		}(stopFunc)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logrus.Info("All background services stopped.")
	case <-ctx.Done():
		logrus.Warn("Shutdown timed out, some services may not have stopped gracefully.")
	}

	if err := a.settingsManager.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close settings subscription")
	}

	// Close idle HTTP connections for all managed clients to free resources
	if a.httpClientManager != nil {
		a.httpClientManager.CloseIdleConnections()
	}

	// Close storage and database connections in parallel for faster shutdown
	var dbWg sync.WaitGroup

	if a.storage != nil {
		dbWg.Add(1)
		go func() {
			defer dbWg.Done()
			if err := a.storage.Close(); err != nil {
				logrus.WithError(err).Warn("Error closing storage")
			}
		}()
	}

	if a.db != nil {
		dbWg.Add(1)
		go func() {
			defer dbWg.Done()
			closeDBConnection(a.db, "Main database")
		}()
	}

	dbWg.Wait()
	logrus.Info("Server exited gracefully")
}

// closeDBConnection gracefully closes a GORM database connection with timeout.
// It first closes the prepared statement cache, then forces idle connections
// to close, and finally closes the pool without hanging on stuck connections.
func closeDBConnection(gormDB *gorm.DB, name string) {
	closeDBConnectionWithOptions(gormDB, name, true)
}

// closeDBConnectionWithOptions closes a database connection. doCheckpoint is
// accepted for write connections; the WAL checkpoint itself is skipped on
// shutdown since SQLite replays the WAL on the next open.
func closeDBConnectionWithOptions(gormDB *gorm.DB, name string, doCheckpoint bool) {
	if gormDB == nil {
		return
	}

	if stmtManager, ok := gormDB.ConnPool.(*gorm.PreparedStmtDB); ok {
		stmtManager.Close()
		logrus.Debugf("[%s] Prepared statement cache closed.", name)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logrus.Errorf("Error getting sql.DB for %s: %v", name, err)
		return
	}

	stats := sqlDB.Stats()
	logrus.Debugf("[%s] Connection pool stats: Open=%d, InUse=%d, Idle=%d",
		name, stats.OpenConnections, stats.InUse, stats.Idle)

	if gormDB.Dialector.Name() == "sqlite" && doCheckpoint {
		logrus.Debugf("[%s] Skipping WAL checkpoint on shutdown (checkpointed on next startup)", name)
	}

	// Force idle connections to close immediately
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			logrus.Errorf("[%s] Error closing connection: %v", name, err)
		} else {
			logrus.Debugf("[%s] Connection closed successfully.", name)
		}
	case <-time.After(1 * time.Second):
		logrus.Warnf("[%s] Connection close timed out after 1s, proceeding anyway", name)
	}
}
