// Package container assembles the dependency injection container.
package container

import (
	"fmt"

	"routine-guard/internal/alert"
	"routine-guard/internal/app"
	"routine-guard/internal/capability"
	"routine-guard/internal/clock"
	"routine-guard/internal/config"
	"routine-guard/internal/db"
	"routine-guard/internal/handler"
	"routine-guard/internal/httpclient"
	"routine-guard/internal/pipeline"
	"routine-guard/internal/router"
	"routine-guard/internal/services"
	"routine-guard/internal/store"

	"go.uber.org/dig"
	"gorm.io/gorm"
)

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		// Infrastructure
		config.NewSystemSettingsManager,
		config.NewManager,
		store.NewStore,
		db.NewDB,
		clock.New,
		httpclient.NewHTTPClientManager,

		// Detection
		capability.NewStaticProvider,
		newHTTPProvider,
		capability.NewSelector,
		newOrchestrator,

		// Alerts
		newRegistrar,
		newDispatcher,

		// Domain services
		services.NewScheduleService,
		services.NewStreakService,
		newAlarmScheduler,
		services.NewVerificationService,

		// HTTP layer
		handler.NewServer,
		router.NewRouter,
		app.NewApp,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to provide dependency: %w", err)
		}
	}

	return container, nil
}

func newHTTPProvider(settingsManager *config.SystemSettingsManager, clients *httpclient.HTTPClientManager) *capability.HTTPProvider {
	return capability.NewHTTPProvider(settingsManager, clients)
}

func newOrchestrator(selector *capability.Selector, settingsManager *config.SystemSettingsManager) *pipeline.Orchestrator {
	return pipeline.NewOrchestrator(selector, selector, settingsManager)
}

func newRegistrar(s store.Store) alert.Registrar {
	return alert.NewStoreRegistrar(s)
}

func newDispatcher(registrar alert.Registrar, s store.Store, settingsManager *config.SystemSettingsManager, clk clock.Clock) *alert.Dispatcher {
	return alert.NewDispatcher(registrar, s, settingsManager, clk)
}

func newAlarmScheduler(database *gorm.DB, registrar alert.Registrar, settingsManager *config.SystemSettingsManager, clk clock.Clock) *services.AlarmScheduler {
	return services.NewAlarmScheduler(database, registrar, settingsManager, clk)
}
