// Package config provides configuration management for the application.
// Environment configuration is loaded once at startup; runtime tunables live
// in the database behind SystemSettingsManager.
package config

import (
	"fmt"
	"strings"
	"sync"

	"routine-guard/internal/types"
	"routine-guard/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants holds configuration boundary values.
type Constants struct {
	MinPort               int
	MaxPort               int
	MinTimeout            int
	DefaultTimeout        int
	DefaultMaxSockets     int
	DefaultMaxFreeSockets int
}

// DefaultConstants provides default configuration constants.
var DefaultConstants = Constants{
	MinPort:               1,
	MaxPort:               65535,
	MinTimeout:            1,
	DefaultTimeout:        30,
	DefaultMaxSockets:     50,
	DefaultMaxFreeSockets: 10,
}

// Manager implements types.ConfigManager on top of environment variables.
type Manager struct {
	mu              sync.RWMutex
	settingsManager *SystemSettingsManager

	isMaster     bool
	debugMode    bool
	redisDSN     string
	serverConfig types.ServerConfig
	authConfig   types.AuthConfig
	corsConfig   types.CORSConfig
	perfConfig   types.PerformanceConfig
	logConfig    types.LogConfig
	dbConfig     types.DatabaseConfig
}

// NewManager creates a configuration manager and loads the environment.
func NewManager(settingsManager *SystemSettingsManager) (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	manager := &Manager{settingsManager: settingsManager}
	if err := manager.ReloadConfig(); err != nil {
		return nil, err
	}

	return manager, nil
}

// ReloadConfig re-reads the environment and validates the result.
func (m *Manager) ReloadConfig() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	serverConfig := types.ServerConfig{
		Port:                    utils.ParseInteger(utils.GetEnvOrDefault("PORT", "3001"), 3001),
		Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
		IsMaster:                !utils.ParseBoolean(utils.GetEnvOrDefault("IS_SLAVE", "false"), false),
		ReadTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_READ_TIMEOUT", "60"), 60),
		WriteTimeout:            utils.ParseInteger(utils.GetEnvOrDefault("SERVER_WRITE_TIMEOUT", "600"), 600),
		IdleTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_IDLE_TIMEOUT", "120"), 120),
		GracefulShutdownTimeout: utils.ParseInteger(utils.GetEnvOrDefault("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", "10"), 10),
	}
	if serverConfig.GracefulShutdownTimeout < 10 {
		serverConfig.GracefulShutdownTimeout = 10
	}

	config := struct {
		server types.ServerConfig
		auth   types.AuthConfig
		cors   types.CORSConfig
		perf   types.PerformanceConfig
		log    types.LogConfig
		db     types.DatabaseConfig
	}{
		server: serverConfig,
		auth: types.AuthConfig{
			Key: utils.GetEnvOrDefault("AUTH_KEY", ""),
		},
		cors: types.CORSConfig{
			Enabled:          utils.ParseBoolean(utils.GetEnvOrDefault("ENABLE_CORS", "false"), false),
			AllowedOrigins:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_ORIGINS", ""), ","),
			AllowedMethods:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"), ","),
			AllowedHeaders:   utils.SplitAndTrim(utils.GetEnvOrDefault("ALLOWED_HEADERS", "*"), ","),
			AllowCredentials: utils.ParseBoolean(utils.GetEnvOrDefault("ALLOW_CREDENTIALS", "false"), false),
		},
		perf: types.PerformanceConfig{
			MaxConcurrentRequests: utils.ParseInteger(utils.GetEnvOrDefault("MAX_CONCURRENT_REQUESTS", "100"), 100),
		},
		log: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean(utils.GetEnvOrDefault("LOG_ENABLE_FILE", "false"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		db: types.DatabaseConfig{
			DSN: utils.GetEnvOrDefault("DATABASE_DSN", "./data/routine-guard.db"),
		},
	}

	if err := validateConfig(config.server, config.auth, config.cors, config.perf); err != nil {
		return err
	}

	m.serverConfig = config.server
	m.authConfig = config.auth
	m.corsConfig = config.cors
	m.perfConfig = config.perf
	m.logConfig = config.log
	m.dbConfig = config.db
	m.redisDSN = utils.GetEnvOrDefault("REDIS_DSN", "")
	m.debugMode = utils.ParseBoolean(utils.GetEnvOrDefault("DEBUG_MODE", "false"), false)
	m.isMaster = config.server.IsMaster

	return nil
}

// validateConfig checks the loaded configuration and aggregates all problems.
func validateConfig(server types.ServerConfig, auth types.AuthConfig, cors types.CORSConfig, perf types.PerformanceConfig) error {
	var errs []string

	if server.Port < DefaultConstants.MinPort || server.Port > DefaultConstants.MaxPort {
		errs = append(errs, fmt.Sprintf("port must be between %d and %d", DefaultConstants.MinPort, DefaultConstants.MaxPort))
	}

	if auth.Key == "" {
		errs = append(errs, "AUTH_KEY is required")
	} else if len(auth.Key) < 16 {
		logrus.Warn("AUTH_KEY is shorter than 16 characters; consider a stronger key")
	}

	if perf.MaxConcurrentRequests < 1 {
		errs = append(errs, "max concurrent requests cannot be less than 1")
	}

	if cors.Enabled {
		if len(cors.AllowedOrigins) == 0 {
			errs = append(errs, "ALLOWED_ORIGINS is required when CORS is enabled")
		} else {
			for _, origin := range cors.AllowedOrigins {
				if origin == "*" {
					logrus.Warn("CORS allows all origins; restrict ALLOWED_ORIGINS in production")
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate re-checks the currently loaded configuration.
func (m *Manager) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return validateConfig(m.serverConfig, m.authConfig, m.corsConfig, m.perfConfig)
}

// IsMaster returns whether this instance is the master.
func (m *Manager) IsMaster() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isMaster
}

// IsDebugMode returns whether debug mode is enabled.
func (m *Manager) IsDebugMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.debugMode
}

// GetAuthConfig returns the authentication configuration.
func (m *Manager) GetAuthConfig() types.AuthConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authConfig
}

// GetCORSConfig returns the CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.corsConfig
}

// GetPerformanceConfig returns the performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perfConfig
}

// GetLogConfig returns the logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logConfig
}

// GetDatabaseConfig returns the database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dbConfig
}

// GetRedisDSN returns the Redis DSN, empty when the memory store is used.
func (m *Manager) GetRedisDSN() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.redisDSN
}

// GetEffectiveServerConfig returns the server configuration.
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.serverConfig
}

// DisplayServerConfig logs a startup summary of the server configuration.
func (m *Manager) DisplayServerConfig() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	storeType := "memory"
	if m.redisDSN != "" {
		storeType = "redis"
	}

	logrus.Info("Server configuration:")
	logrus.Infof("  Listen: %s:%d", m.serverConfig.Host, m.serverConfig.Port)
	logrus.Infof("  Role: master=%v", m.isMaster)
	logrus.Infof("  Timeouts: read=%ds write=%ds idle=%ds shutdown=%ds",
		m.serverConfig.ReadTimeout, m.serverConfig.WriteTimeout,
		m.serverConfig.IdleTimeout, m.serverConfig.GracefulShutdownTimeout)
	logrus.Infof("  Store: %s", storeType)
	logrus.Infof("  Database: %s", m.dbConfig.DSN)
	logrus.Infof("  CORS enabled: %v", m.corsConfig.Enabled)
	logrus.Infof("  Log: level=%s format=%s file=%v", m.logConfig.Level, m.logConfig.Format, m.logConfig.EnableFile)
}
