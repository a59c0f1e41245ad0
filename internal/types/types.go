package types

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	IsMaster() bool
	GetAuthConfig() AuthConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetLogConfig() LogConfig
	GetDatabaseConfig() DatabaseConfig
	GetEffectiveServerConfig() ServerConfig
	GetRedisDSN() string
	IsDebugMode() bool
	Validate() error
	DisplayServerConfig()
	ReloadConfig() error
}

// SystemSettings defines all runtime-tunable settings persisted in the database.
// Defaults mirror the product rules for the morning window: a 10:00 hard
// cutoff, a 3-minute backup cadence and a 2-hour relentless window.
type SystemSettings struct {
	// Basic
	AppUrl string `json:"app_url" default:"http://localhost:3001" name:"config.app_url" category:"config.category.basic" desc:"config.app_url_desc" validate:"required"`

	// Alarm window
	AlarmCutoffMinutes   int `json:"alarm_cutoff_minutes" default:"600" name:"config.alarm_cutoff_minutes" category:"config.category.alarm" desc:"config.alarm_cutoff_minutes_desc" validate:"required,min=1,max=1439"`
	BackupCadenceMinutes int `json:"backup_cadence_minutes" default:"3" name:"config.backup_cadence_minutes" category:"config.category.alarm" desc:"config.backup_cadence_minutes_desc" validate:"required,min=1,max=60"`
	BackupWindowMinutes  int `json:"backup_window_minutes" default:"120" name:"config.backup_window_minutes" category:"config.category.alarm" desc:"config.backup_window_minutes_desc" validate:"required,min=0,max=720"`

	// Alert dispatch
	DispatchIntervalSeconds int `json:"dispatch_interval_seconds" default:"30" name:"config.dispatch_interval_seconds" category:"config.category.alarm" desc:"config.dispatch_interval_seconds_desc" validate:"required,min=5,max=600"`

	// Verification pipeline
	SubjectMinAreaRatio float64 `json:"subject_min_area_ratio" default:"0.15" name:"config.subject_min_area_ratio" category:"config.category.verification" desc:"config.subject_min_area_ratio_desc" validate:"required,min=0,max=1"`

	// Detection capability
	DetectorBaseURL        string `json:"detector_base_url" name:"config.detector_base_url" category:"config.category.verification" desc:"config.detector_base_url_desc"`
	DetectorTimeoutSeconds int    `json:"detector_timeout_seconds" default:"20" name:"config.detector_timeout_seconds" category:"config.category.verification" desc:"config.detector_timeout_seconds_desc" validate:"required,min=1,max=120"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	IsMaster                bool   `json:"is_master"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Key string `json:"key"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN string `json:"dsn"`
}
