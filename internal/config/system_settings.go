package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"routine-guard/internal/models"
	"routine-guard/internal/store"
	"routine-guard/internal/types"
	"routine-guard/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsUpdateChannel is the store channel notified after settings change.
const SettingsUpdateChannel = "routine:settings:changed"

// SystemSettingsManager manages DB-backed runtime settings with an in-memory
// cache. Other instances are told about changes through the store's pub/sub
// channel.
type SystemSettingsManager struct {
	mu       sync.RWMutex
	settings types.SystemSettings
	db       *gorm.DB
	store    store.Store
	sub      store.Subscription
	loaded   bool
}

// NewSystemSettingsManager creates a new system settings manager.
func NewSystemSettingsManager() *SystemSettingsManager {
	return &SystemSettingsManager{
		settings: utils.DefaultSystemSettings(),
	}
}

// Initialize attaches persistence, seeds missing rows, loads the cache and
// subscribes to change notifications.
func (sm *SystemSettingsManager) Initialize(db *gorm.DB, s store.Store) error {
	sm.mu.Lock()
	sm.db = db
	sm.store = s
	sm.mu.Unlock()

	if err := sm.ensurePersisted(); err != nil {
		return fmt.Errorf("failed to seed system settings: %w", err)
	}
	if err := sm.ReloadSettings(); err != nil {
		return err
	}

	sub, err := s.Subscribe(SettingsUpdateChannel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to settings channel: %w", err)
	}
	sm.sub = sub

	go func() {
		for range sub.Channel() {
			if err := sm.ReloadSettings(); err != nil {
				logrus.WithError(err).Error("Failed to reload system settings")
			} else {
				logrus.Debug("System settings reloaded after change notification")
			}
		}
	}()

	return nil
}

// Close stops the change-notification subscription.
func (sm *SystemSettingsManager) Close() error {
	if sm.sub != nil {
		return sm.sub.Close()
	}
	return nil
}

// GetSettings returns the current settings snapshot. Defaults are returned
// when the manager has not been initialized with a database.
func (sm *SystemSettingsManager) GetSettings() types.SystemSettings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.settings
}

// GetAppUrl returns the externally visible application URL.
func (sm *SystemSettingsManager) GetAppUrl() string {
	settings := sm.GetSettings()
	if settings.AppUrl != "" {
		return settings.AppUrl
	}

	host := utils.GetEnvOrDefault("HOST", "localhost")
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	port := utils.GetEnvOrDefault("PORT", "3001")
	return fmt.Sprintf("http://%s:%s", host, port)
}

// ensurePersisted inserts any missing setting rows with their defaults.
func (sm *SystemSettingsManager) ensurePersisted() error {
	defaults := utils.DefaultSystemSettings()
	defaultsMap, err := settingsToMap(&defaults)
	if err != nil {
		return err
	}

	var rows []models.SystemSetting
	for key, value := range defaultsMap {
		rows = append(rows, models.SystemSetting{
			SettingKey:   key,
			SettingValue: value,
		})
	}

	return sm.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// ReloadSettings refreshes the cache from the database.
func (sm *SystemSettingsManager) ReloadSettings() error {
	var rows []models.SystemSetting
	if err := sm.db.Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to load system settings: %w", err)
	}

	settingsMap := make(map[string]any, len(rows))
	for _, row := range rows {
		settingsMap[row.SettingKey] = row.SettingValue
	}

	settings := utils.DefaultSystemSettings()
	if err := applySettingsMap(&settings, settingsMap); err != nil {
		return err
	}

	sm.mu.Lock()
	sm.settings = settings
	sm.loaded = true
	sm.mu.Unlock()

	return nil
}

// ValidateSettings checks a partial settings update against the struct tags.
func (sm *SystemSettingsManager) ValidateSettings(updates map[string]any) error {
	fields := settingFieldsByKey()

	for key, value := range updates {
		if value == nil {
			continue
		}

		field, ok := fields[key]
		if !ok {
			return fmt.Errorf("invalid setting key '%s'", key)
		}

		if err := validateSettingValue(field, key, value); err != nil {
			return err
		}
	}

	return nil
}

// UpdateSettings validates, persists and broadcasts a partial settings update.
func (sm *SystemSettingsManager) UpdateSettings(updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	if err := sm.ValidateSettings(updates); err != nil {
		return err
	}

	err := sm.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range updates {
			if value == nil {
				continue
			}
			serialized, err := serializeSettingValue(value)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.SystemSetting{}).
				Where("setting_key = ?", key).
				Update("setting_value", serialized).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := sm.ReloadSettings(); err != nil {
		return err
	}

	if sm.store != nil {
		if err := sm.store.Publish(SettingsUpdateChannel, []byte("updated")); err != nil {
			logrus.WithError(err).Warn("Failed to publish settings change notification")
		}
	}

	return nil
}

// DisplaySystemConfig logs a summary of the runtime settings.
func (sm *SystemSettingsManager) DisplaySystemConfig(settings types.SystemSettings) {
	logrus.Info("System settings:")
	logrus.Infof("  Alarm cutoff: %s", formatMinutesOfDay(settings.AlarmCutoffMinutes))
	logrus.Infof("  Backup cadence: %d min, window: %d min", settings.BackupCadenceMinutes, settings.BackupWindowMinutes)
	logrus.Infof("  Dispatch interval: %ds", settings.DispatchIntervalSeconds)
	logrus.Infof("  Subject min area ratio: %.2f", settings.SubjectMinAreaRatio)
	if settings.DetectorBaseURL != "" {
		logrus.Infof("  Detector: %s (timeout %ds)", settings.DetectorBaseURL, settings.DetectorTimeoutSeconds)
	} else {
		logrus.Info("  Detector: inline detections only")
	}
}

func formatMinutesOfDay(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// --- reflection helpers ---

// settingFieldsByKey maps json keys to SystemSettings struct fields.
func settingFieldsByKey() map[string]reflect.StructField {
	t := reflect.TypeOf(types.SystemSettings{})
	fields := make(map[string]reflect.StructField, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := field.Tag.Get("json")
		if key == "" || key == "-" {
			continue
		}
		fields[key] = field
	}
	return fields
}

// validateSettingValue checks a single value against the field type and the
// min/max/required validate tag rules.
func validateSettingValue(field reflect.StructField, key string, value any) error {
	rules := parseValidateTag(field.Tag.Get("validate"))

	switch field.Type.Kind() {
	case reflect.Int:
		num, ok := value.(float64)
		if !ok {
			return fmt.Errorf("setting '%s': expected a number", key)
		}
		if num != float64(int64(num)) {
			return fmt.Errorf("setting '%s': must be an integer", key)
		}
		if rules.hasMin && int(num) < rules.min {
			return fmt.Errorf("setting '%s': value %d is below minimum value %d", key, int(num), rules.min)
		}
		if rules.hasMax && int(num) > rules.max {
			return fmt.Errorf("setting '%s': value %d is above maximum value %d", key, int(num), rules.max)
		}
	case reflect.Float64:
		num, ok := value.(float64)
		if !ok {
			return fmt.Errorf("setting '%s': expected a number", key)
		}
		if rules.hasMin && num < float64(rules.min) {
			return fmt.Errorf("setting '%s': value %v is below minimum value %d", key, num, rules.min)
		}
		if rules.hasMax && num > float64(rules.max) {
			return fmt.Errorf("setting '%s': value %v is above maximum value %d", key, num, rules.max)
		}
	case reflect.Bool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("setting '%s': expected a boolean", key)
		}
	case reflect.String:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("setting '%s': expected a string", key)
		}
		if rules.required && strings.TrimSpace(str) == "" {
			return fmt.Errorf("setting '%s': is required", key)
		}
	}

	return nil
}

type validateRules struct {
	required bool
	hasMin   bool
	min      int
	hasMax   bool
	max      int
}

func parseValidateTag(tag string) validateRules {
	var rules validateRules
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "required":
			rules.required = true
		case strings.HasPrefix(part, "min="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "min=")); err == nil {
				rules.hasMin = true
				rules.min = n
			}
		case strings.HasPrefix(part, "max="):
			if n, err := strconv.Atoi(strings.TrimPrefix(part, "max=")); err == nil {
				rules.hasMax = true
				rules.max = n
			}
		}
	}
	return rules
}

// settingsToMap serializes a SystemSettings into json-key → string-value form.
func settingsToMap(settings *types.SystemSettings) (map[string]string, error) {
	v := reflect.ValueOf(*settings)
	t := v.Type()

	result := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("json")
		if key == "" || key == "-" {
			continue
		}
		serialized, err := serializeSettingValue(v.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		result[key] = serialized
	}
	return result, nil
}

func serializeSettingValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// applySettingsMap copies stored string values onto the settings struct.
func applySettingsMap(settings *types.SystemSettings, values map[string]any) error {
	v := reflect.ValueOf(settings).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("json")
		raw, ok := values[key]
		if !ok {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(str)
		case reflect.Int:
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				fv.SetInt(n)
			} else {
				logrus.Warnf("Ignoring malformed value for setting '%s': %s", key, str)
			}
		case reflect.Float64:
			if f, err := strconv.ParseFloat(str, 64); err == nil {
				fv.SetFloat(f)
			} else {
				logrus.Warnf("Ignoring malformed value for setting '%s': %s", key, str)
			}
		case reflect.Bool:
			if b, err := strconv.ParseBool(str); err == nil {
				fv.SetBool(b)
			} else {
				logrus.Warnf("Ignoring malformed value for setting '%s': %s", key, str)
			}
		}
	}

	return nil
}
