package locales

// MessagesEnUS English (US) translations
var MessagesEnUS = map[string]string{
	// Common messages
	"success":        "Operation successful",
	"common.success": "Success",
	"error":          "Operation failed",
	"unauthorized":   "Unauthorized",
	"forbidden":      "Forbidden",
	"not_found":      "Not found",
	"bad_request":    "Bad request",
	"internal_error": "Internal error",
	"invalid_param":  "Invalid parameter",

	// Authentication related
	"auth.invalid_key":   "Invalid authorization key",
	"auth.key_required":  "Authorization key required",
	"auth.login_success": "Login successful",

	// Schedule related
	"schedule.updated":       "Schedule updated successfully",
	"schedule.not_found":     "Schedule not found",
	"schedule.time_clamped":  "Target time was moved earlier to {{.time}}",
	"schedule.below_minimum": "Only {{.enabled}} days are enabled, below your weekly minimum of {{.minimum}}",

	// Settings related
	"settings.updated": "Settings updated successfully",
	"settings.reset":   "Settings reset",

	// Streak related
	"streak.reset":    "Streak has been reset",
	"streak.credited": "Morning routine credited",

	// Alarm related
	"alarm.rescheduled":     "Alarms rescheduled",
	"alarm.cancelled_today": "Today's backup alarms cancelled",
	"alarm.none_upcoming":   "No upcoming alarm",

	// Verification outcomes
	"verify.pass":     "Verified! Nice brushing.",
	"verify.degraded": "Verified with reduced precision",
	"verify.fail.subject_not_detected": "We couldn't see you in the photo. Make sure your face is visible and try again.",
	"verify.fail.subject_too_small":    "Move closer to the camera so your face fills more of the frame.",
	"verify.fail.multiple_subjects":    "More than one person detected. Retake the photo with only yourself in frame.",
	"verify.fail.object_not_detected":  "We couldn't spot your toothbrush. Hold it up where the camera can see it.",
	"verify.fail.object_not_at_target": "Hold the toothbrush up to your mouth and try again.",

	// Validation related
	"validation.invalid_weekday":     "Invalid weekday. Must be between 1 (Monday) and 7 (Sunday)",
	"validation.invalid_time_format": "Invalid time format. Expected HH:MM",
	"validation.invalid_theme":       "Invalid theme value",
	"validation.capture_required":    "A capture payload is required",

	// System settings metadata
	"config.category.basic":        "Basic",
	"config.category.alarm":        "Alarm Window",
	"config.category.verification": "Verification",

	"config.app_url":      "Application URL",
	"config.app_url_desc": "Externally visible base URL of this service",

	"config.alarm_cutoff_minutes":          "Daily cutoff",
	"config.alarm_cutoff_minutes_desc":     "Minute of day after which no alarm may fire (600 = 10:00)",
	"config.backup_cadence_minutes":        "Backup cadence",
	"config.backup_cadence_minutes_desc":   "Minutes between backup alarms after the primary",
	"config.backup_window_minutes":         "Backup window",
	"config.backup_window_minutes_desc":    "How long after the primary alarm backups keep firing",
	"config.dispatch_interval_seconds":     "Dispatch interval",
	"config.dispatch_interval_seconds_desc": "How often the dispatcher scans for due alarms",

	"config.subject_min_area_ratio":      "Minimum subject size",
	"config.subject_min_area_ratio_desc": "Smallest fraction of the image the subject may occupy",

	"config.detector_base_url":           "Detector base URL",
	"config.detector_base_url_desc":      "External detection endpoint; empty means inline detections only",
	"config.detector_timeout_seconds":    "Detector timeout",
	"config.detector_timeout_seconds_desc": "Per-request timeout for the detection endpoint",
}
