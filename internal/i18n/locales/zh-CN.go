package locales

// MessagesZhCN Chinese (Simplified) translations
var MessagesZhCN = map[string]string{
	// Common messages
	"success":        "操作成功",
	"common.success": "成功",
	"error":          "操作失败",
	"unauthorized":   "未授权",
	"forbidden":      "禁止访问",
	"not_found":      "未找到",
	"bad_request":    "请求错误",
	"internal_error": "内部错误",
	"invalid_param":  "参数无效",

	// Authentication related
	"auth.invalid_key":   "无效的授权密钥",
	"auth.key_required":  "需要授权密钥",
	"auth.login_success": "登录成功",

	// Schedule related
	"schedule.updated":       "日程更新成功",
	"schedule.not_found":     "未找到日程",
	"schedule.time_clamped":  "目标时间已提前至 {{.time}}",
	"schedule.below_minimum": "仅启用了 {{.enabled}} 天，低于每周最少 {{.minimum}} 天的要求",

	// Settings related
	"settings.updated": "设置更新成功",
	"settings.reset":   "设置已重置",

	// Streak related
	"streak.reset":    "连续记录已重置",
	"streak.credited": "晨间打卡成功",

	// Alarm related
	"alarm.rescheduled":     "闹钟已重新安排",
	"alarm.cancelled_today": "已取消今天的后备闹钟",
	"alarm.none_upcoming":   "没有即将到来的闹钟",

	// Verification outcomes
	"verify.pass":     "验证通过！刷牙棒棒哒。",
	"verify.degraded": "以降级精度通过验证",
	"verify.fail.subject_not_detected": "照片里没有看到你。请确保露出面部后重试。",
	"verify.fail.subject_too_small":    "离镜头太远了，请靠近一些再拍。",
	"verify.fail.multiple_subjects":    "检测到多个人。请只拍摄你自己。",
	"verify.fail.object_not_detected":  "没有看到牙刷。请把牙刷举到镜头前。",
	"verify.fail.object_not_at_target": "请把牙刷放到嘴边再试一次。",

	// Validation related
	"validation.invalid_weekday":     "星期无效。必须在 1（周一）到 7（周日）之间",
	"validation.invalid_time_format": "时间格式无效。应为 HH:MM",
	"validation.invalid_theme":       "主题值无效",
	"validation.capture_required":    "需要提供拍摄数据",

	// System settings metadata
	"config.category.basic":        "基础",
	"config.category.alarm":        "闹钟窗口",
	"config.category.verification": "验证",

	"config.app_url":      "应用地址",
	"config.app_url_desc": "本服务对外可见的基础地址",

	"config.alarm_cutoff_minutes":          "每日截止时间",
	"config.alarm_cutoff_minutes_desc":     "超过该分钟数后不再触发闹钟（600 即 10:00）",
	"config.backup_cadence_minutes":        "备用闹钟间隔",
	"config.backup_cadence_minutes_desc":   "主闹钟之后备用闹钟的间隔分钟数",
	"config.backup_window_minutes":         "备用闹钟窗口",
	"config.backup_window_minutes_desc":    "主闹钟之后备用闹钟持续触发的时长",
	"config.dispatch_interval_seconds":     "调度间隔",
	"config.dispatch_interval_seconds_desc": "调度器扫描到期闹钟的频率",

	"config.subject_min_area_ratio":      "最小人物占比",
	"config.subject_min_area_ratio_desc": "人物在画面中允许的最小面积占比",

	"config.detector_base_url":           "检测服务地址",
	"config.detector_base_url_desc":      "外部检测服务地址；留空表示仅使用内联检测结果",
	"config.detector_timeout_seconds":    "检测超时",
	"config.detector_timeout_seconds_desc": "单次检测请求的超时时间",
}
