package locales

// MessagesJaJP Japanese translations
var MessagesJaJP = map[string]string{
	// Common messages
	"success":        "操作が成功しました",
	"common.success": "成功",
	"error":          "操作が失敗しました",
	"unauthorized":   "認証されていません",
	"forbidden":      "アクセス禁止",
	"not_found":      "見つかりません",
	"bad_request":    "不正なリクエスト",
	"internal_error": "内部エラー",
	"invalid_param":  "無効なパラメータ",

	// Authentication related
	"auth.invalid_key":   "無効な認証キー",
	"auth.key_required":  "認証キーが必要です",
	"auth.login_success": "ログインに成功しました",

	// Schedule related
	"schedule.updated":       "スケジュールを更新しました",
	"schedule.not_found":     "スケジュールが見つかりません",
	"schedule.time_clamped":  "目標時刻を {{.time}} に繰り上げました",
	"schedule.below_minimum": "有効な日が {{.enabled}} 日のみで、週の最低 {{.minimum}} 日を下回っています",

	// Settings related
	"settings.updated": "設定を更新しました",
	"settings.reset":   "設定をリセットしました",

	// Streak related
	"streak.reset":    "連続記録がリセットされました",
	"streak.credited": "朝のルーティンを記録しました",

	// Alarm related
	"alarm.rescheduled":     "アラームを再設定しました",
	"alarm.cancelled_today": "今日のバックアップアラームをキャンセルしました",
	"alarm.none_upcoming":   "今後のアラームはありません",

	// Verification outcomes
	"verify.pass":     "確認できました！よく磨けています。",
	"verify.degraded": "精度を落として確認しました",
	"verify.fail.subject_not_detected": "写真にあなたが写っていません。顔が見えるようにしてもう一度お試しください。",
	"verify.fail.subject_too_small":    "カメラから遠すぎます。もう少し近づいてください。",
	"verify.fail.multiple_subjects":    "複数の人が検出されました。自分だけが写るように撮り直してください。",
	"verify.fail.object_not_detected":  "歯ブラシが見つかりません。カメラに見えるように持ち上げてください。",
	"verify.fail.object_not_at_target": "歯ブラシを口元に当てて、もう一度お試しください。",

	// Validation related
	"validation.invalid_weekday":     "曜日が無効です。1（月曜）から7（日曜）の間で指定してください",
	"validation.invalid_time_format": "時刻の形式が無効です。HH:MM で指定してください",
	"validation.invalid_theme":       "テーマの値が無効です",
	"validation.capture_required":    "撮影データが必要です",

	// System settings metadata
	"config.category.basic":        "基本",
	"config.category.alarm":        "アラームウィンドウ",
	"config.category.verification": "検証",

	"config.app_url":      "アプリケーションURL",
	"config.app_url_desc": "このサービスの外部向けベースURL",

	"config.alarm_cutoff_minutes":          "1日の締め切り",
	"config.alarm_cutoff_minutes_desc":     "この分数を過ぎるとアラームは鳴りません（600 = 10:00）",
	"config.backup_cadence_minutes":        "バックアップ間隔",
	"config.backup_cadence_minutes_desc":   "プライマリ後のバックアップアラームの間隔（分）",
	"config.backup_window_minutes":         "バックアップウィンドウ",
	"config.backup_window_minutes_desc":    "プライマリ後にバックアップが鳴り続ける時間",
	"config.dispatch_interval_seconds":     "ディスパッチ間隔",
	"config.dispatch_interval_seconds_desc": "ディスパッチャーが期限到来アラームを確認する頻度",

	"config.subject_min_area_ratio":      "最小被写体サイズ",
	"config.subject_min_area_ratio_desc": "被写体が画面に占める最小の面積比",

	"config.detector_base_url":           "検出サービスURL",
	"config.detector_base_url_desc":      "外部検出エンドポイント。空ならインライン検出のみ使用します",
	"config.detector_timeout_seconds":    "検出タイムアウト",
	"config.detector_timeout_seconds_desc": "検出リクエスト1回あたりのタイムアウト",
}
