// Package i18n provides localized messages for API responses, including the
// per-reason remediation hints shown after a failed verification.
package i18n

import (
	"encoding/json"
	"fmt"
	"strings"

	"routine-guard/internal/i18n/locales"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	bundle *i18n.Bundle
)

// Init initializes i18n.
func Init() error {
	bundle = i18n.NewBundle(language.AmericanEnglish)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	// Load supported language files
	languages := []string{"en-US", "zh-CN", "ja-JP"}
	for _, lang := range languages {
		if err := loadMessageFile(lang); err != nil {
			return fmt.Errorf("failed to load language file %s: %w", lang, err)
		}
	}

	return nil
}

// loadMessageFile loads a language file.
func loadMessageFile(lang string) error {
	messages := getMessages(lang)
	for id, msg := range messages {
		bundle.AddMessages(language.MustParse(lang), &i18n.Message{
			ID:    id,
			Other: msg,
		})
	}

	return nil
}

// GetLocalizer gets a localizer for an Accept-Language header value.
func GetLocalizer(acceptLang string) *i18n.Localizer {
	langs := parseAcceptLanguage(acceptLang)

	if len(langs) == 0 {
		langs = []string{"en-US"}
	}

	return i18n.NewLocalizer(bundle, langs...)
}

// parseAcceptLanguage parses the Accept-Language header.
func parseAcceptLanguage(acceptLang string) []string {
	if acceptLang == "" {
		return nil
	}

	// Simple parsing, only take the first language
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(parts[0])
		// Remove quality factor (q=...)
		if idx := strings.Index(lang, ";"); idx > 0 {
			lang = lang[:idx]
		}

		lang = normalizeLanguageCode(lang)
		return []string{lang}
	}

	return nil
}

// normalizeLanguageCode normalizes language codes.
func normalizeLanguageCode(lang string) string {
	lang = strings.TrimSpace(lang)

	switch strings.ToLower(lang) {
	case "en", "en-us":
		return "en-US"
	case "zh", "zh-cn", "zh-hans":
		return "zh-CN"
	case "ja", "ja-jp":
		return "ja-JP"
	default:
		if strings.HasPrefix(strings.ToLower(lang), "en") {
			return "en-US"
		}
		if strings.HasPrefix(strings.ToLower(lang), "zh") {
			return "zh-CN"
		}
		if strings.HasPrefix(strings.ToLower(lang), "ja") {
			return "ja-JP"
		}
		return "en-US"
	}
}

// T translates a message.
func T(localizer *i18n.Localizer, msgID string, data ...map[string]any) string {
	config := &i18n.LocalizeConfig{
		MessageID: msgID,
	}

	if len(data) > 0 {
		config.TemplateData = data[0]
	}

	msg, err := localizer.Localize(config)
	if err != nil {
		// If translation fails, return message ID
		return msgID
	}

	return msg
}

// getMessages gets language messages.
func getMessages(lang string) map[string]string {
	switch lang {
	case "zh-CN":
		return locales.MessagesZhCN
	case "ja-JP":
		return locales.MessagesJaJP
	default:
		return locales.MessagesEnUS
	}
}
