package i18n

import (
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

const (
	// LocalizerKey is the gin.Context key holding the request Localizer
	LocalizerKey = "localizer"
	// LangKey is the gin.Context key holding the current language
	LangKey = "lang"
)

// Middleware is the i18n middleware.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		acceptLang := c.GetHeader("Accept-Language")

		localizer := GetLocalizer(acceptLang)
		c.Set(LocalizerKey, localizer)

		lang := normalizeLanguageCode(acceptLang)
		c.Set(LangKey, lang)

		c.Next()
	}
}

// GetLocalizerFromContext gets Localizer from gin.Context.
func GetLocalizerFromContext(c *gin.Context) *i18n.Localizer {
	if localizer, exists := c.Get(LocalizerKey); exists {
		if l, ok := localizer.(*i18n.Localizer); ok {
			return l
		}
	}
	return GetLocalizer("en-US")
}

// GetLangFromContext gets current language from gin.Context.
func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(LangKey); exists {
		if l, ok := lang.(string); ok {
			return l
		}
	}
	return "en-US"
}

// Message gets an internationalized message.
func Message(c *gin.Context, msgID string, templateData ...map[string]any) string {
	localizer := GetLocalizerFromContext(c)
	return T(localizer, msgID, templateData...)
}
