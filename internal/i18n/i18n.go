package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleRU      = "ru-RU"
	LocaleEN      = "en-US"
	DefaultLocale = LocaleRU
)

// 语言协商顺序与 supported 一一对应
var (
	supported = []string{LocaleRU, LocaleEN}
	matcher   = language.NewMatcher([]language.Tag{language.Russian, language.AmericanEnglish})
)

// ResolveLocale 从 ?lang= 或 Accept-Language 解析语言，默认 ru-RU
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if value, ok := c.Get("locale"); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 把任意语言标签映射到受支持的语言
func Match(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supported[index]
}

// T 翻译消息键，未知键原样返回
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
