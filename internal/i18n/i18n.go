// Package i18n resolves the request locale and renders response messages.
//
// The locale is decided once per request, from the language cookie, then
// the Accept-Language header, then the configured default, and stored on
// the gin context. Nothing here is process-global.
package i18n

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LanguageCookie = "language"
	ThemeCookie    = "theme"

	// PreferenceMaxAge is the lifetime of the language and theme cookies in seconds.
	PreferenceMaxAge = 365 * 24 * 60 * 60

	localeKey = "locale"
)

// Supported lists the languages with a message catalog. The first entry is
// the fallback of last resort.
var Supported = []language.Tag{language.English, language.Turkish}

type Localizer struct {
	matcher  language.Matcher
	fallback language.Tag
}

// NewLocalizer builds a localizer whose fallback is defaultLang, or English
// when defaultLang is not supported.
func NewLocalizer(defaultLang string) *Localizer {
	l := &Localizer{matcher: language.NewMatcher(Supported), fallback: Supported[0]}
	if tag, ok := l.ParseLanguage(defaultLang); ok {
		l.fallback = tag
	}
	return l
}

func (l *Localizer) Default() language.Tag {
	return l.fallback
}

// ParseLanguage maps s onto a supported language, accepting regional
// variants such as tr-TR.
func (l *Localizer) ParseLanguage(s string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return language.Und, false
	}
	_, idx, conf := l.matcher.Match(tag)
	if conf < language.High {
		return language.Und, false
	}
	return Supported[idx], true
}

// Resolve picks the locale for a request.
func (l *Localizer) Resolve(cookie, acceptLanguage string) language.Tag {
	if tag, ok := l.ParseLanguage(cookie); ok {
		return tag
	}

	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if _, idx, conf := l.matcher.Match(tags...); conf > language.No {
				return Supported[idx]
			}
		}
	}

	return l.fallback
}

// Middleware stores the resolved locale on the context.
func (l *Localizer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(LanguageCookie)
		c.Set(localeKey, l.Resolve(cookie, c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// Locale returns the locale stored by Middleware, or English.
func Locale(c *gin.Context) language.Tag {
	if v, ok := c.Get(localeKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return Supported[0]
}

// T renders key in the request locale.
func T(c *gin.Context, key MessageKey) string {
	return Translate(Locale(c), key)
}

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ParseTheme(s string) (Theme, bool) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, true
	}
	return "", false
}
