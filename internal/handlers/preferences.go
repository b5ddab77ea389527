package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-tracker/backend/internal/i18n"
)

// PreferencesHandler reads and writes the client's language and theme. Both
// live in cookies on the client; the server keeps nothing.
type PreferencesHandler struct {
	localizer *i18n.Localizer
	secure    bool
}

type PreferencesRequest struct {
	Language *string `json:"language"`
	Theme    *string `json:"theme"`
}

type PreferencesResponse struct {
	Language string     `json:"language"`
	Theme    i18n.Theme `json:"theme"`
}

func NewPreferencesHandler(localizer *i18n.Localizer, secure bool) *PreferencesHandler {
	return &PreferencesHandler{localizer: localizer, secure: secure}
}

func (h *PreferencesHandler) current(c *gin.Context) PreferencesResponse {
	theme := i18n.ThemeSystem
	if raw, err := c.Cookie(i18n.ThemeCookie); err == nil {
		if t, ok := i18n.ParseTheme(raw); ok {
			theme = t
		}
	}
	return PreferencesResponse{Language: i18n.Locale(c).String(), Theme: theme}
}

func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.current(c))
}

// UpdatePreferences validates both values before setting either cookie.
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message(c, http.StatusBadRequest, i18n.MsgInvalidRequest)
		return
	}

	resp := h.current(c)

	if req.Language != nil {
		tag, ok := h.localizer.ParseLanguage(*req.Language)
		if !ok {
			message(c, http.StatusBadRequest, i18n.MsgUnsupportedLang)
			return
		}
		resp.Language = tag.String()
	}
	if req.Theme != nil {
		theme, ok := i18n.ParseTheme(*req.Theme)
		if !ok {
			message(c, http.StatusBadRequest, i18n.MsgUnsupportedTheme)
			return
		}
		resp.Theme = theme
	}

	c.SetSameSite(http.SameSiteLaxMode)
	if req.Language != nil {
		c.SetCookie(i18n.LanguageCookie, resp.Language, i18n.PreferenceMaxAge, "/", "", h.secure, false)
	}
	if req.Theme != nil {
		c.SetCookie(i18n.ThemeCookie, string(resp.Theme), i18n.PreferenceMaxAge, "/", "", h.secure, false)
	}
	c.JSON(http.StatusOK, resp)
}
