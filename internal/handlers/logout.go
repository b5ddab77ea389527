package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-tracker/backend/internal/i18n"
)

// Logout clears the session cookie. Tokens are stateless, so a copy of the
// token stays valid until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.gate.ClearSessionCookie(c)
	message(c, http.StatusOK, i18n.MsgLogoutSuccess)
}
