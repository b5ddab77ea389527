package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims services.SessionClaims) (string, error)
}

type AuthHandler struct {
	base
	userService services.UserService
	tokens      TokenIssuer
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(userService services.UserService, tokens TokenIssuer, gate *middleware.SessionGate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		base:        newBase(gate, logger),
		userService: userService,
		tokens:      tokens,
	}
}

// Login checks the credentials and sets the session cookie. Unknown email
// and wrong password answer the same way.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.badRequest(c, i18n.MsgLoginMissing)
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, services.ErrInvalidCredentials) {
			message(c, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
			return
		}
		h.fail(c, err)
		return
	}

	token, err := h.tokens.Issue(services.SessionClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.gate.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message":     i18n.T(c, i18n.MsgLoginSuccess),
		"user":        user,
		"accessToken": token,
	})
}
