package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/services"
)

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		h.badRequest(c, i18n.MsgRegisterMissing)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(c, i18n.MsgSignupSuccess),
		"user":    user,
	})
}
