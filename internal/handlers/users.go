package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

type UserHandler struct {
	base
	userService services.UserService
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func NewUserHandler(userService services.UserService, gate *middleware.SessionGate, logger *zap.Logger) *UserHandler {
	return &UserHandler{base: newBase(gate, logger), userService: userService}
}

func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var upd services.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, upd)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(c, i18n.MsgProfileUpdated),
		"user":    user,
	})
}

// ChangePassword answers 400, not 401, for a wrong current password so the
// client does not treat it as a lost session.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		h.badRequest(c, i18n.MsgPasswordMissing)
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.badRequest(c, i18n.MsgPasswordWrong)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	message(c, http.StatusOK, i18n.MsgPasswordUpdated)
}

// DeleteAccount removes the caller with every task they own and clears the
// session cookie.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}

	h.gate.ClearSessionCookie(c)
	message(c, http.StatusOK, i18n.MsgAccountDeleted)
}
