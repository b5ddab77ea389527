package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/logging"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

// base carries what every handler needs to authenticate the caller and
// answer with a localized message.
type base struct {
	gate   *middleware.SessionGate
	logger *zap.Logger
}

func newBase(gate *middleware.SessionGate, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{gate: gate, logger: logger}
}

// currentUser resolves the session cookie. On failure the 401 has already
// been written.
func (b base) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := b.gate.Authenticate(c)
	if err != nil {
		b.fail(c, err)
		return uuid.Nil, false
	}
	return userID, true
}

func message(c *gin.Context, status int, key i18n.MessageKey) {
	c.JSON(status, gin.H{"message": i18n.T(c, key)})
}

func (b base) badRequest(c *gin.Context, key i18n.MessageKey) {
	message(c, http.StatusBadRequest, key)
}

// fail answers with the status and message err maps to. Only unexpected
// failures are logged; the client never sees the error text.
func (b base) fail(c *gin.Context, err error) {
	status, key := classify(err)
	if status == http.StatusInternalServerError {
		logging.Error(b.logger, "request failed", err,
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
	}
	_ = c.Error(err)
	message(c, status, key)
}

func classify(err error) (int, i18n.MessageKey) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, i18n.MsgUnauthorized
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, fieldMessage(services.InvalidField(err))
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, i18n.MsgUserExists
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, i18n.MsgUserNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, i18n.MsgInvalidCredentials
	case errors.Is(err, services.ErrTaskNotFound):
		return http.StatusNotFound, i18n.MsgTodoNotFound
	default:
		return http.StatusInternalServerError, i18n.MsgInternal
	}
}

func fieldMessage(field string) i18n.MessageKey {
	switch field {
	case "title":
		return i18n.MsgTitleRequired
	case "priority":
		return i18n.MsgInvalidPriority
	case "dueDate":
		return i18n.MsgInvalidDueDate
	case "name":
		return i18n.MsgNameRequired
	case "password":
		return i18n.MsgPasswordTooLong
	case "currentPassword", "newPassword":
		return i18n.MsgPasswordMissing
	default:
		return i18n.MsgInvalidField
	}
}
