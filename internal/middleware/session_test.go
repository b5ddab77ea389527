package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

func newGate(t *testing.T, secure bool) (*middleware.SessionGate, *services.TokenService) {
	t.Helper()
	tokens := services.NewTokenService("gate-secret", time.Hour)
	return middleware.NewSessionGate(tokens, middleware.SessionOptions{TTL: 24 * time.Hour, Secure: secure}, nil), tokens
}

func authenticate(gate *middleware.SessionGate, cookie *http.Cookie) (uuid.UUID, error) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/todos", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	return gate.Authenticate(c)
}

func TestSessionGate_Authenticate(t *testing.T) {
	gate, tokens := newGate(t, false)
	userID := uuid.Must(uuid.NewV4())

	token, err := tokens.Issue(services.SessionClaims{UserID: userID.String(), Email: "ada@example.com", Name: "Ada"})
	require.NoError(t, err)

	got, err := authenticate(gate, &http.Cookie{Name: "token", Value: token})
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSessionGate_Rejects(t *testing.T) {
	gate, tokens := newGate(t, false)

	notUUID, err := tokens.Issue(services.SessionClaims{UserID: "42"})
	require.NoError(t, err)

	forged, err := services.NewTokenService("other-secret", time.Hour).
		Issue(services.SessionClaims{UserID: uuid.Must(uuid.NewV4()).String()})
	require.NoError(t, err)

	tests := map[string]*http.Cookie{
		"no cookie":       nil,
		"empty cookie":    {Name: "token", Value: ""},
		"garbage":         {Name: "token", Value: "abc.def.ghi"},
		"non-uuid id":     {Name: "token", Value: notUUID},
		"wrong signature": {Name: "token", Value: forged},
		"wrong cookie":    {Name: "session", Value: notUUID},
	}

	for name, cookie := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := authenticate(gate, cookie)
			assert.ErrorIs(t, err, services.ErrUnauthorized)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}

func TestSessionGate_Cookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gate, _ := newGate(t, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	gate.SetSessionCookie(c, "signed-token")

	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "token=signed-token"), header)
	assert.Contains(t, header, "Max-Age=86400")
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	gate.ClearSessionCookie(c)

	header = w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "token=;"), header)
	assert.Contains(t, header, "Max-Age=0")
}
