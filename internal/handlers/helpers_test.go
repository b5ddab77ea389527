package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/samber/oops"
	"github.com/stretchr/testify/require"

	"todo-tracker/backend/internal/i18n"
	"todo-tracker/backend/internal/middleware"
	"todo-tracker/backend/internal/services"
)

const testSecret = "handler-test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(i18n.NewLocalizer("en").Middleware())
	return router
}

func newTestGate() (*middleware.SessionGate, *services.TokenService) {
	tokens := services.NewTokenService(testSecret, time.Hour)
	return middleware.NewSessionGate(tokens, middleware.SessionOptions{TTL: 24 * time.Hour}, nil), tokens
}

func sessionCookie(t *testing.T, tokens *services.TokenService, userID uuid.UUID) *http.Cookie {
	t.Helper()
	token, err := tokens.Issue(services.SessionClaims{UserID: userID.String()})
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func doRequest(router *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// invalidField builds the error the services return for a rejected field.
func invalidField(field string) error {
	return oops.Code(services.CodeValidation).With("field", field).Wrap(services.ErrValidation)
}

func strPtr(s string) *string { return &s }
