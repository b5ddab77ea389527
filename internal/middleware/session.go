package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"todo-tracker/backend/internal/services"
)

// UserIDKey is where Authenticate leaves the caller's id for the access log.
const UserIDKey = "user_id"

type TokenVerifier interface {
	Verify(token string) *services.SessionClaims
}

type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionGate turns the session cookie into a user id. It keeps no state;
// every protected handler calls Authenticate before touching owned data.
type SessionGate struct {
	verifier TokenVerifier
	opts     SessionOptions
	logger   *zap.Logger
}

func NewSessionGate(verifier TokenVerifier, opts SessionOptions, logger *zap.Logger) *SessionGate {
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	if opts.TTL <= 0 {
		opts.TTL = services.DefaultTokenTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionGate{verifier: verifier, opts: opts, logger: logger}
}

func (g *SessionGate) Authenticate(c *gin.Context) (uuid.UUID, error) {
	token, err := c.Cookie(g.opts.CookieName)
	if err != nil || token == "" {
		return g.reject("no session cookie")
	}

	claims := g.verifier.Verify(token)
	if claims == nil {
		return g.reject("invalid or expired token")
	}

	userID, err := uuid.FromString(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return g.reject("id claim is not a uuid")
	}

	c.Set(UserIDKey, userID.String())
	return userID, nil
}

func (g *SessionGate) reject(reason string) (uuid.UUID, error) {
	g.logger.Debug("session rejected", zap.String("reason", reason))
	return uuid.Nil, services.ErrUnauthorized
}

func (g *SessionGate) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.opts.CookieName, token, int(g.opts.TTL.Seconds()), "/", "", g.opts.Secure, true)
}

func (g *SessionGate) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.opts.CookieName, "", -1, "/", "", g.opts.Secure, true)
}
