package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cerroazul/gestao-obras/internal/auth/domain"
)

const (
	CtxSession      = "session"
	CtxSessionToken = "session_token"
)

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Session, error)
}

// WithSession stores the caller's session in the Gin context. Requests
// without a valid token carry the anonymous session; mutations are refused
// further down, not here.
func WithSession(resolver SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := extractToken(c)

		sess, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Warn("resolve session failed, continuing anonymously", zap.Error(err))
			sess = domain.Anonymous()
		}

		c.Set(CtxSession, sess)
		if sess.Authenticated {
			c.Set(CtxSessionToken, token)
		}
		c.Next()
	}
}

// SessionFrom returns the session set by WithSession, or the anonymous one.
func SessionFrom(c *gin.Context) domain.Session {
	if v, ok := c.Get(CtxSession); ok {
		if sess, ok := v.(domain.Session); ok {
			return sess
		}
	}
	return domain.Anonymous()
}

// TokenFrom returns the bearer token of an authenticated request.
func TokenFrom(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxSessionToken))
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
