package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

// ContextSessionKey is the gin context key storing the session claims.
const ContextSessionKey = "adminSession"

type sessionValidator interface {
	Validate(token string) (*jwt.RegisteredClaims, error)
}

// Session protects routes by requiring a valid admin session, read from
// the session cookie or an Authorization: Bearer header.
func Session(validator sessionValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := SessionToken(c, cookieName)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// SessionToken extracts the raw session token. The cookie wins over the
// header.
func SessionToken(c *gin.Context, cookieName string) (string, bool) {
	if cookieName != "" {
		if value, err := c.Cookie(cookieName); err == nil && value != "" {
			return value, true
		}
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
