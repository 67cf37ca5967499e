package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trascrivi/auth"
	"github.com/kbukum/trascrivi/auth/authctx"
	"github.com/kbukum/trascrivi/auth/jwt"
	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/logger"
)

// ContextKeyUserID is the Gin context key holding the caller's user ID.
const ContextKeyUserID = "user_id"

// userIdentifier is implemented by claims that carry a user ID.
type userIdentifier interface {
	UserID() string
}

// AuthConfig configures the bearer authentication middleware.
type AuthConfig struct {
	// Validator verifies the raw token and returns its claims.
	Validator auth.TokenValidator
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth requires "Authorization: Bearer <token>". Verified claims are stored on
// the request context (see authctx) and the user ID under ContextKeyUserID.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, apperrors.Unauthorized("Authorization header with a Bearer token is required."))
			return
		}

		claims, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			logger.WithComponent("auth").WithContext(c.Request.Context()).Debug("Token rejected", map[string]interface{}{
				"error": err.Error(),
				"path":  path,
			})
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, apperrors.TokenExpired())
				return
			}
			abortWithError(c, apperrors.InvalidToken())
			return
		}

		if u, ok := claims.(userIdentifier); ok {
			if u.UserID() == "" {
				abortWithError(c, apperrors.InvalidToken())
				return
			}
			c.Set(ContextKeyUserID, u.UserID())
		}
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), claims))
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse().WithRequestID(logger.RequestIDFromContext(c.Request.Context())))
}
