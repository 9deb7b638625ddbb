package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "collector/internal/errors"
)

// BearerAuth creates a Gin middleware that validates the Authorization
// header against the configured static API token. This is the machine
// integration path; it is deliberately distinct from the interactive
// session cookie.
func BearerAuth(apiToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiToken == "" {
			abortWithAppError(c, &apperrors.AppError{
				Code:       "TOKEN_NOT_CONFIGURED",
				Message:    "API token access is not configured",
				StatusCode: http.StatusServiceUnavailable,
			})
			return
		}
		if !bearerTokenMatches(c, apiToken) {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrInvalidAPIToken, "Invalid or missing API token"))
			return
		}
		c.Next()
	}
}

// SessionOrBearer accepts either a valid session cookie or the static API
// token. Read endpoints allow both so machine integrations can list and
// export without an interactive login.
func SessionOrBearer(apiToken string) gin.HandlerFunc {
	sessionAuth := SessionAuth()
	return func(c *gin.Context) {
		if apiToken != "" && bearerTokenMatches(c, apiToken) {
			c.Next()
			return
		}
		sessionAuth(c)
	}
}

// bearerTokenMatches reports whether the request carries the expected token.
// The comparison is constant-time to avoid leaking the token through timing.
func bearerTokenMatches(c *gin.Context, apiToken string) bool {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiToken)) == 1
}
