package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"collector/internal/config"
	apperrors "collector/internal/errors"
)

// SessionCookieName is the cookie carrying the signed UI session.
const SessionCookieName = "collector_session"

// getSessionKey returns the session signing key from configuration
func getSessionKey() []byte {
	return []byte(config.Get().SessionSecret)
}

// SessionClaims represents the claims in the session token
type SessionClaims struct {
	jwt.RegisteredClaims
}

// GenerateSessionToken generates a signed session token for the web UI.
// The application has a single shared login, so the token carries no user
// identity beyond the fact that the password check succeeded.
func GenerateSessionToken() (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(config.Get().SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "collector-api",
			Subject:   "collector-ui",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSessionKey())
}

// validateSessionToken parses and validates a session token.
func validateSessionToken(tokenString string) error {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSessionKey(), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}

// SetSessionCookie issues a fresh session cookie on the response.
func SetSessionCookie(c *gin.Context) error {
	token, err := GenerateSessionToken()
	if err != nil {
		return err
	}
	maxAge := int(config.Get().SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", false, true)
	return nil
}

// ClearSessionCookie expires the session cookie on the response.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
}

// SessionAuth verifies the session cookie set at login. Requests without a
// valid session are rejected before reaching the handler.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}
		if err := validateSessionToken(cookie); err != nil {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired session"))
			return
		}
		c.Next()
	}
}

// abortWithAppError writes the standard error envelope and stops the chain.
// Middleware aborts directly instead of going through the error handler so a
// rejected request never reaches the handler stack.
func abortWithAppError(c *gin.Context, e *apperrors.AppError) {
	c.AbortWithStatusJSON(e.StatusCode,
		gin.H{"error": gin.H{"code": e.Code, "message": e.Message}})
}
