package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"collector/internal/config"
	apperrors "collector/internal/errors"
	"collector/internal/middleware"
)

// AuthHandler handles the shared-password login for the web UI.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles the password exchange for a session cookie
// @Summary     Log in
// @Description Exchange the shared application password for a session cookie
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Login credentials"
// @Success     200 {object} map[string]string "Session established"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid password"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if !h.passwordMatches(req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	if err := middleware.SetSessionCookie(c); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// Logout clears the session cookie
// @Summary     Log out
// @Description Clear the session cookie
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]string "Session cleared"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// passwordMatches checks the supplied password against the configured hash
// when one is set, falling back to a constant-time plain comparison.
func (h *AuthHandler) passwordMatches(password string) bool {
	if h.cfg.AppPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.cfg.AppPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.AppPassword)) == 1
}
