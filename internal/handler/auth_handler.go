package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/middleware"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*service.Session, error)
	Validate(token string) (*jwt.RegisteredClaims, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler wires the admin password gate to HTTP endpoints.
type AuthHandler struct {
	service authService
	cookie  CookieConfig
	now     func() time.Time
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "ecole_session"
	}
	return &AuthHandler{service: svc, cookie: cookie, now: time.Now}
}

// Login godoc
// @Summary Open an admin session
// @Description Checks the admin password and sets an HttpOnly session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(h.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.Token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
	response.JSON(c, http.StatusOK, dto.AuthStatus{Authenticated: true}, nil)
}

// Logout godoc
// @Summary Close the admin session
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	response.NoContent(c)
}

// Status godoc
// @Summary Report whether the caller holds a valid session
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/status [get]
func (h *AuthHandler) Status(c *gin.Context) {
	token, ok := middleware.SessionToken(c, h.cookie.Name)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if _, err := h.service.Validate(token); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AuthStatus{Authenticated: true}, nil)
}
