package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type fakeAuthService struct {
	password string
	token    string
}

func (f *fakeAuthService) Login(_ context.Context, req dto.LoginRequest) (*service.Session, error) {
	if req.Password != f.password {
		return nil, appErrors.ErrInvalidCredentials
	}
	return &service.Session{Token: f.token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuthService) Validate(token string) (*jwt.RegisteredClaims, error) {
	if token != f.token {
		return nil, appErrors.ErrUnauthorized
	}
	return &jwt.RegisteredClaims{Subject: "admin"}, nil
}

func TestAuthHandlerLoginSetsHttpOnlyCookie(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{password: "secret", token: "tok"}, CookieConfig{Name: "sid"})
	c, rec := newTestContext(http.MethodPost, "/auth/login", dto.LoginRequest{Password: "secret"})

	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.JSONEq(t, `{"authenticated":true}`, string(decodeEnvelope(t, rec).Data))
}

func TestAuthHandlerLoginRejectsWrongPassword(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{password: "secret", token: "tok"}, CookieConfig{})
	c, rec := newTestContext(http.MethodPost, "/auth/login", dto.LoginRequest{Password: "nope"})

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec).Error["code"])
}

func TestAuthHandlerLogoutExpiresCookie(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, CookieConfig{Name: "sid"})
	c, rec := newTestContext(http.MethodPost, "/auth/logout", nil)

	h.Logout(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerStatus(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{token: "tok"}, CookieConfig{Name: "sid"})

	c, rec := newTestContext(http.MethodGet, "/auth/status", nil)
	h.Status(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/auth/status", nil)
	c.Request.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	h.Status(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/auth/status", nil)
	c.Request.AddCookie(&http.Cookie{Name: "sid", Value: "tok"})
	h.Status(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true}`, string(decodeEnvelope(t, rec).Data))
}
