package client

import (
	"context"
	"net/http"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
)

// Login opens an admin session; the cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/login", nil, dto.LoginRequest{Password: password}, nil)
	return err
}

// Logout closes the session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	return err
}

// Status reports whether the current session is valid. A 401 is a valid
// answer, not an error.
func (c *Client) Status(ctx context.Context) (bool, error) {
	var status dto.AuthStatus
	_, err := c.do(ctx, http.MethodGet, "/auth/status", nil, nil, &status)
	if IsStatus(err, http.StatusUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status.Authenticated, nil
}
