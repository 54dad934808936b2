package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type authAPI interface {
	Status(ctx context.Context) (bool, error)
	Login(ctx context.Context, password string) error
	Logout(ctx context.Context) error
}

// AuthProvider owns the authenticated flag of the front desk. It is read
// through IsAuthenticated and changed only by Login and Logout.
type AuthProvider struct {
	api    authAPI
	logger *zap.Logger

	mu            sync.RWMutex
	authenticated bool
}

// NewAuthProvider asks the backend once whether the current session is
// valid. A failed check leaves the provider unauthenticated and is returned.
func NewAuthProvider(ctx context.Context, api authAPI, logger *zap.Logger) (*AuthProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &AuthProvider{api: api, logger: logger}
	ok, err := api.Status(ctx)
	if err != nil {
		return p, failure(logger, "session check", err)
	}
	p.authenticated = ok
	return p, nil
}

func (p *AuthProvider) IsAuthenticated() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.authenticated
}

// Login opens a session. The flag is only raised on success.
func (p *AuthProvider) Login(ctx context.Context, password string) error {
	if password == "" {
		return FieldErrors{{Field: "password", Message: "required"}}
	}
	if err := p.api.Login(ctx, password); err != nil {
		return failure(p.logger, "login", err)
	}
	p.set(true)
	return nil
}

// Logout closes the session. The local flag drops even if the call fails,
// since the cookie can no longer be trusted.
func (p *AuthProvider) Logout(ctx context.Context) error {
	defer p.set(false)
	if err := p.api.Logout(ctx); err != nil {
		return failure(p.logger, "logout", err)
	}
	return nil
}

func (p *AuthProvider) set(v bool) {
	p.mu.Lock()
	p.authenticated = v
	p.mu.Unlock()
}
