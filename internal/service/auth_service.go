package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

const (
	sessionSubject = "admin"
	sessionIssuer  = "ecole-peg"
)

// AuthConfig defines the admin password gate.
type AuthConfig struct {
	PasswordHash string
	Secret       string
	SessionTTL   time.Duration
}

// Session is an issued admin session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService checks the admin password and issues signed session tokens.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

func NewAuthService(config AuthConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = dto.NewValidator()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 12 * time.Hour
	}
	return &AuthService{validator: validate, logger: logger, config: config, now: time.Now}
}

// Login verifies the password and returns a session token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}
	if s.config.PasswordHash == "" {
		s.logger.Error("login attempted without an admin password hash configured")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.SessionTTL)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    sessionIssuer,
		Subject:   sessionSubject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.logger.Info("admin logged in", zap.String("session_id", claims.ID))
	return &Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Validate parses a session token and returns its claims.
func (s *AuthService) Validate(token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(sessionIssuer), jwt.WithSubject(sessionSubject), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
