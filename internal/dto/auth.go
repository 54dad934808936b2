package dto

// LoginRequest is the password-only login payload.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AuthStatus reports whether the caller holds a valid session.
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}
