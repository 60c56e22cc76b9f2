package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("conflict")
	ErrAuthentication = errors.New("invalid credentials")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrNotFound       = errors.New("not found")
	ErrConfig         = errors.New("misconfigured")
)
