package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingCredential and ErrInvalidCredential are both reported to the
	// caller as a plain "unauthorized"; the distinction is for logs and metrics.
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrInvalidCredentials is a failed email/password login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrForbidden = errors.New("access denied")
)
