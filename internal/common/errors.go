// Package common defines shared constants and sentinel errors used across
// the TaskMaster client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Auth errors.
	ErrUnauthorized = errors.New("invalid credentials")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Request errors.
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")

	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")
	ErrServer      = errors.New("server error")

	// Workspace-level errors.
	ErrAlreadyShared = errors.New("task already shared with this user")
	ErrNoSession     = errors.New("no active session")
)
