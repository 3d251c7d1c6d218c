// Package common defines shared constants and sentinel errors used across
// client and server layers of passionpath. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")

	// Validation errors: unknown collections/columns, malformed requests,
	// weak passwords.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
