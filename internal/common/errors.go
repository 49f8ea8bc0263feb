// Package common defines shared sentinel errors and small helpers used across
// the Dunkey server layers. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors. ErrorNotFound is deliberately also returned
	// when a record exists but belongs to another owner, so callers cannot
	// probe for foreign entry IDs.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
