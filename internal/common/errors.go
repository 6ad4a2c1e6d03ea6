// Package common defines shared constants and sentinel errors used across
// the Wirescope client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Session lifecycle errors.
	ErrNoSession         = errors.New("no active session")
	ErrRefreshFailed     = errors.New("token refresh failed")
	ErrSessionSuperseded = errors.New("session superseded")
	ErrLoginInProgress   = errors.New("login already in progress")

	// Entitlement token errors (signature, claims, or malformed payload).
	ErrInvalidToken = errors.New("invalid token")
)
