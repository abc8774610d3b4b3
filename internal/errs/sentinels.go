// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels shared by the API client, the synchronizer and the screens.
var (
	// ErrNetwork indicates a remote call was rejected (connectivity or server error).
	ErrNetwork = errors.New("network error")

	// ErrNotFound indicates state was referenced that the current screen never loaded.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates input was rejected before any remote call was issued.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized indicates the session token was missing, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")
)
