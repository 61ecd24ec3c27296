package domain

import "errors"

// Sentinel errors for cross-layer error classification.
// The provider wraps these so commands can handle error categories
// uniformly without importing the OVH SDK.
//
//	return fmt.Errorf("failed to check availability: %w", domain.ErrUnauthorized)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrValidation indicates a request was rejected locally before any
	// I/O: out-of-range retry policy, missing plan code, empty
	// datacenter set. Nothing is partially constructed when it fires.
	ErrValidation = errors.New("validation failed")
)
