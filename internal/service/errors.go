package service

import "errors"

// Sentinel errors for the embedding pipeline. Call sites wrap these with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is while the
// message keeps the underlying cause.
var (
	// ErrNotConfigured means the embedding provider credential is absent.
	// Detected before any network attempt; fatal to the whole operation.
	ErrNotConfigured = errors.New("embedding provider not configured")

	// ErrProvider means the embedding provider call failed in transport or
	// returned an unusable (empty or malformed) result.
	ErrProvider = errors.New("embedding provider error")

	// ErrQuery means a read or write against the embedding store failed.
	ErrQuery = errors.New("embedding store query failed")

	// ErrPlayerNotFound means the referenced player has no profile data.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrReportNotFound means no archived report exists for the refresh ID.
	ErrReportNotFound = errors.New("refresh report not found")

	// ErrInvalidFilters means the search request carries contradictory or
	// out-of-range filter values.
	ErrInvalidFilters = errors.New("invalid search filters")
)
