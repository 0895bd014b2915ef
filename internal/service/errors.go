package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCommodity is returned when a commodity value is not recognized
	ErrInvalidCommodity = errors.New("invalid commodity")

	// ErrInvalidUnit is returned when a harvest unit is not BINS or LBS
	ErrInvalidUnit = errors.New("invalid harvest unit")

	// ErrPoolClosed is returned when writing records into a settled pool
	ErrPoolClosed = errors.New("pool is settled and read-only")

	// ErrHarvestVerified is returned when modifying a verified harvest
	ErrHarvestVerified = errors.New("harvest is verified and read-only")

	// ErrInvalidGroupBy is returned when an analytics groupBy value is not farm or field
	ErrInvalidGroupBy = errors.New("invalid groupBy value")

	// ErrPackFeedDisabled is returned when a pack feed lookup is requested but the feed is off
	ErrPackFeedDisabled = errors.New("pack feed is not enabled")
)
