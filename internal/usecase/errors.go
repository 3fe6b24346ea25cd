package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrFetchPoolBusy         = errors.New("fetch pool is saturated")
)

// Messages shown on a ranking view when the failure carries no hint of its own.
const (
	MessageFetchFailed = "Error when fetching rankings."
	MessagePoolBusy    = "Too many requests in progress, try again."
)
