package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrCapture means the match page yielded no usable match details.
	ErrCapture = errors.New("capture failed")
	// ErrClassificationAmbiguity marks a fixture row whose status could not be
	// read. Discovery drops such rows; it is never returned to callers.
	ErrClassificationAmbiguity = errors.New("fixture row status is ambiguous")
	ErrTransform               = errors.New("transform failed")
	// ErrLoadConflict is reported when the match row already exists.
	ErrLoadConflict = errors.New("match already loaded")
	ErrStorage      = errors.New("storage failure")
)
