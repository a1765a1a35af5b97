package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the tracking core wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// Not-found errors.
var (
	ErrContextNotFound = fmt.Errorf("context %w", ErrNotFound)
	ErrTodoNotFound    = fmt.Errorf("todo %w", ErrNotFound)
	ErrEventNotFound   = fmt.Errorf("event %w", ErrNotFound)
	ErrNotLinked       = fmt.Errorf("link %w", ErrNotFound)
)

// Validation errors.
var (
	ErrInvalidID         = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidName       = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidDuration   = fmt.Errorf("%w: duration must be a positive number of hours", ErrValidation)
	ErrDurationRequired  = fmt.Errorf("%w: duration is required for a linked item", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidTime       = fmt.Errorf("%w: invalid time", ErrValidation)
	ErrInvalidRange      = fmt.Errorf("%w: invalid date range", ErrValidation)
	ErrInvalidRecurrence = fmt.Errorf("%w: invalid recurrence type", ErrValidation)
)

// Conflict errors.
var (
	ErrAlreadyLinked = fmt.Errorf("%w: item is already linked", ErrConflict)
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
