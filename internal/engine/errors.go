package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/keyframe/internal/ir"
)

// RuntimeError represents an error returned by a timeline or scheduler
// operation.
//
// A failed operation leaves the timeline unchanged.
type RuntimeError struct {
	// Code identifies the error category.
	Code ir.ErrorCode

	// Message is a human-readable description.
	Message string

	// TimelineID identifies the affected timeline, if any.
	TimelineID string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.TimelineID != "" {
		return fmt.Sprintf("%s: %s (timeline=%s)", e.Code, e.Message, e.TimelineID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorCode implements ir.Coded.
func (e *RuntimeError) ErrorCode() ir.ErrorCode {
	return e.Code
}

// IsNotRegistered reports whether err is a NOT_REGISTERED runtime error.
// Uses errors.As to handle wrapped errors.
func IsNotRegistered(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ir.ErrCodeNotRegistered
	}
	return false
}

// IsInvalidRange reports whether err is an INVALID_RANGE runtime error.
func IsInvalidRange(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ir.ErrCodeInvalidRange
	}
	return false
}

// NewNotRegisteredError creates a RuntimeError for an operation on a
// timeline that has not been added to a scheduler.
func NewNotRegisteredError(timelineID string) *RuntimeError {
	return &RuntimeError{
		Code:       ir.ErrCodeNotRegistered,
		Message:    "timeline is not added to the scheduler",
		TimelineID: timelineID,
	}
}

// NewInvalidMarkerError creates a RuntimeError for an unknown marker name.
func NewInvalidMarkerError(timelineID, marker string) *RuntimeError {
	return &RuntimeError{
		Code:       ir.ErrCodeInvalidMarker,
		Message:    fmt.Sprintf("invalid marker: %s", marker),
		TimelineID: timelineID,
	}
}

// NewNonFiniteError creates a RuntimeError for a NaN or infinite argument.
func NewNonFiniteError(timelineID, what string, v float64) *RuntimeError {
	return &RuntimeError{
		Code:       ir.ErrCodeNonFinite,
		Message:    fmt.Sprintf("%s must be finite, got %v", what, v),
		TimelineID: timelineID,
	}
}

// NewCannotSeekInfiniteError creates a RuntimeError for a reverse play or
// pause that would have to seek to an unbounded range end.
func NewCannotSeekInfiniteError(timelineID string) *RuntimeError {
	return &RuntimeError{
		Code:       ir.ErrCodeCannotSeekInfinite,
		Message:    "cannot seek to infinity",
		TimelineID: timelineID,
	}
}

// NewInvalidRangeError creates a RuntimeError for a rejected range.
func NewInvalidRangeError(timelineID string, in, out float64) *RuntimeError {
	return &RuntimeError{
		Code:       ir.ErrCodeInvalidRange,
		Message:    fmt.Sprintf("invalid range [%v, %v]", in, out),
		TimelineID: timelineID,
	}
}
