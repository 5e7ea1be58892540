package ir

import "errors"

// ErrorCode categorizes compile and runtime failures.
type ErrorCode string

const (
	ErrCodeInvalidProperty     ErrorCode = "INVALID_PROPERTY"
	ErrCodeInvalidMarker       ErrorCode = "INVALID_MARKER"
	ErrCodeNotEnoughTimes      ErrorCode = "NOT_ENOUGH_TIMES"
	ErrCodeInvalidTime         ErrorCode = "INVALID_TIME"
	ErrCodeValuesTimesMismatch ErrorCode = "VALUES_TIMES_MISMATCH"
	ErrCodeInvalidRange        ErrorCode = "INVALID_RANGE"
	ErrCodeNonFinite           ErrorCode = "NON_FINITE_VALUE"
	ErrCodeCannotSeekInfinite  ErrorCode = "CANNOT_SEEK_INFINITE"
	ErrCodeNotRegistered       ErrorCode = "NOT_REGISTERED"
)

// Coded is implemented by errors that carry an ErrorCode.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// CodeOf returns the code of the first Coded error in err's chain, or "".
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var c Coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
