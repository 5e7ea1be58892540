package compiler

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/keyframe/internal/ir"
)

var noPos = token.NoPos

// CompileError represents a compilation error with source position.
// Pos is only valid for errors found in scene documents.
type CompileError struct {
	Code    ir.ErrorCode
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorCode implements ir.Coded.
func (e *CompileError) ErrorCode() ir.ErrorCode {
	return e.Code
}

// IsCompileError reports whether err is or wraps a CompileError.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// withField returns err with its field prefixed and position set when
// err is a CompileError that lacks one.
func withField(err error, prefix string, pos token.Pos) error {
	var ce *CompileError
	if !errors.As(err, &ce) {
		return err
	}
	out := *ce
	if prefix != "" {
		if out.Field == "" {
			out.Field = prefix
		} else {
			out.Field = prefix + "." + out.Field
		}
	}
	if !out.Pos.IsValid() {
		out.Pos = pos
	}
	return &out
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
