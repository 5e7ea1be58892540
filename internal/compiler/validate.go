package compiler

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/roach88/keyframe/internal/ir"
)

// ValidationError represents a scene validation error.
type ValidationError struct {
	Field   string       `json:"field"`
	Message string       `json:"message"`
	Code    ir.ErrorCode `json:"code"`
	Line    int          `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ErrorCode implements ir.Coded.
func (e ValidationError) ErrorCode() ir.ErrorCode {
	return e.Code
}

// ValidateScene checks every keyframe and the timeline settings of a scene.
// Returns all errors found (does not fail-fast).
func ValidateScene(s *Scene, r PropertyResolver) []ValidationError {
	var errs []ValidationError

	for _, st := range s.Targets {
		for ki := range st.Keyframes {
			_, err := CompileTrack(&st.Keyframes[ki], r)
			if err == nil {
				continue
			}
			field := fmt.Sprintf("targets.%s[%d]", st.ID, ki)
			var ce *CompileError
			if !errors.As(withField(err, field, st.KeyframePos[ki]), &ce) {
				errs = append(errs, ValidationError{Field: field, Message: err.Error()})
				continue
			}
			errs = append(errs, ValidationError{
				Field:   ce.Field,
				Message: ce.Message,
				Code:    ce.Code,
				Line:    ce.Pos.Line(),
			})
		}
	}

	names := make([]string, 0, len(s.Markers))
	for name := range s.Markers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if t := s.Markers[name]; math.IsNaN(t) || math.IsInf(t, 0) {
			errs = append(errs, ValidationError{
				Field:   "markers." + name,
				Message: "marker time must be finite",
				Code:    ir.ErrCodeInvalidMarker,
			})
		}
	}

	if math.IsNaN(s.Rate) || math.IsInf(s.Rate, 0) {
		errs = append(errs, ValidationError{
			Field:   "rate",
			Message: "rate must be finite",
			Code:    ir.ErrCodeNonFinite,
		})
	}

	if len(s.Range) > 0 {
		in := s.Range[0]
		out := math.NaN()
		if len(s.Range) > 1 {
			out = s.Range[1]
		}
		if math.IsNaN(in) || math.IsInf(in, 0) || in < 0 || (len(s.Range) > 1 && (out < 0 || in >= out || math.IsNaN(out))) {
			errs = append(errs, ValidationError{
				Field:   "range",
				Message: fmt.Sprintf("invalid range %v", s.Range),
				Code:    ir.ErrCodeInvalidRange,
			})
		}
	}

	return errs
}
