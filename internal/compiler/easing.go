package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/keyframe/internal/interp"
	"github.com/roach88/keyframe/internal/ir"
)

// Timing function codes of the numeric easing form [code, params...].
const (
	timingLinear    = 0
	timingCubic     = 1
	timingStepStart = 2
	timingStepEnd   = 3
)

var keywordEasings = map[string]ir.Easing{
	"linear":      ir.Linear{},
	"ease":        ir.CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1},
	"ease-in":     ir.CubicBezier{X1: 0.42, Y1: 0, X2: 1, Y2: 1},
	"ease-out":    ir.CubicBezier{X1: 0, Y1: 0, X2: 0.58, Y2: 1},
	"ease-in-out": ir.CubicBezier{X1: 0.42, Y1: 0, X2: 0.58, Y2: 1},
	"step-start":  ir.StepStart{N: 1},
	"step-end":    ir.StepEnd{N: 1},
}

// ParseEasing parses a timing function:
//
//	linear | ease | ease-in | ease-out | ease-in-out | step-start | step-end
//	cubic-bezier(x1, y1, x2, y2)
//	steps(n) | steps(n, start) | steps(n, end)
//	<preset name>
//
// Anything else is linear.
func ParseEasing(s string) (ir.Easing, error) {
	s = strings.TrimSpace(s)
	if e, ok := keywordEasings[s]; ok {
		return e, nil
	}
	if p, ok := interp.PresetByName(s); ok {
		return p, nil
	}
	switch {
	case strings.HasPrefix(s, "cubic-bezier("):
		args, err := easingArgs(s, "cubic-bezier(", 4)
		if err != nil {
			return nil, err
		}
		return ir.CubicBezier{X1: args[0], Y1: args[1], X2: args[2], Y2: args[3]}, nil
	case strings.HasPrefix(s, "steps("):
		body := strings.TrimSuffix(strings.TrimPrefix(s, "steps("), ")")
		countStr, position, _ := strings.Cut(body, ",")
		n, err := stepCount(countStr)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(position) == "start" {
			return ir.StepStart{N: n}, nil
		}
		return ir.StepEnd{N: n}, nil
	}
	return ir.Linear{}, nil
}

// EasingFromNumbers converts the numeric easing forms: four numbers are
// cubic-bezier control points; otherwise the first number is a timing
// function code followed by its parameters.
func EasingFromNumbers(nums []float64) (ir.Easing, error) {
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, &CompileError{Code: ir.ErrCodeNonFinite, Field: "easing", Message: "non-finite easing parameter"}
		}
	}
	switch {
	case len(nums) == 4:
		return ir.CubicBezier{X1: nums[0], Y1: nums[1], X2: nums[2], Y2: nums[3]}, nil
	case len(nums) == 1 && nums[0] == timingLinear:
		return ir.Linear{}, nil
	case len(nums) == 5 && nums[0] == timingCubic:
		return ir.CubicBezier{X1: nums[1], Y1: nums[2], X2: nums[3], Y2: nums[4]}, nil
	case len(nums) == 2 && (nums[0] == timingStepStart || nums[0] == timingStepEnd):
		n := int(nums[1])
		if n < 1 {
			n = 1
		}
		if nums[0] == timingStepStart {
			return ir.StepStart{N: n}, nil
		}
		return ir.StepEnd{N: n}, nil
	}
	return nil, &CompileError{
		Code:    ir.ErrCodeNonFinite,
		Field:   "easing",
		Message: fmt.Sprintf("unrecognized numeric easing %v", nums),
	}
}

func easingArgs(s, prefix string, n int) ([]float64, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(s, prefix), ")")
	parts := strings.Split(body, ",")
	if len(parts) != n {
		return nil, &CompileError{
			Code:    ir.ErrCodeNonFinite,
			Field:   "easing",
			Message: fmt.Sprintf("%q needs %d parameters", s, n),
		}
	}
	res := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &CompileError{
				Code:    ir.ErrCodeNonFinite,
				Field:   "easing",
				Message: fmt.Sprintf("invalid easing parameter %q", strings.TrimSpace(p)),
			}
		}
		res[i] = f
	}
	return res, nil
}

func stepCount(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &CompileError{
			Code:    ir.ErrCodeNonFinite,
			Field:   "easing",
			Message: fmt.Sprintf("invalid step count %q", strings.TrimSpace(s)),
		}
	}
	n := int(f)
	if n < 1 {
		n = 1
	}
	return n, nil
}
