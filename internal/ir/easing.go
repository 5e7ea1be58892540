package ir

// Easing is a sealed interface over timing functions.
type Easing interface {
	easing()
}

// Linear leaves progress unchanged.
type Linear struct{}

func (Linear) easing() {}

// CubicBezier is a unit cubic bezier timing function.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

func (CubicBezier) easing() {}

// StepStart jumps at the start of each of N steps.
type StepStart struct {
	N int
}

func (StepStart) easing() {}

// StepEnd jumps at the end of each of N steps.
type StepEnd struct {
	N int
}

func (StepEnd) easing() {}

// Preset is a named easing curve evaluated by Fn.
type Preset struct {
	Name string
	Fn   func(float64) float64
}

func (Preset) easing() {}

// DefaultEasing fills segments without an authored easing (ease-out).
var DefaultEasing Easing = CubicBezier{X1: 0, Y1: 0, X2: 0.58, Y2: 1}
