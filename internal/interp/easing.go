package interp

import (
	"math"
	"sort"

	"github.com/fogleman/ease"

	"github.com/roach88/keyframe/internal/ir"
	"github.com/roach88/keyframe/internal/solver"
)

// Ease maps raw segment progress t through e. A nil easing is linear.
func Ease(e ir.Easing, t float64) float64 {
	switch e := e.(type) {
	case ir.CubicBezier:
		return solver.CubicBezierY(e.X1, e.Y1, e.X2, e.Y2, t)
	case ir.StepStart:
		n := float64(e.N)
		return math.Ceil(t*n) / n
	case ir.StepEnd:
		n := float64(e.N)
		return math.Floor(t*n) / n
	case ir.Preset:
		if e.Fn == nil {
			return t
		}
		return e.Fn(t)
	}
	return t
}

var presets = map[string]func(float64) float64{
	"linear":        ease.Linear,
	"quad-in":       ease.InQuad,
	"quad-out":      ease.OutQuad,
	"quad-in-out":   ease.InOutQuad,
	"cubic-in":      ease.InCubic,
	"cubic-out":     ease.OutCubic,
	"cubic-in-out":  ease.InOutCubic,
	"quart-in":      ease.InQuart,
	"quart-out":     ease.OutQuart,
	"quart-in-out":  ease.InOutQuart,
	"quint-in":      ease.InQuint,
	"quint-out":     ease.OutQuint,
	"quint-in-out":  ease.InOutQuint,
	"sine-in":       ease.InSine,
	"sine-out":      ease.OutSine,
	"sine-in-out":   ease.InOutSine,
	"expo-in":       ease.InExpo,
	"expo-out":      ease.OutExpo,
	"expo-in-out":   ease.InOutExpo,
	"circ-in":       ease.InCirc,
	"circ-out":      ease.OutCirc,
	"circ-in-out":   ease.InOutCirc,
	"bounce-in":     ease.InBounce,
	"bounce-out":    ease.OutBounce,
	"bounce-in-out": ease.InOutBounce,
}

// PresetByName returns the named easing preset.
func PresetByName(name string) (ir.Preset, bool) {
	fn, ok := presets[name]
	if !ok {
		return ir.Preset{}, false
	}
	return ir.Preset{Name: name, Fn: fn}, true
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
