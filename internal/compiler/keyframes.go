package compiler

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/keyframe/internal/cssval"
	"github.com/roach88/keyframe/internal/geom"
	"github.com/roach88/keyframe/internal/ir"
)

// PropertyResolver resolves property names that are neither transform
// channels nor built-in properties, typically through host style
// introspection.
type PropertyResolver interface {
	ResolveProperty(name string) (ir.PropertyInfo, bool)
}

// Compile validates keyframe input and compiles it into an Animation.
// A nil resolver accepts only transform channels and built-in properties.
//
// Compilation is all or nothing: the first invalid keyframe aborts it.
// Targets without keyframes are dropped.
func Compile(input []ir.TargetKeyframes, r PropertyResolver) (*ir.Animation, error) {
	anim := &ir.Animation{}
	for ti, tk := range input {
		var tracks []*ir.Track
		for ki := range tk.Keyframes {
			tr, err := CompileTrack(&tk.Keyframes[ki], r)
			if err != nil {
				return nil, withField(err, fmt.Sprintf("targets[%d].keyframes[%d]", ti, ki), noPos)
			}
			if end := tr.StartTime + tr.ActiveDuration; end > anim.EndTime {
				anim.EndTime = end
			}
			tracks = append(tracks, tr)
		}
		if len(tracks) > 0 {
			anim.Targets = append(anim.Targets, ir.TargetTracks{Target: tk.Target, Tracks: tracks})
		}
	}
	return anim, nil
}

// CompileTrack validates and compiles one property's keyframes.
func CompileTrack(kf *ir.Keyframes, r PropertyResolver) (*ir.Track, error) {
	name := norm.NFC.String(kf.Property)
	ch, info, err := resolveProperty(name, r)
	if err != nil {
		return nil, err
	}

	if len(kf.Times) < 2 {
		return nil, &CompileError{
			Code:    ir.ErrCodeNotEnoughTimes,
			Field:   "times",
			Message: fmt.Sprintf("need at least 2 times, got %d", len(kf.Times)),
		}
	}
	if err := validateTimes(kf.Times); err != nil {
		return nil, err
	}
	if len(kf.Values) != len(kf.Times) {
		return nil, &CompileError{
			Code:    ir.ErrCodeValuesTimesMismatch,
			Field:   "values",
			Message: fmt.Sprintf("%d values do not match %d times", len(kf.Values), len(kf.Times)),
		}
	}

	iters := kf.Iterations
	if math.IsNaN(iters) || iters < 1 {
		iters = 1
	}

	times := append([]float64(nil), kf.Times...)
	start := times[0]
	tr := &ir.Track{
		Name:           name,
		Channel:        ch,
		Type:           info.Type,
		Kind:           info.Kind,
		StartTime:      start,
		ActiveDuration: (times[len(times)-1] - start) * iters,
		Times:          times,
		Iterations:     iters,
	}

	tr.Values = make([]ir.Value, len(kf.Values))
	for i, raw := range kf.Values {
		v, err := coerceValue(ch, info.Type, raw)
		if err != nil {
			return nil, withField(err, fmt.Sprintf("values[%d]", i), noPos)
		}
		tr.Values[i] = v
	}

	tr.Easing = fillEasing(kf.Easing, len(times)-1)

	if kf.MotionPath != nil && ch == ir.ChannelMotionDistance {
		pl, err := geom.Parse(kf.MotionPath.Data)
		if err != nil {
			return nil, &CompileError{
				Code:    ir.ErrCodeInvalidProperty,
				Field:   "motionPath",
				Message: err.Error(),
			}
		}
		tr.Motion = &ir.MotionPath{
			AutoRotate: kf.MotionPath.AutoRotate,
			Path:       pl,
			Length:     pl.Length(),
		}
	}
	return tr, nil
}

func resolveProperty(name string, r PropertyResolver) (ir.Channel, ir.PropertyInfo, error) {
	if ch, ok := ir.ChannelByName(name); ok {
		return ch, ir.PropertyInfo{Kind: ir.KindStyle, Type: ir.TypeNumber}, nil
	}
	if name == "" || strings.Contains(name, "-") {
		return ir.ChannelNone, ir.PropertyInfo{}, invalidProperty(name)
	}
	if info, ok := ir.BuiltinProperty(name); ok {
		return ir.ChannelNone, info, nil
	}
	if r != nil {
		if info, ok := r.ResolveProperty(name); ok {
			return ir.ChannelNone, info, nil
		}
	}
	return ir.ChannelNone, ir.PropertyInfo{}, invalidProperty(name)
}

func invalidProperty(name string) error {
	return &CompileError{
		Code:    ir.ErrCodeInvalidProperty,
		Field:   "property",
		Message: fmt.Sprintf("invalid property: %q", name),
	}
}

func validateTimes(times []float64) error {
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 || (i > 0 && t < times[i-1]) {
			return &CompileError{
				Code:    ir.ErrCodeInvalidTime,
				Field:   fmt.Sprintf("times[%d]", i),
				Message: fmt.Sprintf("invalid time: %s", cssval.FormatNumber(t)),
			}
		}
	}
	return nil
}

// fillEasing copies easing to exactly n segments, filling missing entries
// with the default ease-out. Nil entries are linear.
func fillEasing(easing []ir.Easing, n int) []ir.Easing {
	res := make([]ir.Easing, n)
	for i := range res {
		switch {
		case i >= len(easing):
			res[i] = ir.DefaultEasing
		case easing[i] == nil:
			res[i] = ir.Linear{}
		default:
			res[i] = easing[i]
		}
	}
	return res
}

// coerceValue converts a raw authored value to the representation of typ.
func coerceValue(ch ir.Channel, typ ir.TypeTag, raw any) (ir.Value, error) {
	if v, ok := raw.(ir.Value); ok && matchesType(typ, v) {
		return v, nil
	}
	switch typ {
	case ir.TypeNumber, ir.TypeLength:
		return coerceNumber(ch, raw)
	case ir.TypeColor:
		return coerceColor(raw), nil
	case ir.TypeLengthList:
		return coerceLengthList(raw), nil
	case ir.TypeFilter:
		s, ok := raw.(string)
		if !ok {
			return ir.FilterList{{Func: ir.FilterNone}}, nil
		}
		return cssval.ParseFilter(s), nil
	case ir.TypePath:
		s, ok := raw.(string)
		if !ok {
			return ir.Text(fmt.Sprint(raw)), nil
		}
		p, err := cssval.ParsePath(s)
		if err != nil {
			slog.Warn("unsupported path value, treating as discrete", "value", s, "error", err)
			return ir.Text(s), nil
		}
		return p, nil
	}
	return coerceText(raw), nil
}

func matchesType(typ ir.TypeTag, v ir.Value) bool {
	switch v.(type) {
	case ir.Number:
		return typ == ir.TypeNumber || typ == ir.TypeLength
	case ir.Color:
		return typ == ir.TypeColor
	case ir.LengthList:
		return typ == ir.TypeLengthList
	case ir.Path:
		return typ == ir.TypePath
	case ir.FilterList:
		return typ == ir.TypeFilter
	case ir.Text:
		return true
	}
	return false
}

func coerceNumber(ch ir.Channel, raw any) (ir.Value, error) {
	var f float64
	var err error
	if s, ok := raw.(string); ok && ch == ir.ChannelMotionDistance {
		// a trailing percent sign is allowed on motion distances
		f, _ = cssval.LeadingFloat(s)
	} else {
		f, err = cssval.ParseNumber(raw)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &CompileError{
			Code:    ir.ErrCodeNonFinite,
			Field:   "value",
			Message: fmt.Sprintf("non-finite value: %v", raw),
		}
	}
	return ir.Number(f), nil
}

func coerceColor(raw any) ir.Value {
	switch c := raw.(type) {
	case string:
		if v, ok := cssval.ParseColor(c); ok {
			return v
		}
		slog.Warn("unsupported color", "value", c)
		return ir.Color(0)
	case int:
		return ir.Color(uint32(c))
	case int64:
		return ir.Color(uint32(c))
	case float64:
		return ir.Color(uint32(c))
	}
	slog.Warn("unsupported color", "value", raw)
	return ir.Color(0)
}

func coerceLengthList(raw any) ir.Value {
	switch l := raw.(type) {
	case string:
		res, ok := cssval.ParseLengthList(l)
		if !ok {
			slog.Warn("unsupported value", "value", l)
		}
		return res
	case []float64:
		return ir.LengthList(append([]float64(nil), l...))
	case []any:
		res := make(ir.LengthList, 0, len(l))
		for _, item := range l {
			f, err := cssval.ParseNumber(item)
			if err != nil {
				slog.Warn("unsupported value", "value", raw)
				return ir.LengthList{0}
			}
			res = append(res, f)
		}
		return res
	}
	return ir.LengthList{0}
}

func coerceText(raw any) ir.Value {
	switch v := raw.(type) {
	case string:
		return ir.Text(v)
	case ir.Text:
		return v
	case float64:
		return ir.Text(cssval.FormatNumber(v))
	case int:
		return ir.Text(cssval.FormatNumber(float64(v)))
	case ir.Number:
		return ir.Text(cssval.FormatNumber(float64(v)))
	}
	return ir.Text(fmt.Sprint(raw))
}
