package compiler

import (
	"fmt"
	"math"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/keyframe/internal/ir"
)

// Scene is an authored animation document: timeline configuration, the
// elements it animates and their keyframes.
//
//	name:       "intro"
//	autoplay:   true
//	autoremove: false
//	loop:       2          // or true for unbounded
//	rate:       1
//	range:      [0, 1000]
//	markers: {start: 0, mid: 500}
//	elements: box: {attrs: {transform: "translate(10,0)"}, style: {fill: "#ff0000"}}
//	targets: box: [
//		{p: "posX", t: [0, 1000], v: [0, 100], e: ["linear"]},
//	]
type Scene struct {
	Name       string
	Autoplay   bool
	Autoremove bool
	Loop       float64
	Rate       float64
	// Range is nil when absent, otherwise [in] or [in, out].
	Range   []float64
	Markers map[string]float64

	Elements []SceneElement
	Targets  []SceneTarget
}

// SceneElement is the initial state of one presentation element.
type SceneElement struct {
	ID    string
	Attrs map[string]string
	Style map[string]string
}

// SceneTarget holds the keyframes for the element named ID.
type SceneTarget struct {
	ID        string
	Keyframes []ir.Keyframes
	Pos       token.Pos
	// KeyframePos has the source position of each keyframe entry.
	KeyframePos []token.Pos
}

// LoadScene reads and parses a scene document.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	return ParseSceneBytes(data, path)
}

// ParseSceneBytes parses CUE source into a Scene.
func ParseSceneBytes(src []byte, filename string) (*Scene, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return ParseScene(v)
}

// ParseScene parses a CUE value into a Scene.
// Uses CUE SDK's Go API directly (not CLI subprocess).
func ParseScene(v cue.Value) (*Scene, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	s := &Scene{Autoplay: true, Autoremove: true, Rate: 1}
	var err error

	if nv := v.LookupPath(cue.ParsePath("name")); nv.Exists() {
		if s.Name, err = nv.String(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if av := v.LookupPath(cue.ParsePath("autoplay")); av.Exists() {
		if s.Autoplay, err = av.Bool(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if av := v.LookupPath(cue.ParsePath("autoremove")); av.Exists() {
		if s.Autoremove, err = av.Bool(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if lv := v.LookupPath(cue.ParsePath("loop")); lv.Exists() {
		if s.Loop, err = countOrUnbounded(lv); err != nil {
			return nil, err
		}
	}
	if rv := v.LookupPath(cue.ParsePath("rate")); rv.Exists() {
		if s.Rate, err = rv.Float64(); err != nil {
			return nil, formatCUEError(err)
		}
	}
	if rv := v.LookupPath(cue.ParsePath("range")); rv.Exists() {
		if s.Range, err = floatList(rv); err != nil {
			return nil, err
		}
		if len(s.Range) == 0 || len(s.Range) > 2 {
			return nil, &CompileError{
				Code:    ir.ErrCodeInvalidRange,
				Field:   "range",
				Message: "range needs one or two times",
				Pos:     rv.Pos(),
			}
		}
	}
	if mv := v.LookupPath(cue.ParsePath("markers")); mv.Exists() {
		if s.Markers, err = parseMarkers(mv); err != nil {
			return nil, err
		}
	}
	if ev := v.LookupPath(cue.ParsePath("elements")); ev.Exists() {
		if s.Elements, err = parseElements(ev); err != nil {
			return nil, err
		}
	}

	tv := v.LookupPath(cue.ParsePath("targets"))
	if !tv.Exists() {
		return nil, &CompileError{
			Field:   "targets",
			Message: "targets is required",
			Pos:     v.Pos(),
		}
	}
	if s.Targets, err = parseTargets(tv); err != nil {
		return nil, err
	}
	return s, nil
}

// Compile compiles the scene's keyframes. resolve maps element ids to
// presentation targets.
func (s *Scene) Compile(resolve func(id string) ir.Target, r PropertyResolver) (*ir.Animation, error) {
	anim := &ir.Animation{}
	for _, st := range s.Targets {
		var tracks []*ir.Track
		for ki := range st.Keyframes {
			tr, err := CompileTrack(&st.Keyframes[ki], r)
			if err != nil {
				return nil, withField(err, fmt.Sprintf("targets.%s[%d]", st.ID, ki), st.KeyframePos[ki])
			}
			if end := tr.StartTime + tr.ActiveDuration; end > anim.EndTime {
				anim.EndTime = end
			}
			tracks = append(tracks, tr)
		}
		if len(tracks) > 0 {
			anim.Targets = append(anim.Targets, ir.TargetTracks{Target: resolve(st.ID), Tracks: tracks})
		}
	}
	return anim, nil
}

func countOrUnbounded(v cue.Value) (float64, error) {
	if b, err := v.Bool(); err == nil {
		if b {
			return math.Inf(1), nil
		}
		return 0, nil
	}
	f, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

func floatList(v cue.Value) ([]float64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var res []float64
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		res = append(res, f)
	}
	return res, nil
}

func parseMarkers(v cue.Value) (map[string]float64, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	res := make(map[string]float64)
	for iter.Next() {
		f, err := iter.Value().Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		res[norm.NFC.String(iter.Selector().Unquoted())] = f
	}
	return res, nil
}

func stringMap(v cue.Value) (map[string]string, error) {
	res := make(map[string]string)
	if !v.Exists() {
		return res, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		res[iter.Selector().Unquoted()] = s
	}
	return res, nil
}

func parseElements(v cue.Value) ([]SceneElement, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var res []SceneElement
	for iter.Next() {
		ev := iter.Value()
		el := SceneElement{ID: iter.Selector().Unquoted()}
		if el.Attrs, err = stringMap(ev.LookupPath(cue.ParsePath("attrs"))); err != nil {
			return nil, err
		}
		if el.Style, err = stringMap(ev.LookupPath(cue.ParsePath("style"))); err != nil {
			return nil, err
		}
		res = append(res, el)
	}
	return res, nil
}

func parseTargets(v cue.Value) ([]SceneTarget, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var res []SceneTarget
	for iter.Next() {
		tv := iter.Value()
		st := SceneTarget{ID: iter.Selector().Unquoted(), Pos: tv.Pos()}
		kfIter, err := tv.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for kfIter.Next() {
			kv := kfIter.Value()
			kf, err := parseKeyframes(kv)
			if err != nil {
				return nil, withField(err, "targets."+st.ID, kv.Pos())
			}
			st.Keyframes = append(st.Keyframes, kf)
			st.KeyframePos = append(st.KeyframePos, kv.Pos())
		}
		res = append(res, st)
	}
	return res, nil
}

// lookupShortOrLong returns the field under its short name, else its long
// name.
func lookupShortOrLong(v cue.Value, short, long string) cue.Value {
	if sv := v.LookupPath(cue.ParsePath(short)); sv.Exists() {
		return sv
	}
	return v.LookupPath(cue.ParsePath(long))
}

func parseKeyframes(v cue.Value) (ir.Keyframes, error) {
	var kf ir.Keyframes
	var err error

	pv := lookupShortOrLong(v, "p", "property")
	if !pv.Exists() {
		return kf, &CompileError{
			Code:    ir.ErrCodeInvalidProperty,
			Field:   "property",
			Message: "property is required",
			Pos:     v.Pos(),
		}
	}
	if kf.Property, err = pv.String(); err != nil {
		return kf, formatCUEError(err)
	}

	if tv := lookupShortOrLong(v, "t", "times"); tv.Exists() {
		if kf.Times, err = floatList(tv); err != nil {
			return kf, err
		}
	}

	if vv := lookupShortOrLong(v, "v", "values"); vv.Exists() {
		iter, err := vv.List()
		if err != nil {
			return kf, formatCUEError(err)
		}
		for iter.Next() {
			raw, err := rawValue(iter.Value())
			if err != nil {
				return kf, err
			}
			kf.Values = append(kf.Values, raw)
		}
	}

	if ev := lookupShortOrLong(v, "e", "easing"); ev.Exists() {
		iter, err := ev.List()
		if err != nil {
			return kf, formatCUEError(err)
		}
		for iter.Next() {
			e, err := parseEasingValue(iter.Value())
			if err != nil {
				return kf, withField(err, "", iter.Value().Pos())
			}
			kf.Easing = append(kf.Easing, e)
		}
	}

	if iv := v.LookupPath(cue.ParsePath("iterations")); iv.Exists() {
		if kf.Iterations, err = countOrUnbounded(iv); err != nil {
			return kf, err
		}
	}

	if mp := lookupShortOrLong(v, "mp", "motionPath"); mp.Exists() {
		data, err := mp.String()
		if err != nil {
			return kf, formatCUEError(err)
		}
		kf.MotionPath = &ir.MotionPathSpec{Data: data}
		if rv := v.LookupPath(cue.ParsePath("motionRotate")); rv.Exists() {
			if kf.MotionPath.AutoRotate, err = rv.Bool(); err != nil {
				return kf, formatCUEError(err)
			}
		}
	}
	return kf, nil
}

// rawValue converts a CUE keyframe value to float64, string or []any.
func rawValue(v cue.Value) (any, error) {
	switch v.IncompleteKind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return f, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var res []any
		for iter.Next() {
			item, err := rawValue(iter.Value())
			if err != nil {
				return nil, err
			}
			res = append(res, item)
		}
		return res, nil
	}
	return nil, &CompileError{
		Code:    ir.ErrCodeNonFinite,
		Field:   "values",
		Message: fmt.Sprintf("unsupported value kind %v", v.IncompleteKind()),
		Pos:     v.Pos(),
	}
}

func parseEasingValue(v cue.Value) (ir.Easing, error) {
	if s, err := v.String(); err == nil {
		return ParseEasing(s)
	}
	nums, err := floatList(v)
	if err != nil {
		return nil, err
	}
	return EasingFromNumbers(nums)
}
