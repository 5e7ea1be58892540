package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyframe/internal/ir"
)

type stubResolver map[string]ir.PropertyInfo

func (s stubResolver) ResolveProperty(name string) (ir.PropertyInfo, bool) {
	info, ok := s[name]
	return info, ok
}

func TestCompileTrack_TransformChannel(t *testing.T) {
	tr, err := CompileTrack(&ir.Keyframes{
		Property: "posX",
		Times:    []float64{100, 600},
		Values:   []any{0, 50.5},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, ir.ChannelPosX, tr.Channel)
	assert.Equal(t, ir.TypeNumber, tr.Type)
	assert.Equal(t, 100.0, tr.StartTime)
	assert.Equal(t, 500.0, tr.ActiveDuration)
	assert.Equal(t, 500.0, tr.Duration())
	assert.Equal(t, []ir.Value{ir.Number(0), ir.Number(50.5)}, tr.Values)
	assert.Equal(t, []ir.Easing{ir.DefaultEasing}, tr.Easing)
	assert.Equal(t, 1.0, tr.Iterations)
}

func TestCompileTrack_EasingBackFill(t *testing.T) {
	tr, err := CompileTrack(&ir.Keyframes{
		Property: "opacity",
		Times:    []float64{0, 100, 200, 300},
		Values:   []any{0, 1, 0, 1},
		Easing:   []ir.Easing{ir.StepEnd{N: 2}, nil, ir.Linear{}, ir.Linear{}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Easing{ir.StepEnd{N: 2}, ir.Linear{}, ir.Linear{}}, tr.Easing)

	tr, err = CompileTrack(&ir.Keyframes{
		Property: "opacity",
		Times:    []float64{0, 100, 200},
		Values:   []any{0, 1, 0},
		Easing:   []ir.Easing{ir.Linear{}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Easing{ir.Linear{}, ir.DefaultEasing}, tr.Easing)
}

func TestCompileTrack_Iterations(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{0.5, 1},
		{math.NaN(), 1},
		{2.5, 2.5},
		{math.Inf(1), math.Inf(1)},
	}
	for _, tt := range tests {
		tr, err := CompileTrack(&ir.Keyframes{
			Property:   "rotate",
			Times:      []float64{0, 100},
			Values:     []any{0, 90},
			Iterations: tt.in,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, tr.Iterations)
		assert.Equal(t, 100*tt.want, tr.ActiveDuration)
	}
}

func TestCompileTrack_Errors(t *testing.T) {
	tests := []struct {
		name string
		kf   ir.Keyframes
		code ir.ErrorCode
	}{
		{"empty property", ir.Keyframes{Property: "", Times: []float64{0, 1}, Values: []any{0, 1}}, ir.ErrCodeInvalidProperty},
		{"dashed property", ir.Keyframes{Property: "stroke-width", Times: []float64{0, 1}, Values: []any{0, 1}}, ir.ErrCodeInvalidProperty},
		{"unknown property", ir.Keyframes{Property: "wobble", Times: []float64{0, 1}, Values: []any{0, 1}}, ir.ErrCodeInvalidProperty},
		{"one time", ir.Keyframes{Property: "opacity", Times: []float64{0}, Values: []any{0}}, ir.ErrCodeNotEnoughTimes},
		{"negative first time", ir.Keyframes{Property: "opacity", Times: []float64{-1, 1}, Values: []any{0, 1}}, ir.ErrCodeInvalidTime},
		{"infinite time", ir.Keyframes{Property: "opacity", Times: []float64{0, math.Inf(1)}, Values: []any{0, 1}}, ir.ErrCodeInvalidTime},
		{"decreasing times", ir.Keyframes{Property: "opacity", Times: []float64{0, 10, 5}, Values: []any{0, 1, 2}}, ir.ErrCodeInvalidTime},
		{"value count", ir.Keyframes{Property: "opacity", Times: []float64{0, 1}, Values: []any{0}}, ir.ErrCodeValuesTimesMismatch},
		{"non-finite length", ir.Keyframes{Property: "width", Times: []float64{0, 1}, Values: []any{"wide", 1}}, ir.ErrCodeNonFinite},
		{"NaN number", ir.Keyframes{Property: "posY", Times: []float64{0, 1}, Values: []any{math.NaN(), 1}}, ir.ErrCodeNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileTrack(&tt.kf, nil)
			require.Error(t, err)
			assert.True(t, IsCompileError(err))
			assert.Equal(t, tt.code, ir.CodeOf(err))
		})
	}
}

func TestCompileTrack_ResolverFallback(t *testing.T) {
	r := stubResolver{
		"visibility": {Kind: ir.KindStyle, Type: ir.TypeString},
		"stopColor":  {Kind: ir.KindStyle, Type: ir.TypeColor},
	}
	tr, err := CompileTrack(&ir.Keyframes{Property: "visibility", Times: []float64{0, 1}, Values: []any{"hidden", "visible"}}, r)
	require.NoError(t, err)
	assert.Equal(t, ir.TypeString, tr.Type)
	assert.Equal(t, []ir.Value{ir.Text("hidden"), ir.Text("visible")}, tr.Values)

	tr, err = CompileTrack(&ir.Keyframes{Property: "stopColor", Times: []float64{0, 1}, Values: []any{"#ff0000", "#00ff00"}}, r)
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{ir.Color(0xFF0000FF), ir.Color(0x00FF00FF)}, tr.Values)
}

func TestCompileTrack_ValueCoercion(t *testing.T) {
	tr, err := CompileTrack(&ir.Keyframes{Property: "fill", Times: []float64{0, 1}, Values: []any{"url(#g)", "bogus"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{ir.Text("url(#g)"), ir.Color(0)}, tr.Values)

	tr, err = CompileTrack(&ir.Keyframes{Property: "strokeDasharray", Times: []float64{0, 1}, Values: []any{"4 2", []any{1.0, 3.0}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{ir.LengthList{4, 2}, ir.LengthList{1, 3}}, tr.Values)

	tr, err = CompileTrack(&ir.Keyframes{Property: "d", Times: []float64{0, 1}, Values: []any{"M0,0L1,1", "M0,0L2,2"}}, nil)
	require.NoError(t, err)
	assert.IsType(t, ir.Path{}, tr.Values[0])

	tr, err = CompileTrack(&ir.Keyframes{Property: "filter", Times: []float64{0, 1}, Values: []any{"blur(1px)", "none"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.FilterList{{Func: ir.FilterBlur, Amount: 1}}, tr.Values[0])

	tr, err = CompileTrack(&ir.Keyframes{Property: "mpath", Times: []float64{0, 1}, Values: []any{"0%", "100%"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{ir.Number(0), ir.Number(100)}, tr.Values)

	tr, err = CompileTrack(&ir.Keyframes{Property: "opacity", Times: []float64{0, 1}, Values: []any{ir.Number(0.2), "0.8"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []ir.Value{ir.Number(0.2), ir.Number(0.8)}, tr.Values)
}

func TestCompileTrack_MotionPath(t *testing.T) {
	tr, err := CompileTrack(&ir.Keyframes{
		Property:   "mpath",
		Times:      []float64{0, 1000},
		Values:     []any{0, 100},
		MotionPath: &ir.MotionPathSpec{Data: "M0,0 L200,0", AutoRotate: true},
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, tr.Motion)
	assert.True(t, tr.Motion.AutoRotate)
	assert.Equal(t, 200.0, tr.Motion.Length)

	// motion paths on other properties are ignored
	tr, err = CompileTrack(&ir.Keyframes{
		Property:   "posX",
		Times:      []float64{0, 1000},
		Values:     []any{0, 100},
		MotionPath: &ir.MotionPathSpec{Data: "M0,0 L200,0"},
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, tr.Motion)
}

func TestCompileTrack_NormalizesPropertyName(t *testing.T) {
	// decomposed "e" + combining acute resolves to the precomposed form
	r := stubResolver{"caf\u00e9": {Kind: ir.KindAttribute, Type: ir.TypeString}}
	tr, err := CompileTrack(&ir.Keyframes{Property: "cafe\u0301", Times: []float64{0, 1}, Values: []any{"a", "b"}}, r)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", tr.Name)
}

func TestCompile_EndTimeAndTargets(t *testing.T) {
	a, b := "a", "b"
	anim, err := Compile([]ir.TargetKeyframes{
		{Target: a, Keyframes: []ir.Keyframes{
			{Property: "posX", Times: []float64{0, 1000}, Values: []any{0, 1}},
			{Property: "posY", Times: []float64{500, 1000}, Values: []any{0, 1}, Iterations: 3},
		}},
		{Target: b},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, anim.EndTime)
	require.Len(t, anim.Targets, 1)
	assert.Equal(t, ir.Target(a), anim.Targets[0].Target)
	assert.Len(t, anim.Targets[0].Tracks, 2)
}

func TestCompile_ErrorNamesKeyframe(t *testing.T) {
	_, err := Compile([]ir.TargetKeyframes{
		{Target: "a", Keyframes: []ir.Keyframes{
			{Property: "posX", Times: []float64{0, 1000}, Values: []any{0, 1}},
			{Property: "posX", Times: []float64{0, 1000}, Values: []any{0}},
		}},
	}, nil)
	require.Error(t, err)
	assert.Equal(t, ir.ErrCodeValuesTimesMismatch, ir.CodeOf(err))
	assert.Contains(t, err.Error(), "targets[0].keyframes[1].values")
}
