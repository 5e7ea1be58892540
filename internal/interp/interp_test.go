package interp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/keyframe/internal/ir"
)

func TestInterpolate_Number(t *testing.T) {
	got := Interpolate(ir.TypeNumber, ir.Number(10), ir.Number(20), 0.25)
	assert.Equal(t, ir.Number(12.5), got)

	got = Interpolate(ir.TypeLength, ir.Number(-4), ir.Number(4), 0.5)
	assert.Equal(t, ir.Number(0), got)
}

func TestInterpolate_StringIsDiscrete(t *testing.T) {
	assert.Equal(t, ir.Text("a"), Interpolate(ir.TypeString, ir.Text("a"), ir.Text("b"), 0.49))
	assert.Equal(t, ir.Text("b"), Interpolate(ir.TypeString, ir.Text("a"), ir.Text("b"), 0.5))
}

func TestInterpolate_ColorChannelwise(t *testing.T) {
	got := Interpolate(ir.TypeColor, ir.Color(0xFF0000FF), ir.Color(0x0000FFFF), 0.5)
	c, ok := got.(ir.Color)
	require.True(t, ok)
	r, g, b, a := c.Channels()
	assert.InDelta(t, 0x80, int(r), 1)
	assert.Equal(t, uint8(0), g)
	assert.InDelta(t, 0x80, int(b), 1)
	assert.Equal(t, uint8(0xFF), a)
}

func TestInterpolate_ColorGradientFallsBackToDiscrete(t *testing.T) {
	grad := ir.Text("url(#g1)")
	assert.Equal(t, ir.Value(ir.Color(0xFF0000FF)), Interpolate(ir.TypeColor, ir.Color(0xFF0000FF), grad, 0.2))
	assert.Equal(t, ir.Value(grad), Interpolate(ir.TypeColor, ir.Color(0xFF0000FF), grad, 0.7))
}

func TestInterpolate_LengthListReplicateAndPair(t *testing.T) {
	got := Interpolate(ir.TypeLengthList, ir.LengthList{0, 10}, ir.LengthList{5}, 0.5)
	assert.Equal(t, ir.LengthList{2.5, 7.5}, got)
}

func TestInterpolate_LengthListMismatchedProduct(t *testing.T) {
	got := Interpolate(ir.TypeLengthList, ir.LengthList{1, 2}, ir.LengthList{3, 4, 5}, 0)
	assert.Equal(t, ir.LengthList{1, 2, 1, 2, 1, 2}, got)
}

func TestInterpolate_LengthListEmptyAndNegative(t *testing.T) {
	got := Interpolate(ir.TypeLengthList, ir.LengthList{}, ir.LengthList{10}, 0.5)
	assert.Equal(t, ir.LengthList{5}, got)

	got = Interpolate(ir.TypeLengthList, ir.LengthList{-10}, ir.LengthList{2}, 0.5)
	assert.Equal(t, ir.LengthList{0}, got)
}

func TestInterpolate_PathCompatible(t *testing.T) {
	p1 := ir.Path{{Op: 'M', Coords: []float64{0, 0}}, {Op: 'L', Coords: []float64{10, 10}}, {Op: 'Z'}}
	p2 := ir.Path{{Op: 'M', Coords: []float64{10, 0}}, {Op: 'L', Coords: []float64{20, 30}}, {Op: 'Z'}}
	got := Interpolate(ir.TypePath, p1, p2, 0.5)
	want := ir.Path{{Op: 'M', Coords: []float64{5, 0}}, {Op: 'L', Coords: []float64{15, 20}}, {Op: 'Z', Coords: []float64{}}}
	assert.Equal(t, want, got)
}

func TestInterpolate_PathMismatchIsDiscrete(t *testing.T) {
	p1 := ir.Path{{Op: 'M', Coords: []float64{0, 0}}, {Op: 'L', Coords: []float64{10, 10}}}
	p2 := ir.Path{{Op: 'M', Coords: []float64{0, 0}}, {Op: 'C', Coords: []float64{1, 1, 2, 2, 3, 3}}}
	p3 := ir.Path{{Op: 'M', Coords: []float64{0, 0}}}

	assert.Equal(t, ir.Value(p1), Interpolate(ir.TypePath, p1, p2, 0.3))
	assert.Equal(t, ir.Value(p2), Interpolate(ir.TypePath, p1, p2, 0.6))
	assert.Equal(t, ir.Value(p3), Interpolate(ir.TypePath, p1, p3, 0.9))
}

func TestInterpolate_FilterCompatible(t *testing.T) {
	f1 := ir.FilterList{
		{Func: ir.FilterBlur, Amount: 0},
		{Func: ir.FilterDropShadow, DX: 0, DY: 0, Blur: 0, Shadow: 0x000000FF},
	}
	f2 := ir.FilterList{
		{Func: ir.FilterBlur, Amount: 4},
		{Func: ir.FilterDropShadow, DX: 10, DY: 20, Blur: 2, Shadow: 0x000000FF},
	}
	got := Interpolate(ir.TypeFilter, f1, f2, 0.5)
	want := ir.FilterList{
		{Func: ir.FilterBlur, Amount: 2},
		{Func: ir.FilterDropShadow, DX: 5, DY: 10, Blur: 1, Shadow: 0x000000FF},
	}
	assert.Equal(t, want, got)
}

func TestInterpolate_FilterMismatchIsDiscrete(t *testing.T) {
	blur := ir.FilterList{{Func: ir.FilterBlur, Amount: 1}}
	sepia := ir.FilterList{{Func: ir.FilterSepia, Amount: 1}}
	url1 := ir.FilterList{{Func: ir.FilterURL, URL: "#a"}}
	url2 := ir.FilterList{{Func: ir.FilterURL, URL: "#b"}}
	two := ir.FilterList{{Func: ir.FilterBlur, Amount: 1}, {Func: ir.FilterSepia, Amount: 1}}

	assert.Equal(t, ir.Value(blur), Interpolate(ir.TypeFilter, blur, sepia, 0.4))
	assert.Equal(t, ir.Value(url2), Interpolate(ir.TypeFilter, url1, url2, 0.5))
	assert.Equal(t, ir.Value(two), Interpolate(ir.TypeFilter, blur, two, 0.5))
}

func TestInterpolate_MismatchedValueKindsAreDiscrete(t *testing.T) {
	assert.Equal(t, ir.Value(ir.Text("none")), Interpolate(ir.TypeLength, ir.Text("none"), ir.Number(3), 0.1))
}

func TestEase(t *testing.T) {
	assert.Equal(t, 0.3, Ease(ir.Linear{}, 0.3))
	assert.Equal(t, 0.3, Ease(nil, 0.3))
	assert.Equal(t, 0.5, Ease(ir.StepStart{N: 4}, 0.3))
	assert.Equal(t, 0.25, Ease(ir.StepEnd{N: 4}, 0.3))
	assert.Equal(t, 1.0, Ease(ir.StepEnd{N: 4}, 1))
	assert.InDelta(t, 0.3, Ease(ir.CubicBezier{X1: 0, Y1: 0, X2: 1, Y2: 1}, 0.3), 1e-9)
}

func TestPresetByName(t *testing.T) {
	p, ok := PresetByName("quad-in")
	require.True(t, ok)
	assert.Equal(t, "quad-in", p.Name)
	assert.InDelta(t, 0.25, Ease(p, 0.5), 1e-12)

	_, ok = PresetByName("wobble")
	assert.False(t, ok)

	names := PresetNames()
	assert.Contains(t, names, "bounce-out")
	assert.IsIncreasing(t, names)
}

func linearTrack(times []float64, values []float64, iterations float64) *ir.Track {
	vals := make([]ir.Value, len(values))
	for i, v := range values {
		vals[i] = ir.Number(v)
	}
	easing := make([]ir.Easing, len(times)-1)
	for i := range easing {
		easing[i] = ir.Linear{}
	}
	return &ir.Track{
		Name:           "opacity",
		Channel:        ir.ChannelNone,
		Type:           ir.TypeNumber,
		StartTime:      times[0],
		ActiveDuration: (times[len(times)-1] - times[0]) * iterations,
		Times:          times,
		Values:         vals,
		Easing:         easing,
		Iterations:     iterations,
	}
}

func TestResolve_Midpoint(t *testing.T) {
	tr := linearTrack([]float64{0, 1000}, []float64{0, 100}, 1)
	assert.Equal(t, ir.Number(50), Resolve(tr, 500))
}

func TestResolve_MultipleSegments(t *testing.T) {
	tr := linearTrack([]float64{100, 200, 400}, []float64{0, 10, 30}, 1)
	// simple time is relative to the start time
	assert.Equal(t, ir.Number(5), Resolve(tr, 50))
	assert.Equal(t, ir.Number(20), Resolve(tr, 200))
}

func TestResolve_DefaultEasingIsEaseOut(t *testing.T) {
	tr := linearTrack([]float64{0, 1000}, []float64{0, 100}, 1)
	tr.Easing = []ir.Easing{ir.DefaultEasing}
	v := float64(Resolve(tr, 500).(ir.Number))
	assert.Greater(t, v, 50.0)
}

func TestResolve_ShortEasingListIsLinear(t *testing.T) {
	tr := linearTrack([]float64{0, 100, 200}, []float64{0, 10, 20}, 1)
	tr.Easing = tr.Easing[:1]
	assert.Equal(t, ir.Number(15), Resolve(tr, 150))
}

func TestSample_Boundaries(t *testing.T) {
	tr := linearTrack([]float64{100, 300}, []float64{0, 100}, 1)
	assert.Equal(t, ir.Number(0), Sample(tr, 0))
	assert.Equal(t, ir.Number(0), Sample(tr, 100))
	assert.Equal(t, ir.Number(50), Sample(tr, 200))
	assert.Equal(t, ir.Number(100), Sample(tr, 300))
	assert.Equal(t, ir.Number(100), Sample(tr, 5000))
}

func TestSample_ZeroDuration(t *testing.T) {
	tr := linearTrack([]float64{200, 200}, []float64{1, 9}, 1)
	assert.Equal(t, ir.Number(9), Sample(tr, 0))
	assert.Equal(t, ir.Number(9), Sample(tr, 500))
}

func TestSample_Iterations(t *testing.T) {
	tr := linearTrack([]float64{0, 1000}, []float64{0, 100}, 3)
	assert.Equal(t, ir.Number(50), Sample(tr, 1500))
	assert.Equal(t, ir.Number(25), Sample(tr, 2250))
	assert.Equal(t, ir.Number(100), Sample(tr, 3000))
}

func TestSample_FractionalIterationsHoldUnalignedEnd(t *testing.T) {
	tr := linearTrack([]float64{0, 1000}, []float64{0, 100}, 1.5)
	assert.Equal(t, ir.Number(50), Sample(tr, 1500))
	assert.Equal(t, ir.Number(50), Sample(tr, 9000))
}

func TestSample_InfiniteIterations(t *testing.T) {
	tr := linearTrack([]float64{0, 1000}, []float64{0, 100}, math.Inf(1))
	assert.Equal(t, ir.Number(50), Sample(tr, 100500))
}
