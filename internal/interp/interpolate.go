// Package interp resolves compiled tracks to raw values.
//
// Interpolation dispatches on the track's type tag. Any pair of values that
// cannot be blended (different shapes, gradient references, url() filters)
// falls back to the discrete rule: the first value below t=0.5, the second
// from t=0.5 on. Interpolation never fails.
package interp

import "github.com/roach88/keyframe/internal/ir"

// Interpolate blends v1 and v2 at progress t according to typ.
func Interpolate(typ ir.TypeTag, v1, v2 ir.Value, t float64) ir.Value {
	switch typ {
	case ir.TypeNumber, ir.TypeLength:
		a, ok1 := v1.(ir.Number)
		b, ok2 := v2.(ir.Number)
		if ok1 && ok2 {
			return ir.Number(float64(b-a)*t + float64(a))
		}
	case ir.TypeColor:
		a, ok1 := v1.(ir.Color)
		b, ok2 := v2.(ir.Color)
		if ok1 && ok2 {
			return blendColor(a, b, t)
		}
	case ir.TypeLengthList:
		a, ok1 := v1.(ir.LengthList)
		b, ok2 := v2.(ir.LengthList)
		if ok1 && ok2 {
			return blendLengthList(a, b, t)
		}
	case ir.TypePath:
		a, ok1 := v1.(ir.Path)
		b, ok2 := v2.(ir.Path)
		if ok1 && ok2 {
			if p, ok := blendPath(a, b, t); ok {
				return p
			}
		}
	case ir.TypeFilter:
		a, ok1 := v1.(ir.FilterList)
		b, ok2 := v2.(ir.FilterList)
		if ok1 && ok2 {
			if f, ok := blendFilters(a, b, t); ok {
				return f
			}
		}
	}
	return discrete(v1, v2, t)
}

func discrete(v1, v2 ir.Value, t float64) ir.Value {
	if t < 0.5 {
		return v1
	}
	return v2
}

func lerp(a, b, t float64) float64 {
	return (b-a)*t + a
}

func clampChannel(n float64) uint8 {
	if n <= 0 {
		return 0
	}
	if n >= 255 {
		return 255
	}
	// truncates toward zero like an integer shift would
	return uint8(n)
}

func blendColor(c1, c2 ir.Color, t float64) ir.Color {
	r1, g1, b1, a1 := c1.Channels()
	r2, g2, b2, a2 := c2.Channels()
	nt := 1 - t
	return ir.RGBA(
		clampChannel(nt*float64(r1)+t*float64(r2)),
		clampChannel(nt*float64(g1)+t*float64(g2)),
		clampChannel(nt*float64(b1)+t*float64(b2)),
		clampChannel(nt*float64(a1)+t*float64(a2)),
	)
}

// blendLengthList pairs v1[i%len(v1)] with v2[i%len(v2)]. Lists of different
// length produce len(v1)*len(v2) entries. Empty lists count as [0].
func blendLengthList(v1, v2 ir.LengthList, t float64) ir.LengthList {
	if len(v1) == 0 {
		v1 = ir.LengthList{0}
	}
	if len(v2) == 0 {
		v2 = ir.LengthList{0}
	}
	n := len(v1)
	if len(v1) != len(v2) {
		n = len(v1) * len(v2)
	}
	res := make(ir.LengthList, n)
	for i := range res {
		r := lerp(v1[i%len(v1)], v2[i%len(v2)], t)
		if r < 0 {
			r = 0
		}
		res[i] = r
	}
	return res
}

func blendPath(p1, p2 ir.Path, t float64) (ir.Path, bool) {
	if len(p1) != len(p2) {
		return nil, false
	}
	res := make(ir.Path, len(p1))
	for i := range p1 {
		if p1[i].Op != p2[i].Op || len(p1[i].Coords) != len(p2[i].Coords) {
			return nil, false
		}
		coords := make([]float64, len(p1[i].Coords))
		for j := range coords {
			coords[j] = lerp(p1[i].Coords[j], p2[i].Coords[j], t)
		}
		res[i] = ir.PathCommand{Op: p1[i].Op, Coords: coords}
	}
	return res, true
}

func blendFilters(f1, f2 ir.FilterList, t float64) (ir.FilterList, bool) {
	if len(f1) != len(f2) {
		return nil, false
	}
	res := make(ir.FilterList, len(f1))
	for i := range f1 {
		a, b := f1[i], f2[i]
		if a.Func != b.Func || a.Func == ir.FilterURL {
			return nil, false
		}
		out := ir.Filter{Func: a.Func, Amount: lerp(a.Amount, b.Amount, t)}
		if a.Func == ir.FilterDropShadow {
			out.Amount = 0
			out.DX = lerp(a.DX, b.DX, t)
			out.DY = lerp(a.DY, b.DY, t)
			out.Blur = lerp(a.Blur, b.Blur, t)
			out.Shadow = blendColor(a.Shadow, b.Shadow, t)
		}
		res[i] = out
	}
	return res, true
}
