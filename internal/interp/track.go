package interp

import (
	"math"

	"github.com/roach88/keyframe/internal/ir"
)

// segmentIndex returns the first index whose time exceeds simpleTime
// (offset by the track start), or the last index.
func segmentIndex(tr *ir.Track, simpleTime float64) int {
	q := simpleTime + tr.StartTime
	for i, tm := range tr.Times {
		if q < tm {
			return i
		}
	}
	return len(tr.Times) - 1
}

// Resolve returns the value of tr at simpleTime, a time already wrapped
// into one iteration's span.
func Resolve(tr *ir.Track, simpleTime float64) ir.Value {
	i := segmentIndex(tr, simpleTime)
	if i == 0 {
		i = 1
	}
	t1 := tr.Times[i-1] - tr.StartTime
	t2 := tr.Times[i] - tr.StartTime
	t := 1.0
	if t2 != t1 {
		t = (simpleTime - t1) / (t2 - t1)
	}
	if i-1 < len(tr.Easing) {
		t = Ease(tr.Easing[i-1], t)
	}
	return Interpolate(tr.Type, tr.Values[i-1], tr.Values[i], t)
}

// Sample returns the value of tr at timeline time cur.
//
// Zero-length tracks return their last value. Times at or before the start
// return the first value. Past the active duration the track holds the
// value where its last iteration ended, which is only the last keyframe
// when the active duration is a whole number of iterations.
func Sample(tr *ir.Track, cur float64) ir.Value {
	last := len(tr.Values) - 1
	dur := tr.Duration()
	switch {
	case dur == 0:
		return tr.Values[last]
	case cur <= tr.StartTime:
		return tr.Values[0]
	case cur >= tr.StartTime+tr.ActiveDuration:
		rem := math.Mod(tr.ActiveDuration, dur)
		if rem == 0 {
			return tr.Values[last]
		}
		return Resolve(tr, rem)
	default:
		return Resolve(tr, math.Mod(cur-tr.StartTime, dur))
	}
}
