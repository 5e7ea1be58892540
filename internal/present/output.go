package present

import (
	"log/slog"
	"math"
	"strings"

	"github.com/roach88/keyframe/internal/cssval"
	"github.com/roach88/keyframe/internal/ir"
)

// CaptureBaseTransform parses the element's transform attribute into
// channel values. An element is parsed once; later calls keep the values
// animation has written since.
func (d *Document) CaptureBaseTransform(target ir.Target) {
	if el, ok := target.(*Element); ok {
		el.ensureTransform()
	}
}

// SetValue writes one resolved track value.
func (d *Document) SetValue(target ir.Target, tr *ir.Track, v ir.Value) {
	el, ok := target.(*Element)
	if !ok {
		slog.Warn("skipping write to unknown target", "property", tr.Name)
		return
	}

	if tr.Channel.IsTransform() {
		n, ok := v.(ir.Number)
		if !ok {
			return
		}
		el.ensureTransform()
		el.transform[tr.Channel] = float64(n)
		if tr.Channel == ir.ChannelMotionDistance {
			el.motion = tr.Motion
		}
		return
	}

	s := cssval.Format(tr.Type, v)
	if tr.Kind == ir.KindAttribute {
		el.SetAttr(tr.Name, s)
	} else {
		el.SetStyle(tr.Name, s)
	}
	d.emit(Sample{Target: el.id, Property: tr.Name, Kind: tr.Kind, Type: tr.Type, Raw: v, Value: s})
}

// ApplyTransform composes the element's channel values into its transform
// attribute.
func (d *Document) ApplyTransform(target ir.Target) {
	el, ok := target.(*Element)
	if !ok {
		return
	}
	el.ensureTransform()
	s := ComposeTransform(*el.transform, el.motion)
	el.SetAttr("transform", s)
	d.emit(Sample{Target: el.id, Property: "transform", Kind: ir.KindAttribute, Type: ir.TypeString, Raw: ir.Text(s), Value: s})
}

// ComposeTransform renders channel values as a transform attribute:
//
//	translate(path point) rotate(path tangent) translate(pos) rotate skewX skewY scale translate(anchor)
//
// The motion path terms appear only when motion is set, the tangent only
// with auto-rotate. Channels at their default value are omitted.
func ComposeTransform(tr ir.Transform, motion *ir.MotionPath) string {
	var parts []string
	num := cssval.FormatNumber

	if motion != nil && motion.Path != nil {
		dist := math.Min(math.Max(tr[ir.ChannelMotionDistance], 0), 100)
		dist = dist * motion.Length / 100
		x, y := motion.Path.PointAt(dist)
		parts = append(parts, "translate("+num(x)+","+num(y)+")")

		if motion.AutoRotate {
			// tangent from a point half a unit away
			px, py := x, y
			if dist < 0.5 {
				x, y = motion.Path.PointAt(0.5)
			} else {
				px, py = motion.Path.PointAt(dist - 0.5)
			}
			deg := math.Atan2(y-py, x-px) * 180 / math.Pi
			parts = append(parts, "rotate("+num(deg)+")")
		}
	}

	for c := ir.ChannelPosX; c < ir.NumChannels; c++ {
		v := tr[c]
		if v == c.Default() {
			continue
		}
		var p string
		switch c {
		case ir.ChannelPosX, ir.ChannelAnchorX:
			p = "translate(" + num(v) + ",0)"
		case ir.ChannelPosY, ir.ChannelAnchorY:
			p = "translate(0," + num(v) + ")"
		case ir.ChannelScaleX:
			p = "scale(" + num(v) + ",1)"
		case ir.ChannelScaleY:
			p = "scale(1," + num(v) + ")"
		default:
			p = c.String() + "(" + num(v) + ")"
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}
