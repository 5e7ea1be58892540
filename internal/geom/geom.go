// Package geom samples path geometry for motion paths.
//
// A path is flattened once into line segments with cumulative lengths.
// Curves and arcs are subdivided into a fixed number of segments, so
// lengths are chord approximations.
package geom

import (
	"math"
	"sort"

	"github.com/roach88/keyframe/internal/cssval"
	"github.com/roach88/keyframe/internal/ir"
)

// curveSteps is the number of line segments per curve or arc.
const curveSteps = 24

type point struct {
	x, y float64
}

type segment struct {
	a, b  point
	start float64 // path length at a
	len   float64
}

// Polyline is a flattened path. The zero value is a path at the origin.
type Polyline struct {
	origin point
	segs   []segment
	total  float64
}

// Parse flattens path data. Empty data is "M0,0".
func Parse(data string) (*Polyline, error) {
	if data == "" {
		data = "M0,0"
	}
	p, err := cssval.ParsePath(data)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// New flattens parsed path commands.
func New(p ir.Path) *Polyline {
	b := &builder{}
	for _, c := range p {
		b.command(c)
	}
	return &b.pl
}

// Length returns the total path length. Moves between subpaths do not
// count.
func (pl *Polyline) Length() float64 {
	return pl.total
}

// PointAt returns the point at distance dist along the path, clamped to
// the path's extent.
func (pl *Polyline) PointAt(dist float64) (x, y float64) {
	if len(pl.segs) == 0 {
		return pl.origin.x, pl.origin.y
	}
	if dist <= 0 || math.IsNaN(dist) {
		s := pl.segs[0]
		return s.a.x, s.a.y
	}
	if dist >= pl.total {
		s := pl.segs[len(pl.segs)-1]
		return s.b.x, s.b.y
	}
	i := sort.Search(len(pl.segs), func(i int) bool {
		return pl.segs[i].start+pl.segs[i].len >= dist
	})
	s := pl.segs[i]
	if s.len == 0 {
		return s.a.x, s.a.y
	}
	t := (dist - s.start) / s.len
	return s.a.x + (s.b.x-s.a.x)*t, s.a.y + (s.b.y-s.a.y)*t
}

// AngleAt returns the tangent direction in degrees at dist, sampled from
// two points half a unit apart.
func (pl *Polyline) AngleAt(dist float64) float64 {
	var x0, y0, x1, y1 float64
	if dist < 0.5 {
		x0, y0 = pl.PointAt(dist)
		x1, y1 = pl.PointAt(0.5)
	} else {
		x0, y0 = pl.PointAt(dist - 0.5)
		x1, y1 = pl.PointAt(dist)
	}
	return math.Atan2(y1-y0, x1-x0) * 180 / math.Pi
}

type builder struct {
	pl       Polyline
	cur      point
	start    point
	ctrl     point // last control point for smooth curves
	lastOp   byte
	hasPoint bool
}

func (b *builder) line(to point) {
	l := math.Hypot(to.x-b.cur.x, to.y-b.cur.y)
	b.pl.segs = append(b.pl.segs, segment{a: b.cur, b: to, start: b.pl.total, len: l})
	b.pl.total += l
	b.cur = to
}

func (b *builder) move(to point) {
	b.cur = to
	b.start = to
	if !b.hasPoint {
		b.pl.origin = to
		b.hasPoint = true
	}
}

func (b *builder) cubic(c1, c2, to point) {
	p0 := b.cur
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		x := mt*mt*mt*p0.x + 3*mt*mt*t*c1.x + 3*mt*t*t*c2.x + t*t*t*to.x
		y := mt*mt*mt*p0.y + 3*mt*mt*t*c1.y + 3*mt*t*t*c2.y + t*t*t*to.y
		b.line(point{x, y})
	}
	b.cur = to
	b.ctrl = c2
}

func (b *builder) quad(c, to point) {
	p0 := b.cur
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		x := mt*mt*p0.x + 2*mt*t*c.x + t*t*to.x
		y := mt*mt*p0.y + 2*mt*t*c.y + t*t*to.y
		b.line(point{x, y})
	}
	b.cur = to
	b.ctrl = c
}

func (b *builder) command(c ir.PathCommand) {
	op := c.Op
	rel := op >= 'a' && op <= 'z'
	upper := op &^ 0x20
	abs := func(x, y float64) point {
		if rel {
			return point{b.cur.x + x, b.cur.y + y}
		}
		return point{x, y}
	}
	n := c.Coords
	switch upper {
	case 'M':
		for i := 0; i+1 < len(n); i += 2 {
			if i == 0 {
				b.move(abs(n[0], n[1]))
			} else {
				b.line(abs(n[i], n[i+1]))
			}
		}
	case 'L':
		for i := 0; i+1 < len(n); i += 2 {
			b.line(abs(n[i], n[i+1]))
		}
	case 'H':
		for _, x := range n {
			to := point{x, b.cur.y}
			if rel {
				to.x += b.cur.x
			}
			b.line(to)
		}
	case 'V':
		for _, y := range n {
			to := point{b.cur.x, y}
			if rel {
				to.y += b.cur.y
			}
			b.line(to)
		}
	case 'C':
		for i := 0; i+5 < len(n); i += 6 {
			b.cubic(abs(n[i], n[i+1]), abs(n[i+2], n[i+3]), abs(n[i+4], n[i+5]))
		}
	case 'S':
		for i := 0; i+3 < len(n); i += 4 {
			c1 := b.cur
			if b.lastOp == 'C' || b.lastOp == 'S' {
				c1 = point{2*b.cur.x - b.ctrl.x, 2*b.cur.y - b.ctrl.y}
			}
			b.cubic(c1, abs(n[i], n[i+1]), abs(n[i+2], n[i+3]))
			b.lastOp = 'S'
		}
	case 'Q':
		for i := 0; i+3 < len(n); i += 4 {
			b.quad(abs(n[i], n[i+1]), abs(n[i+2], n[i+3]))
		}
	case 'T':
		for i := 0; i+1 < len(n); i += 2 {
			c1 := b.cur
			if b.lastOp == 'Q' || b.lastOp == 'T' {
				c1 = point{2*b.cur.x - b.ctrl.x, 2*b.cur.y - b.ctrl.y}
			}
			b.quad(c1, abs(n[i], n[i+1]))
			b.lastOp = 'T'
		}
	case 'A':
		for i := 0; i+6 < len(n); i += 7 {
			b.arc(n[i], n[i+1], n[i+2], n[i+3] != 0, n[i+4] != 0, abs(n[i+5], n[i+6]))
		}
	case 'Z':
		b.line(b.start)
	}
	b.lastOp = upper
	if !b.hasPoint {
		b.hasPoint = true
		b.pl.origin = b.cur
	}
}

// arc flattens an elliptical arc using the endpoint to center
// parameterization conversion.
func (b *builder) arc(rx, ry, rotation float64, large, sweep bool, to point) {
	p0 := b.cur
	if p0 == to {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		b.line(to)
		return
	}
	phi := rotation * math.Pi / 180
	cos, sin := math.Cos(phi), math.Sin(phi)
	dx := (p0.x - to.x) / 2
	dy := (p0.y - to.y) / 2
	x1 := cos*dx + sin*dy
	y1 := -sin*dx + cos*dy

	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}
	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1 / ry
	cyp := -coef * ry * x1 / rx
	cx := cos*cxp - sin*cyp + (p0.x+to.x)/2
	cy := sin*cxp + cos*cyp + (p0.y+to.y)/2

	theta1 := math.Atan2((y1-cyp)/ry, (x1-cxp)/rx)
	theta2 := math.Atan2((-y1-cyp)/ry, (-x1-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}
	for i := 1; i < curveSteps; i++ {
		th := theta1 + delta*float64(i)/curveSteps
		b.line(point{
			x: cos*rx*math.Cos(th) - sin*ry*math.Sin(th) + cx,
			y: sin*rx*math.Cos(th) + cos*ry*math.Sin(th) + cy,
		})
	}
	b.line(to)
}
