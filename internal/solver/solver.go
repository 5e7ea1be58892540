// Package solver provides the closed-form root finders behind cubic-bezier
// easing.
//
// All functions are pure. Each solver returns the single root that lies in
// [0, 1], trying candidates in a fixed order. When no candidate is in range
// the result is 0, never an error.
package solver

import "math"

// cubeRoot returns the real cube root of a, preserving sign.
func cubeRoot(a float64) float64 {
	if a >= 0 {
		return math.Pow(a, 1.0/3.0)
	}
	return -math.Pow(-a, 1.0/3.0)
}

func in01(x float64) bool {
	return x >= 0 && x <= 1
}

// QuadraticIn01 solves ax^2 + bx + c = 0 and returns the root in [0, 1].
// If a is zero the equation degenerates to bx + c = 0.
func QuadraticIn01(a, b, c float64) float64 {
	if a == 0 {
		return -c / b
	}

	sqrtDisc := math.Sqrt(b*b - 4.0*a*c)
	x := (-b + sqrtDisc) / (2.0 * a)
	if in01(x) {
		return x
	}

	x = (-b - sqrtDisc) / (2.0 * a)
	if in01(x) {
		return x
	}

	return 0
}

// CubicIn01 solves ax^3 + bx^2 + cx + d = 0 and returns the real root in
// [0, 1].
//
// The equation is reduced to depressed form with discriminant h and then
// split into three cases: a triple root, three unequal real roots (solved
// trigonometrically) and one real root with a complex pair. Candidates are
// tried in the order x1, x2, x3.
func CubicIn01(a, b, c, d float64) float64 {
	if a == 0 {
		return QuadraticIn01(b, c, d)
	}

	f := c/a - ((b*b)/(a*a))/3.0
	g := ((b*b*b)/(a*a*a))/13.5 - b*c/(a*a)/3.0 + d/a
	h := g*g/4.0 + f*f*f/27.0
	p := -b / (3.0 * a)

	if h <= 0 {
		if f == 0 && g == 0 {
			// triple root; evaluating k below would divide by zero
			return -cubeRoot(d / a)
		}

		j := math.Sqrt(g*g/4.0 - h)
		k := math.Acos(-g / 2.0 / j)
		m := math.Cos(k / 3.0)
		n := math.Sqrt(3.0) * math.Sin(k/3.0)
		j = cubeRoot(j)

		x := 2.0*j*m + p
		if in01(x) {
			return x
		}
		x = -j*(m+n) + p
		if in01(x) {
			return x
		}
		x = j*(n-m) + p
		if in01(x) {
			return x
		}
		return 0
	}

	r := -g/2.0 + math.Sqrt(h)
	s := cubeRoot(r)
	t := -g/2.0 - math.Sqrt(h)
	u := cubeRoot(t)

	x := s + u + p
	if in01(x) {
		return x
	}
	// real part of the complex pair
	x = -(s+u)/2.0 + p
	if in01(x) {
		return x
	}
	return 0
}

// CubicBezierY returns the y coordinate of the unit cubic bezier with
// control points (x1, y1) and (x2, y2) at horizontal position x.
//
// The end points are fixed at (0, 0) and (1, 1), so x at or beyond the
// boundaries returns exactly 0 or 1.
func CubicBezierY(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	// x(t) = 3t(1-t)^2 x1 + 3t^2(1-t) x2 + t^3, rearranged into a cubic in t
	a := 3*x1 - 3*x2 + 1
	b := -6*x1 + 3*x2
	c := 3 * x1
	d := -x
	t := CubicIn01(a, b, c, d)

	return 3*t*(1-t)*(1-t)*y1 + 3*t*t*(1-t)*y2 + t*t*t
}
