package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, d string) *Polyline {
	t.Helper()
	pl, err := Parse(d)
	require.NoError(t, err)
	return pl
}

func TestLine(t *testing.T) {
	pl := mustParse(t, "M0,0 L100,0")
	assert.Equal(t, 100.0, pl.Length())

	x, y := pl.PointAt(25)
	assert.Equal(t, 25.0, x)
	assert.Equal(t, 0.0, y)
}

func TestClosedSquare(t *testing.T) {
	pl := mustParse(t, "M0,0 H10 V10 H0 Z")
	assert.InDelta(t, 40.0, pl.Length(), 1e-9)

	x, y := pl.PointAt(15)
	assert.InDelta(t, 10.0, x, 1e-9)
	assert.InDelta(t, 5.0, y, 1e-9)
}

func TestRelativeCommands(t *testing.T) {
	pl := mustParse(t, "m10,10 l10,0 v10 h-10")
	assert.InDelta(t, 30.0, pl.Length(), 1e-9)

	x, y := pl.PointAt(5)
	assert.InDelta(t, 15.0, x, 1e-9)
	assert.InDelta(t, 10.0, y, 1e-9)
}

func TestImplicitLineAfterMove(t *testing.T) {
	pl := mustParse(t, "M0,0,3,4")
	assert.InDelta(t, 5.0, pl.Length(), 1e-9)
}

func TestCubicOnStraightLine(t *testing.T) {
	pl := mustParse(t, "M0,0 C10,0 20,0 30,0")
	assert.InDelta(t, 30.0, pl.Length(), 1e-9)
}

func TestSmoothCubicReflectsControlPoint(t *testing.T) {
	pl := mustParse(t, "M0,0 C0,10 10,10 10,0 S20,-10 20,0")
	x, y := pl.PointAt(pl.Length())
	assert.InDelta(t, 20.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
	// the two halves mirror each other, so the middle lies on the axis
	_, my := pl.PointAt(pl.Length() / 2)
	assert.InDelta(t, 0.0, my, 0.5)
}

func TestQuadratic(t *testing.T) {
	pl := mustParse(t, "M0,0 Q50,0 100,0 T200,0")
	assert.InDelta(t, 200.0, pl.Length(), 1e-9)
}

func TestArcSemicircle(t *testing.T) {
	pl := mustParse(t, "M0,0 A50,50 0 0,1 100,0")
	assert.InDelta(t, 50*math.Pi, pl.Length(), 0.5)

	x, y := pl.PointAt(pl.Length() / 2)
	assert.InDelta(t, 50.0, x, 0.5)
	assert.InDelta(t, 50.0, math.Abs(y), 0.5)

	ex, ey := pl.PointAt(pl.Length())
	assert.Equal(t, 100.0, ex)
	assert.Equal(t, 0.0, ey)
}

func TestArcZeroRadiusIsLine(t *testing.T) {
	pl := mustParse(t, "M0,0 A0,0 0 0,1 30,40")
	assert.InDelta(t, 50.0, pl.Length(), 1e-9)
}

func TestPointAtClamps(t *testing.T) {
	pl := mustParse(t, "M5,5 L15,5")
	x, y := pl.PointAt(-10)
	assert.Equal(t, 5.0, x)
	assert.Equal(t, 5.0, y)

	x, _ = pl.PointAt(1000)
	assert.Equal(t, 15.0, x)
}

func TestEmptyPathIsOrigin(t *testing.T) {
	pl := mustParse(t, "")
	assert.Equal(t, 0.0, pl.Length())
	x, y := pl.PointAt(10)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	pl = mustParse(t, "M7,8")
	x, y = pl.PointAt(0)
	assert.Equal(t, 7.0, x)
	assert.Equal(t, 8.0, y)
}

func TestAngleAt(t *testing.T) {
	pl := mustParse(t, "M0,0 L10,0 L10,10")
	assert.InDelta(t, 0.0, pl.AngleAt(0), 1e-9)
	assert.InDelta(t, 0.0, pl.AngleAt(5), 1e-9)
	assert.InDelta(t, 90.0, pl.AngleAt(15), 1e-9)
}

func TestParseError(t *testing.T) {
	_, err := Parse("12 34")
	assert.Error(t, err)
}
