package present

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roach88/keyframe/internal/ir"
)

// Swatch describes a color for terminal previews: its hex form plus the
// perceptual hue, chroma and lightness.
func Swatch(c ir.Color) string {
	r, g, b, a := c.Channels()
	col := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, ch, l := col.Hcl()
	return fmt.Sprintf("%s a=%d hcl(%.0f,%.2f,%.2f)", col.Hex(), a, h, ch, l)
}
