package cssval

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/keyframe/internal/ir"
)

// FormatNumber renders f the way a script host prints numbers: shortest
// round-trip decimal, exponent form only for very large or small values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// 1e-07 -> 1e-7
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[0]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + string(sign) + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatColor renders a packed color as rgba(r,g,b,a) with alpha in [0,1].
func FormatColor(c ir.Color) string {
	r, g, b, a := c.Channels()
	var sb strings.Builder
	sb.WriteString("rgba(")
	sb.WriteString(strconv.Itoa(int(r)))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(int(g)))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(int(b)))
	sb.WriteByte(',')
	sb.WriteString(FormatNumber(float64(a) / 255))
	sb.WriteByte(')')
	return sb.String()
}

// FormatPath renders path commands with comma separated coordinates.
func FormatPath(p ir.Path) string {
	var sb strings.Builder
	for _, c := range p {
		sb.WriteByte(c.Op)
		for i, n := range c.Coords {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(FormatNumber(n))
		}
	}
	return sb.String()
}

// FormatFilter renders a filter list. Negative amounts clamp to zero for
// the amount filters.
func FormatFilter(fl ir.FilterList) string {
	if len(fl) == 0 || fl[0].Func == ir.FilterNone {
		return "none"
	}
	parts := make([]string, 0, len(fl))
	for _, f := range fl {
		name := f.Func.String()
		switch f.Func {
		case ir.FilterURL:
			parts = append(parts, name+"("+f.URL+")")
		case ir.FilterDropShadow:
			parts = append(parts, name+"("+FormatNumber(f.DX)+"px "+FormatNumber(f.DY)+"px "+
				FormatNumber(f.Blur)+"px "+FormatColor(f.Shadow)+")")
		case ir.FilterBlur:
			parts = append(parts, name+"("+FormatNumber(f.Amount)+"px)")
		case ir.FilterHueRotate:
			parts = append(parts, name+"("+FormatNumber(f.Amount)+"deg)")
		default:
			amount := f.Amount
			if amount < 0 {
				amount = 0
			}
			parts = append(parts, name+"("+FormatNumber(amount)+")")
		}
	}
	return strings.Join(parts, " ")
}

// Format renders a resolved value for a property of type typ.
func Format(typ ir.TypeTag, v ir.Value) string {
	switch v := v.(type) {
	case ir.Text:
		return string(v)
	case ir.Number:
		if typ == ir.TypeLength {
			return FormatNumber(float64(v)) + "px"
		}
		return FormatNumber(float64(v))
	case ir.Color:
		return FormatColor(v)
	case ir.LengthList:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = FormatNumber(n) + "px"
		}
		return strings.Join(parts, ",")
	case ir.Path:
		return FormatPath(v)
	case ir.FilterList:
		return FormatFilter(v)
	}
	return ""
}
