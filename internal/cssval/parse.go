// Package cssval parses and formats the textual value grammar of the
// presentation layer: colors, lengths, length lists, path data, filter
// functions and transform lists.
//
// Parsers are lenient the way browsers are: numbers are read from their
// leading numeric prefix, so "12px" reads as 12.
package cssval

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/roach88/keyframe/internal/ir"
)

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// LeadingFloat parses the numeric prefix of s.
func LeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN(), false
	}
	return f, true
}

// ParseNumber converts a numeric input value. Strings are parsed fully.
func ParseNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case ir.Number:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	}
	return math.NaN(), fmt.Errorf("not a number: %v", v)
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r,g,b)" and
// "rgba(r,g,b,a)" into a packed Color. Gradient references ("url(...)")
// and "none" are returned as Text. ok is false for anything else.
func ParseColor(s string) (v ir.Value, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) == 9 {
			n, err := strconv.ParseUint(s[1:], 16, 32)
			if err != nil {
				return nil, false
			}
			return ir.Color(n), true
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, false
		}
		r, g, b := c.RGB255()
		return ir.RGBA(r, g, b, 255), true
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		open := strings.IndexByte(s, '(')
		body := strings.TrimSuffix(s[open+1:], ")")
		parts := strings.Split(body, ",")
		if len(parts) < 3 {
			return nil, false
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			f, ok := LeadingFloat(parts[i])
			if !ok {
				return nil, false
			}
			ch[i] = clampByte(math.Trunc(f))
		}
		alpha := uint8(255)
		if len(parts) > 3 {
			f, ok := LeadingFloat(parts[3])
			if !ok {
				return nil, false
			}
			alpha = clampByte(f * 255)
		}
		return ir.RGBA(ch[0], ch[1], ch[2], alpha), true
	case strings.HasPrefix(s, "url(") || s == "none":
		return ir.Text(s), true
	}
	return nil, false
}

func clampByte(f float64) uint8 {
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

var lengthListChars = regexp.MustCompile(`^[0-9 .]*$`)

// ParseLengthList parses a space separated list of unitless lengths.
// "none" is [0]. ok is false when units or other characters are present,
// in which case the result is [0].
func ParseLengthList(s string) (ir.LengthList, bool) {
	s = strings.TrimSpace(s)
	if s == "none" {
		return ir.LengthList{0}, true
	}
	if !lengthListChars.MatchString(s) {
		return ir.LengthList{0}, false
	}
	fields := strings.Fields(s)
	res := make(ir.LengthList, 0, len(fields))
	for _, f := range fields {
		n, _ := LeadingFloat(f)
		res = append(res, n)
	}
	return res, true
}

var pathCommand = regexp.MustCompile(`[A-DF-Za-df-z][-+0-9eE., ]*`)

// ParsePath parses path data, optionally wrapped as path('...').
func ParsePath(s string) (ir.Path, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "path(") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "path("), ")")
		s = strings.Trim(s, `'"`)
	}
	cmds := pathCommand.FindAllString(s, -1)
	if len(cmds) == 0 {
		return nil, fmt.Errorf("invalid path data: %q", s)
	}
	res := make(ir.Path, 0, len(cmds))
	for _, c := range cmds {
		fields := strings.FieldsFunc(c[1:], func(r rune) bool { return r == ',' || r == ' ' })
		coords := make([]float64, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid path coordinate %q: %w", f, err)
			}
			coords = append(coords, n)
		}
		res = append(res, ir.PathCommand{Op: c[0], Coords: coords})
	}
	return res, nil
}

// function is one name(args) item of a filter or transform list.
type function struct {
	name string
	args string
}

// splitFunctions splits "a(x) b(y z)" into its function items, honoring
// nested parentheses. Parsing stops at the first item without arguments.
func splitFunctions(s string) []function {
	var res []function
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		if open <= 0 {
			break
		}
		depth := 0
		end := -1
		for i := open; i < len(s); i++ {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = i
				break
			}
		}
		if end < 0 {
			end = len(s)
			res = append(res, function{name: strings.TrimSpace(s[:open]), args: s[open+1:]})
			break
		}
		res = append(res, function{name: strings.TrimSpace(s[:open]), args: s[open+1 : end]})
		s = strings.TrimLeft(s[end+1:], " ,")
	}
	return res
}

// splitArgs splits on whitespace outside of parentheses.
func splitArgs(s string) []string {
	var res []string
	depth := 0
	start := -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		}
		if r == ' ' && depth == 0 {
			if start >= 0 {
				res = append(res, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		res = append(res, s[start:])
	}
	return res
}

// ParseFilter parses a filter function list. "none" yields a single
// FilterNone entry. Parsing stops at the first unknown function.
func ParseFilter(s string) ir.FilterList {
	s = strings.TrimSpace(s)
	if s == "none" {
		return ir.FilterList{{Func: ir.FilterNone}}
	}
	var res ir.FilterList
	for _, fn := range splitFunctions(s) {
		f, ok := ir.FilterFuncByName(fn.name)
		if !ok || f == ir.FilterNone {
			break
		}
		params := splitArgs(fn.args)
		item := ir.Filter{Func: f}
		switch f {
		case ir.FilterURL:
			item.URL = strings.TrimSpace(fn.args)
		case ir.FilterDropShadow:
			item.DX = param(params, 0)
			item.DY = param(params, 1)
			item.Blur = param(params, 2)
			if len(params) > 3 {
				if c, ok := ParseColor(params[3]); ok {
					if packed, isColor := c.(ir.Color); isColor {
						item.Shadow = packed
					}
				}
			}
		default:
			item.Amount = param(params, 0)
		}
		res = append(res, item)
	}
	return res
}

func param(params []string, i int) float64 {
	if i >= len(params) {
		return math.NaN()
	}
	f, _ := LeadingFloat(params[i])
	return f
}

func commaFloats(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	res := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, _ := LeadingFloat(f)
		res = append(res, n)
	}
	return res
}

// ParseTransform reads a composed transform attribute back into channel
// values. The expected order is translate(pos) rotate skewX skewY scale
// translate(anchor); functions before the position translate are skipped.
// Unrecognized input yields the identity transform.
func ParseTransform(s string) ir.Transform {
	tr := ir.IdentityTransform()
	parts := splitFunctions(s)
	if len(parts) == 0 {
		return tr
	}
	// skip the anchor translate and drop anything before the position translate
	for j := len(parts) - 2; j >= 0; j-- {
		if parts[j].name == "translate" {
			parts = parts[j:]
			break
		}
	}
	next := func(name string) ([]float64, bool) {
		if len(parts) == 0 || parts[0].name != name {
			return nil, false
		}
		vals := commaFloats(parts[0].args)
		parts = parts[1:]
		return vals, len(vals) > 0
	}
	if v, ok := next("translate"); ok {
		tr[ir.ChannelPosX] = v[0]
		tr[ir.ChannelPosY] = at(v, 1, 0)
	}
	if v, ok := next("rotate"); ok {
		tr[ir.ChannelRotate] = v[0]
	}
	if v, ok := next("skewX"); ok {
		tr[ir.ChannelSkewX] = v[0]
	}
	if v, ok := next("skewY"); ok {
		tr[ir.ChannelSkewY] = v[0]
	}
	if v, ok := next("scale"); ok {
		tr[ir.ChannelScaleX] = v[0]
		tr[ir.ChannelScaleY] = at(v, 1, v[0])
	}
	if v, ok := next("translate"); ok {
		tr[ir.ChannelAnchorX] = v[0]
		tr[ir.ChannelAnchorY] = at(v, 1, 0)
	}
	return tr
}

func at(v []float64, i int, def float64) float64 {
	if i < len(v) {
		return v[i]
	}
	return def
}
