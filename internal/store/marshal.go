package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/keyframe/internal/ir"
)

// valueJSON is the stored form of a raw ir.Value. Exactly one field is set.
type valueJSON struct {
	Number  *float64      `json:"number,omitempty"`
	Text    *string       `json:"text,omitempty"`
	Color   *[4]uint8     `json:"color,omitempty"`
	Lengths *[]float64    `json:"lengths,omitempty"`
	Path    *[]pathJSON   `json:"path,omitempty"`
	Filter  *[]filterJSON `json:"filter,omitempty"`
}

type pathJSON struct {
	Op     string    `json:"op"`
	Coords []float64 `json:"coords"`
}

type filterJSON struct {
	Func   string    `json:"func"`
	Amount float64   `json:"amount,omitempty"`
	DX     float64   `json:"dx,omitempty"`
	DY     float64   `json:"dy,omitempty"`
	Blur   float64   `json:"blur,omitempty"`
	Shadow *[4]uint8 `json:"shadow,omitempty"`
	URL    string    `json:"url,omitempty"`
}

// marshalValue converts a raw value to JSON TEXT for storage.
// Uses json.Encoder with HTML escaping disabled so url(#id) and <> survive
// unchanged.
func marshalValue(v ir.Value) (string, error) {
	var out valueJSON
	switch v := v.(type) {
	case ir.Number:
		f := float64(v)
		out.Number = &f
	case ir.Text:
		s := string(v)
		out.Text = &s
	case ir.Color:
		c := channels(v)
		out.Color = &c
	case ir.LengthList:
		l := append([]float64{}, v...)
		out.Lengths = &l
	case ir.Path:
		p := make([]pathJSON, len(v))
		for i, c := range v {
			p[i] = pathJSON{Op: string(c.Op), Coords: c.Coords}
		}
		out.Path = &p
	case ir.FilterList:
		fl := make([]filterJSON, len(v))
		for i, f := range v {
			fj := filterJSON{Func: f.Func.String(), Amount: f.Amount, DX: f.DX, DY: f.DY, Blur: f.Blur, URL: f.URL}
			if f.Func == ir.FilterDropShadow {
				c := channels(f.Shadow)
				fj.Shadow = &c
			}
			fl[i] = fj
		}
		out.Filter = &fl
	default:
		return "", fmt.Errorf("marshal value: unsupported type %T", v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalValue parses stored JSON TEXT back into a raw value.
func unmarshalValue(data string) (ir.Value, error) {
	var in valueJSON
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	switch {
	case in.Number != nil:
		return ir.Number(*in.Number), nil
	case in.Text != nil:
		return ir.Text(*in.Text), nil
	case in.Color != nil:
		return fromChannels(*in.Color), nil
	case in.Lengths != nil:
		return ir.LengthList(*in.Lengths), nil
	case in.Path != nil:
		p := make(ir.Path, len(*in.Path))
		for i, c := range *in.Path {
			if len(c.Op) != 1 {
				return nil, fmt.Errorf("unmarshal value: bad path op %q", c.Op)
			}
			p[i] = ir.PathCommand{Op: c.Op[0], Coords: c.Coords}
		}
		return p, nil
	case in.Filter != nil:
		fl := make(ir.FilterList, len(*in.Filter))
		for i, fj := range *in.Filter {
			fn, ok := ir.FilterFuncByName(fj.Func)
			if !ok {
				return nil, fmt.Errorf("unmarshal value: unknown filter %q", fj.Func)
			}
			f := ir.Filter{Func: fn, Amount: fj.Amount, DX: fj.DX, DY: fj.DY, Blur: fj.Blur, URL: fj.URL}
			if fj.Shadow != nil {
				f.Shadow = fromChannels(*fj.Shadow)
			}
			fl[i] = f
		}
		return fl, nil
	}
	return nil, fmt.Errorf("unmarshal value: empty value %s", data)
}

func channels(c ir.Color) [4]uint8 {
	r, g, b, a := c.Channels()
	return [4]uint8{r, g, b, a}
}

func fromChannels(c [4]uint8) ir.Color {
	return ir.RGBA(c[0], c[1], c[2], c[3])
}
