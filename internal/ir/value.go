package ir

// Value is a sealed interface over the raw animated value types.
// Only Number, Text, Color, LengthList, Path and FilterList implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Number is a plain number or a length in user units.
type Number float64

func (Number) value() {}

// Text is a discrete value: strings, gradient references such as
// "url(#g)", and "none".
type Text string

func (Text) value() {}

// Color is a packed RGBA color, red in the most significant byte.
type Color uint32

func (Color) value() {}

// RGBA packs four channels into a Color.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// Channels unpacks the color into its red, green, blue and alpha channels.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// LengthList is a list of lengths such as a stroke dash array.
type LengthList []float64

func (LengthList) value() {}

// PathCommand is one path segment: a command letter and its coordinates.
type PathCommand struct {
	Op     byte
	Coords []float64
}

// Path is a sequence of path commands.
type Path []PathCommand

func (Path) value() {}

// FilterFunc identifies a filter function.
type FilterFunc int

const (
	FilterNone FilterFunc = iota
	FilterURL
	FilterBlur
	FilterBrightness
	FilterContrast
	FilterDropShadow
	FilterGrayscale
	FilterHueRotate
	FilterInvert
	FilterOpacity
	FilterSaturate
	FilterSepia
)

var filterNames = [...]string{
	"none", "url", "blur", "brightness", "contrast", "drop-shadow",
	"grayscale", "hue-rotate", "invert", "opacity", "saturate", "sepia",
}

// String returns the function name.
func (f FilterFunc) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return "unknown"
	}
	return filterNames[f]
}

// FilterFuncByName looks up a filter function by its name.
func FilterFuncByName(name string) (FilterFunc, bool) {
	for i, n := range filterNames {
		if n == name {
			return FilterFunc(i), true
		}
	}
	return FilterNone, false
}

// Filter is one filter function application.
//
// Amount is the single parameter of one-argument functions. A drop-shadow
// uses DX, DY, Blur and Shadow instead. A url() filter only carries URL.
type Filter struct {
	Func   FilterFunc
	Amount float64
	DX     float64
	DY     float64
	Blur   float64
	Shadow Color
	URL    string
}

// FilterList is an ordered list of filter functions.
type FilterList []Filter

func (FilterList) value() {}
