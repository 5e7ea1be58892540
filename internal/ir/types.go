package ir

// TypeTag classifies how a property's values interpolate.
type TypeTag int

const (
	TypeString TypeTag = iota
	TypeNumber
	TypeLength
	TypeColor
	TypeLengthList
	TypeFilter
	TypePath
)

var typeNames = [...]string{"string", "number", "length", "color", "length-list", "filter", "path"}

func (t TypeTag) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// TargetKind selects the presentation sink a property is written to.
type TargetKind int

const (
	// KindStyle writes to the target's style properties.
	KindStyle TargetKind = iota
	// KindAttribute writes to the target's attributes.
	KindAttribute
)

func (k TargetKind) String() string {
	if k == KindAttribute {
		return "attribute"
	}
	return "style"
}

// Channel is one of the built-in transform channels. Named properties that
// are not transform channels use ChannelNone.
type Channel int

const (
	ChannelNone Channel = iota - 1
	ChannelMotionDistance
	ChannelPosX
	ChannelPosY
	ChannelRotate
	ChannelSkewX
	ChannelSkewY
	ChannelScaleX
	ChannelScaleY
	ChannelAnchorX
	ChannelAnchorY
)

// NumChannels is the number of transform channels.
const NumChannels = 10

var channelNames = [NumChannels]string{
	"mpath", "posX", "posY", "rotate", "skewX", "skewY", "scaleX", "scaleY", "anchorX", "anchorY",
}

// ChannelByName returns the transform channel for an authored property name.
func ChannelByName(name string) (Channel, bool) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), true
		}
	}
	return ChannelNone, false
}

func (c Channel) String() string {
	if !c.IsTransform() {
		return "none"
	}
	return channelNames[c]
}

// IsTransform reports whether c is a transform channel.
func (c Channel) IsTransform() bool {
	return c >= 0 && c < NumChannels
}

// Default returns the identity value of the channel.
func (c Channel) Default() float64 {
	if c == ChannelScaleX || c == ChannelScaleY {
		return 1
	}
	return 0
}

// Transform holds one value per transform channel.
type Transform [NumChannels]float64

// IdentityTransform returns a transform with every channel at its default.
func IdentityTransform() Transform {
	var t Transform
	for c := Channel(0); c < NumChannels; c++ {
		t[c] = c.Default()
	}
	return t
}

// PathGeometry is a sampled path used by motion-path tracks.
type PathGeometry interface {
	Length() float64
	PointAt(dist float64) (x, y float64)
}

// MotionPath is the auxiliary data of a motion-distance track.
type MotionPath struct {
	AutoRotate bool
	Path       PathGeometry
	// Length caches Path.Length() from compile time.
	Length float64
}

// Track is one property's compiled keyframe data. Tracks are immutable
// after compilation.
type Track struct {
	// Name is the authored property identifier.
	Name    string
	Channel Channel
	Type    TypeTag
	Kind    TargetKind

	// StartTime is the first keyframe time.
	StartTime float64
	// ActiveDuration is one iteration's span times Iterations.
	ActiveDuration float64

	Times      []float64
	Values     []Value
	Easing     []Easing
	Iterations float64

	Motion *MotionPath
}

// Duration returns the span of a single iteration.
func (t *Track) Duration() float64 {
	return t.Times[len(t.Times)-1] - t.StartTime
}

// Target is an opaque reference into the presentation layer. Targets are
// compared by identity and never owned by the engine.
type Target any

// MotionPathSpec is the authored motion path of a motion-distance property.
type MotionPathSpec struct {
	// Data is path data; empty means "M0,0".
	Data       string
	AutoRotate bool
}

// Keyframes is one authored property animation before compilation.
//
// Values hold float64, int, string or an already structured Value.
type Keyframes struct {
	Property   string
	Times      []float64
	Values     []any
	Easing     []Easing
	Iterations float64
	MotionPath *MotionPathSpec
}

// TargetKeyframes pairs a target with the keyframes animating it.
type TargetKeyframes struct {
	Target    Target
	Keyframes []Keyframes
}
