package ir

// PropertyInfo is the resolved sink and value type of a property.
type PropertyInfo struct {
	Kind TargetKind
	Type TypeTag
}

// builtinProperties have a fixed sink and type regardless of the host.
var builtinProperties = map[string]PropertyInfo{
	"d":                {KindAttribute, TypePath},
	"fill":             {KindStyle, TypeColor},
	"fillOpacity":      {KindStyle, TypeNumber},
	"filter":           {KindStyle, TypeFilter},
	"height":           {KindAttribute, TypeLength},
	"opacity":          {KindStyle, TypeNumber},
	"offsetDistance":   {KindAttribute, TypeLength},
	"stroke":           {KindStyle, TypeColor},
	"strokeDasharray":  {KindStyle, TypeLengthList},
	"strokeDashoffset": {KindStyle, TypeLength},
	"strokeOpacity":    {KindStyle, TypeNumber},
	"strokeWidth":      {KindStyle, TypeLength},
	"transform":        {KindAttribute, TypeString},
	"width":            {KindAttribute, TypeLength},
}

// BuiltinProperty looks up a property with a predefined sink and type.
// Transform channels are style numbers.
func BuiltinProperty(name string) (PropertyInfo, bool) {
	if _, ok := ChannelByName(name); ok {
		return PropertyInfo{Kind: KindStyle, Type: TypeNumber}, true
	}
	info, ok := builtinProperties[name]
	return info, ok
}

// TargetTracks pairs a target with its compiled tracks, in authored order.
type TargetTracks struct {
	Target Target
	Tracks []*Track
}

// Animation is the compiled form of a timeline's keyframe input.
type Animation struct {
	Targets []TargetTracks
	// EndTime is the latest track end, start plus active duration.
	EndTime float64
}
