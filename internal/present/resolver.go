package present

import (
	"strings"

	"github.com/roach88/keyframe/internal/ir"
)

// styleProperties are the style names the document recognizes beyond the
// built-in property table.
var styleProperties = map[string]bool{
	"clipPath":         true,
	"color":            true,
	"display":          true,
	"fillRule":         true,
	"floodColor":       true,
	"floodOpacity":     true,
	"fontFamily":       true,
	"fontSize":         true,
	"fontStyle":        true,
	"fontWeight":       true,
	"letterSpacing":    true,
	"lightingColor":    true,
	"mask":             true,
	"mixBlendMode":     true,
	"stopColor":        true,
	"stopOpacity":      true,
	"strokeLinecap":    true,
	"strokeLinejoin":   true,
	"strokeMiterlimit": true,
	"textAnchor":       true,
	"visibility":       true,
	"wordSpacing":      true,
}

// ResolveProperty implements compiler.PropertyResolver for names outside
// the built-in table. Known style names are style targets, typed color if
// the name ends in "color" and string otherwise. Any other name is a
// string attribute.
func (d *Document) ResolveProperty(name string) (ir.PropertyInfo, bool) {
	if !styleProperties[name] {
		return ir.PropertyInfo{Kind: ir.KindAttribute, Type: ir.TypeString}, true
	}
	if strings.HasSuffix(strings.ToLower(name), "color") {
		return ir.PropertyInfo{Kind: ir.KindStyle, Type: ir.TypeColor}, true
	}
	return ir.PropertyInfo{Kind: ir.KindStyle, Type: ir.TypeString}, true
}
