package captions

import (
	"regexp"
	"strings"
)

// Named highlight colors accepted in configuration.
var namedColors = map[string]string{
	"yellow":  "#FFFF00",
	"white":   "#FFFFFF",
	"black":   "#000000",
	"red":     "#FF0000",
	"green":   "#00FF00",
	"blue":    "#0000FF",
	"cyan":    "#00FFFF",
	"magenta": "#FF00FF",
	"orange":  "#FFA500",
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ResolveColor maps a color name or #RRGGBB literal to its hex form. Unknown
// values fall back to yellow, the original highlight default.
func ResolveColor(value string) string {
	value = strings.TrimSpace(value)
	if hexColorPattern.MatchString(value) {
		return strings.ToUpper(value)
	}
	if hex, ok := namedColors[strings.ToLower(value)]; ok {
		return hex
	}
	return namedColors["yellow"]
}
