package render

import (
	"fmt"
	"strings"
)

// Style describes libass force_style options for burned-in captions. The
// field set mirrors the ASS style names ffmpeg understands.
type Style struct {
	FontName  string
	FontSize  int
	MarginV   int
	Outline   int
	Alignment int
}

// ForceStyle renders the style as a force_style option string. Field order
// is fixed so output is stable for testing and debugging.
func (s Style) ForceStyle() string {
	parts := make([]string, 0, 7)
	if s.Alignment > 0 {
		parts = append(parts, fmt.Sprintf("Alignment=%d", s.Alignment))
	}
	if s.MarginV > 0 {
		parts = append(parts, fmt.Sprintf("MarginV=%d", s.MarginV))
	}
	if name := strings.TrimSpace(s.FontName); name != "" {
		parts = append(parts, "Fontname="+name)
	}
	parts = append(parts, "BorderStyle=1")
	if s.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("Fontsize=%d", s.FontSize))
	}
	if s.Outline > 0 {
		parts = append(parts, fmt.Sprintf("Outline=%d", s.Outline))
	}
	parts = append(parts, "OutlineColour=&H000000&")
	return strings.Join(parts, ",")
}
