package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ToISO2 converts a recognized language tag (ISO 639-1, ISO 639-2, or a full
// tag like "en-US") to its ISO 639-1 base code. Returns empty string for
// unrecognized input. WhisperX only accepts the two-letter form.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	normalized := base.String()
	if len(normalized) != 2 {
		return ""
	}
	return normalized
}

// DisplayName returns the English display name for a language code, or the
// input unchanged when the code cannot be parsed.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return trimmed
	}
	return name
}
