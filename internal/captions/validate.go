package captions

import (
	"fmt"
	"math"
	"strings"
)

// ValidateSRT checks SRT content for format issues. mediaSeconds, when
// positive, enables a duration-alignment check against the source media.
// Returns a list of issues found; empty means validation passed.
func ValidateSRT(content string, mediaSeconds float64) []string {
	var issues []string

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return []string{"empty_subtitle_file"}
	}

	cues := 0
	for _, block := range strings.Split(trimmed, "\n\n") {
		if strings.TrimSpace(block) != "" {
			cues++
		}
	}
	if cues == 0 {
		return []string{"empty_subtitle_file"}
	}

	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		if start, err := ParseSRTTimestamp(parts[0]); err == nil {
			if start < first {
				first = start
			}
			found = true
		}
		if end, err := ParseSRTTimestamp(parts[1]); err == nil && end > last {
			last = end
		}
	}
	if !found {
		issues = append(issues, "no_valid_timestamps")
		return issues
	}

	if mediaSeconds > 0 {
		delta := mediaSeconds - last
		// Captions ending far before the media runs out usually means a
		// truncated transcript.
		if delta > mediaSeconds*0.25 && delta > 30 {
			issues = append(issues, fmt.Sprintf("duration_mismatch: delta=%.1fs", delta))
		}
		if last > mediaSeconds+5 {
			issues = append(issues, fmt.Sprintf("captions_exceed_media: last=%.1fs media=%.1fs", last, mediaSeconds))
		}
	}

	return issues
}
