package captions

import (
	"fmt"
	"strings"
)

// WriteSRT renders cues as a plain SRT document, one entry per cue.
func WriteSRT(cues []Cue) string {
	var b strings.Builder
	index := 1
	for _, cue := range cues {
		text := cue.Text()
		if text == "" {
			continue
		}
		writeSRTEntry(&b, index, cue.Start, cue.End, text)
		index++
	}
	return b.String()
}

// WriteSRTHighlight renders cues as a karaoke-style SRT document: one entry
// per word, spanning that word's timing, with the active word wrapped in a
// font tag of the given color. The full cue line stays on screen throughout
// so only the highlight moves.
func WriteSRTHighlight(cues []Cue, color string) string {
	hex := ResolveColor(color)
	var b strings.Builder
	index := 1
	for _, cue := range cues {
		for wordIdx := range cue.Words {
			line := highlightLine(cue, wordIdx, hex)
			if line == "" {
				continue
			}
			start, end := wordSpan(cue, wordIdx)
			writeSRTEntry(&b, index, start, end, line)
			index++
		}
	}
	return b.String()
}

func writeSRTEntry(b *strings.Builder, index int, start, end float64, text string) {
	fmt.Fprintf(b, "%d\n%s --> %s\n%s\n\n", index, FormatSRTTimestamp(start), FormatSRTTimestamp(end), text)
}

// highlightLine renders the cue text with the word at active wrapped in a
// font color tag.
func highlightLine(cue Cue, active int, hex string) string {
	parts := make([]string, 0, len(cue.Words))
	for i, word := range cue.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		if i == active {
			text = fmt.Sprintf(`<font color="%s">%s</font>`, hex, text)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// wordSpan returns the display window for a word entry. Each word holds the
// screen until the next word in the cue begins, so highlight entries abut
// without flicker; the final word runs to the cue end.
func wordSpan(cue Cue, idx int) (float64, float64) {
	start := cue.Words[idx].Start
	if idx+1 < len(cue.Words) {
		return start, cue.Words[idx+1].Start
	}
	return start, cue.End
}
