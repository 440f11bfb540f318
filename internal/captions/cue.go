package captions

import (
	"strings"

	"reelcap/internal/services/whisperx"
)

// Word is a single caption word with absolute timing in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Cue is a display unit: a group of words shown together.
type Cue struct {
	Start float64
	End   float64
	Words []Word
}

// Text returns the cue's words joined with single spaces.
func (c Cue) Text() string {
	parts := make([]string, 0, len(c.Words))
	for _, word := range c.Words {
		if text := strings.TrimSpace(word.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// FromSegments flattens WhisperX segments into a word list. Words the aligner
// could not time inherit interpolated bounds from their neighbours so every
// word carries usable timing.
func FromSegments(segments []whisperx.Segment) []Word {
	var words []Word
	for _, seg := range segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			words = append(words, Word{Text: text, Start: w.Start, End: w.End})
		}
	}
	interpolate(words, segments)
	return words
}

// interpolate fills zero-timed words. The previous word's end becomes the
// start; the end extends to the next timed word's start, or the enclosing
// bound when none follows.
func interpolate(words []Word, segments []whisperx.Segment) {
	var lastEnd float64
	if len(segments) > 0 {
		lastEnd = segments[len(segments)-1].End
	}
	for i := range words {
		if words[i].Start > 0 || words[i].End > 0 {
			continue
		}
		if i > 0 {
			words[i].Start = words[i-1].End
		}
		words[i].End = words[i].Start
		for j := i + 1; j < len(words); j++ {
			if words[j].Start > 0 {
				words[i].End = words[j].Start
				break
			}
		}
		if words[i].End <= words[i].Start {
			words[i].End = maxFloat(words[i].Start, lastEnd)
		}
	}
}

// Reshape groups words into cues of at most perLine words. Cue timing spans
// from the first word's start to the last word's end.
func Reshape(words []Word, perLine int) []Cue {
	if perLine <= 0 {
		perLine = 1
	}
	cues := make([]Cue, 0, (len(words)+perLine-1)/perLine)
	for start := 0; start < len(words); start += perLine {
		end := start + perLine
		if end > len(words) {
			end = len(words)
		}
		group := words[start:end]
		cues = append(cues, Cue{
			Start: group[0].Start,
			End:   group[len(group)-1].End,
			Words: append([]Word(nil), group...),
		})
	}
	return cues
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
