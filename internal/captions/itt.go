package captions

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// ITTOptions controls iTunes Timed Text rendering.
type ITTOptions struct {
	// Language is the xml:lang value (ISO 639-1).
	Language string
	// FrameRate is the SMPTE timebase for the timecodes.
	FrameRate int
	// GapFrames is the minimum number of frames between consecutive
	// entries; overlapping ends are clipped back.
	GapFrames int
	// HighlightColor styles the active word; only used by the highlight
	// writer.
	HighlightColor string
}

type ittEntry struct {
	start float64
	end   float64
	body  string // already-escaped inline TTML
}

// WriteITT renders cues as a plain ITT document, one paragraph per cue.
func WriteITT(cues []Cue, opts ITTOptions) string {
	entries := make([]ittEntry, 0, len(cues))
	for _, cue := range cues {
		text := cue.Text()
		if text == "" {
			continue
		}
		entries = append(entries, ittEntry{start: cue.Start, end: cue.End, body: escapeXML(text)})
	}
	return renderITT(entries, opts)
}

// WriteITTHighlight renders cues as a karaoke-style ITT document: one
// paragraph per word with the active word in a highlight span.
func WriteITTHighlight(cues []Cue, opts ITTOptions) string {
	var entries []ittEntry
	for _, cue := range cues {
		for wordIdx, word := range cue.Words {
			if strings.TrimSpace(word.Text) == "" {
				continue
			}
			start, end := wordSpan(cue, wordIdx)
			entries = append(entries, ittEntry{start: start, end: end, body: highlightSpanLine(cue, wordIdx)})
		}
	}
	return renderITT(entries, opts)
}

func highlightSpanLine(cue Cue, active int) string {
	parts := make([]string, 0, len(cue.Words))
	for i, word := range cue.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		escaped := escapeXML(text)
		if i == active {
			escaped = `<span style="highlight">` + escaped + `</span>`
		}
		parts = append(parts, escaped)
	}
	return strings.Join(parts, " ")
}

func renderITT(entries []ittEntry, opts ITTOptions) string {
	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = 24
	}
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = "en"
	}
	applyGap(entries, frameRate, opts.GapFrames)

	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<tt xmlns="http://www.w3.org/ns/ttml" xmlns:tts="http://www.w3.org/ns/ttml#styling" xmlns:ttp="http://www.w3.org/ns/ttml#parameter" xml:lang=%q ttp:timeBase="smpte" ttp:frameRate=%q ttp:dropMode="nonDrop">`, lang, fmt.Sprint(frameRate))
	b.WriteString("\n  <head>\n    <styling>\n")
	b.WriteString(`      <style xml:id="normal" tts:fontFamily="sansSerif" tts:color="white"/>` + "\n")
	fmt.Fprintf(&b, `      <style xml:id="highlight" tts:color=%q/>`+"\n", ResolveColor(opts.HighlightColor))
	b.WriteString("    </styling>\n  </head>\n  <body>\n    <div>\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, `      <p begin=%q end=%q style="normal">%s</p>`+"\n",
			FormatFrameTimecode(entry.start, frameRate),
			FormatFrameTimecode(entry.end, frameRate),
			entry.body,
		)
	}
	b.WriteString("    </div>\n  </body>\n</tt>\n")
	return b.String()
}

// applyGap clips each entry's end so the next entry starts at least gapFrames
// later, leaving at least one frame of display time.
func applyGap(entries []ittEntry, frameRate, gapFrames int) {
	if gapFrames <= 0 {
		return
	}
	gap := float64(gapFrames) / float64(frameRate)
	minDisplay := 1.0 / float64(frameRate)
	for i := 0; i+1 < len(entries); i++ {
		limit := entries[i+1].start - gap
		if entries[i].end > limit {
			clipped := limit
			if clipped < entries[i].start+minDisplay {
				clipped = entries[i].start + minDisplay
			}
			entries[i].end = clipped
		}
	}
}

func escapeXML(text string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(text)); err != nil {
		return text
	}
	return b.String()
}
