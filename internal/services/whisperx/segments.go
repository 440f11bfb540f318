package whisperx

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Word represents a single word with timing from WhisperX output. Alignment
// occasionally fails for a word, in which case Start and End are zero and the
// consumer interpolates.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return ParseSegments(data)
}

// ParseSegments decodes a WhisperX JSON payload.
func ParseSegments(data []byte) ([]Segment, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}
	return p.Segments, nil
}

// SaveSegments writes segments back out in the WhisperX payload shape, used
// when caching the transcript.
func SaveSegments(jsonPath string, segments []Segment) error {
	data, err := json.MarshalIndent(payload{Segments: segments}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode whisperx json: %w", err)
	}
	return os.WriteFile(jsonPath, data, 0o644)
}

// TranscriptText concatenates the trimmed segment texts.
func TranscriptText(segments []Segment) string {
	var parts []string
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
