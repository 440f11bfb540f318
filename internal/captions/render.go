package captions

import (
	"reelcap/internal/services"
)

// Caption output formats.
const (
	FormatSRT = "srt"
	FormatITT = "itt"
)

// Options selects the output document produced from shaped cues.
type Options struct {
	Format         string
	HighlightWords bool
	HighlightColor string
	Language       string
	FrameRate      int
	GapFrames      int
}

// Render produces the caption document for the given cues, mirroring the
// format/highlight combinations the CLI exposes.
func Render(cues []Cue, opts Options) (string, error) {
	switch opts.Format {
	case FormatSRT, "":
		if opts.HighlightWords {
			return WriteSRTHighlight(cues, opts.HighlightColor), nil
		}
		return WriteSRT(cues), nil
	case FormatITT:
		ittOpts := ITTOptions{
			Language:       opts.Language,
			FrameRate:      opts.FrameRate,
			GapFrames:      opts.GapFrames,
			HighlightColor: opts.HighlightColor,
		}
		if opts.HighlightWords {
			return WriteITTHighlight(cues, ittOpts), nil
		}
		return WriteITT(cues, ittOpts), nil
	default:
		return "", services.Wrap(services.ErrValidation, "captions", "render", "unsupported format "+opts.Format, nil)
	}
}

// Extension returns the file extension for a caption format, without the dot.
func Extension(format string) string {
	if format == FormatITT {
		return "itt"
	}
	return "srt"
}
