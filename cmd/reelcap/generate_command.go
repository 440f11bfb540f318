package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcap/internal/config"
	"reelcap/internal/pipeline"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		outputFlag       string
		forceFlag        bool
		wordsPerLineFlag int
		highlightFlag    bool
		colorFlag        string
		formatFlag       string
		gapFramesFlag    int
		frameRateFlag    int
	)

	cmd := &cobra.Command{
		Use:   "generate <media-file>",
		Short: "Generate a caption file from an audio or video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			applyShapingFlags(cmd, cfg, wordsPerLineFlag, highlightFlag, colorFlag, formatFlag, gapFramesFlag, frameRateFlag)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			hist, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if hist != nil {
				defer hist.Close()
			}

			generator := pipeline.NewGenerator(cfg, logger, cache, hist)
			result, err := generator.Generate(cmd.Context(), pipeline.Request{
				Source: args[0],
				Output: outputFlag,
				Force:  forceFlag,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Captions written to %s\n", result.OutputPath)
			fmt.Fprintf(out, "Cues: %d  Mono cache: %s  Transcript cache: %s  Elapsed: %s\n",
				result.CueCount, hitMiss(result.MonoCacheHit), hitMiss(result.TranscriptCacheHit), result.Elapsed.Round(time.Millisecond))
			for _, issue := range result.ValidationIssues {
				fmt.Fprintf(out, "Warning: %s\n", issue)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Caption output path (defaults to the output directory)")
	cmd.Flags().BoolVar(&forceFlag, "force", false, "Regenerate even when cached artifacts exist")
	cmd.Flags().IntVar(&wordsPerLineFlag, "words-per-line", 0, "Words grouped into each caption cue")
	cmd.Flags().BoolVar(&highlightFlag, "highlight", false, "Emit one cue per word with the active word colored")
	cmd.Flags().StringVar(&colorFlag, "color", "", "Highlight color name or #RRGGBB value")
	cmd.Flags().StringVar(&formatFlag, "format", "", `Caption format: "srt" or "itt"`)
	cmd.Flags().IntVar(&gapFramesFlag, "gap", 0, "Minimum gap between ITT cues, in frames")
	cmd.Flags().IntVar(&frameRateFlag, "frame-rate", 0, "Frame rate for ITT timecodes")

	return cmd
}

// applyShapingFlags overlays explicitly set flags onto the loaded config so
// CLI usage wins over the file without persisting anything.
func applyShapingFlags(cmd *cobra.Command, cfg *config.Config, wordsPerLine int, highlight bool, color, format string, gapFrames, frameRate int) {
	if cmd.Flags().Changed("words-per-line") && wordsPerLine > 0 {
		cfg.Captions.WordsPerLine = wordsPerLine
	}
	if cmd.Flags().Changed("highlight") {
		cfg.Captions.HighlightWords = highlight
	}
	if cmd.Flags().Changed("color") && color != "" {
		cfg.Captions.HighlightColor = strings.ToLower(strings.TrimSpace(color))
	}
	if cmd.Flags().Changed("format") && format != "" {
		cfg.Captions.Format = strings.ToLower(strings.TrimSpace(format))
	}
	if cmd.Flags().Changed("gap") && gapFrames >= 0 {
		cfg.Captions.GapFrames = gapFrames
	}
	if cmd.Flags().Changed("frame-rate") && frameRate > 0 {
		cfg.Captions.FrameRate = frameRate
	}
}

func hitMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
