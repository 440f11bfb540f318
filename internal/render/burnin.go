package render

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"reelcap/internal/services"
)

// Options controls a burn-in render.
type Options struct {
	Style Style
	// Vertical reframes the output to 9:16 using the source dimensions.
	Vertical bool
	// Width and Height are the source video dimensions, required when
	// Vertical is set (probe them with ffprobe).
	Width  int
	Height int
}

// Renderer executes ffmpeg burn-in renders.
type Renderer struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewRenderer creates a renderer using the given ffmpeg binary name.
func NewRenderer(ffmpegBinary string) *Renderer {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Renderer{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

func (r *Renderer) run(ctx context.Context, args ...string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, r.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", r.ffmpegBinary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// BurnIn renders captions onto video, writing output as H.264.
func (r *Renderer) BurnIn(ctx context.Context, video, captions, output string, opts Options) error {
	if strings.TrimSpace(video) == "" || strings.TrimSpace(captions) == "" || strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrValidation, "render", "burnin", "video, captions, and output paths required", nil)
	}

	filter := buildFilter(captions, opts)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", video,
		"-vf", filter,
		"-c:v", "libx264",
		"-c:a", "copy",
		output,
	}
	if err := r.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "burnin", "Burn-in render failed", err)
	}
	return nil
}

// CaptionsOverAudio composes a background video with a separate audio track
// and burned-in captions, trimmed to the audio duration. audioSeconds comes
// from probing the audio input.
func (r *Renderer) CaptionsOverAudio(ctx context.Context, video, audio, captions, output string, audioSeconds float64, opts Options) error {
	if strings.TrimSpace(video) == "" || strings.TrimSpace(audio) == "" || strings.TrimSpace(captions) == "" {
		return services.Wrap(services.ErrValidation, "render", "compose", "video, audio, and captions paths required", nil)
	}

	filter := buildFilter(captions, opts)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
	}
	if audioSeconds > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", audioSeconds))
	}
	args = append(args,
		"-i", video,
		"-i", audio,
		"-map", "0:v",
		"-map", "1:a",
		"-vf", filter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-shortest",
		output,
	)
	if err := r.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "compose", "Caption composition failed", err)
	}
	return nil
}

func buildFilter(captions string, opts Options) string {
	var stages []string
	if opts.Vertical {
		if stage := verticalStage(opts.Width, opts.Height); stage != "" {
			stages = append(stages, stage)
		}
	}
	stages = append(stages, fmt.Sprintf("subtitles=filename=%s:force_style='%s'", escapeFilterPath(captions), opts.Style.ForceStyle()))
	return strings.Join(stages, ",")
}

// verticalStage reframes the video to 9:16. Sources wider than 9:16 are
// center-cropped; narrower sources are padded top and bottom.
func verticalStage(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if width*16 > height*9 {
		return "crop=ih*9/16:ih:(iw-ih*9/16)/2:0"
	}
	if width*16 < height*9 {
		return "pad=iw:iw*16/9:0:(oh-ih)/2"
	}
	return ""
}

// escapeFilterPath quotes a path for use inside an ffmpeg filtergraph, where
// colons and quotes are structural characters.
func escapeFilterPath(path string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
	)
	return "'" + replacer.Replace(path) + "'"
}
