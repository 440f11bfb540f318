package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strings"
	"time"

	"reelcap/internal/services"
)

// Converter executes ffmpeg audio transformations.
type Converter struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewConverter creates a converter using the given ffmpeg binary name.
func NewConverter(ffmpegBinary string) *Converter {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Converter{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Converter) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

func (c *Converter) run(ctx context.Context, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, c.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", c.ffmpegBinary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ConvertToMono downmixes source to a mono 16 kHz pcm_s16le WAV at dest,
// the input form WhisperX transcribes most reliably.
func (c *Converter) ConvertToMono(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrValidation, "audio", "convert", "source path required", nil)
	}
	if strings.TrimSpace(dest) == "" {
		return services.Wrap(services.ErrValidation, "audio", "convert", "destination path required", nil)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := c.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "audio", "convert", "Mono conversion failed", err)
	}
	return nil
}

// SpeedUp re-encodes source with an atempo filter so its duration fits under
// ceiling. actual is the measured source duration. Returns the tempo factor
// applied; a factor of 1 means the source already fits and no command ran.
func (c *Converter) SpeedUp(ctx context.Context, source, dest string, actual, ceiling time.Duration) (float64, error) {
	if ceiling <= 0 {
		return 0, services.Wrap(services.ErrValidation, "audio", "speedup", "ceiling must be positive", nil)
	}
	if actual <= ceiling {
		return 1, nil
	}

	// Round the factor up to two decimals so the result lands under the
	// ceiling rather than a hair over it.
	factor := actual.Seconds() / ceiling.Seconds()
	factor = math.Ceil(factor*100) / 100

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-filter:a", fmt.Sprintf("atempo=%.2f", factor),
		dest,
	}
	if err := c.run(ctx, args...); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "audio", "speedup", "Tempo adjustment failed", err)
	}
	return factor, nil
}
