package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelcap/internal/artifactcache"
	"reelcap/internal/captions"
	"reelcap/internal/config"
	"reelcap/internal/fileutil"
	"reelcap/internal/history"
	langpkg "reelcap/internal/language"
	"reelcap/internal/logging"
	"reelcap/internal/media/audio"
	"reelcap/internal/media/ffprobe"
	"reelcap/internal/services"
	"reelcap/internal/services/whisperx"
	"reelcap/internal/textutil"
)

// transcriber produces an aligned transcript for a prepared audio file.
type transcriber interface {
	TranscribeFile(ctx context.Context, source, outputDir string) (whisperx.TranscribeResult, error)
	Model() string
	Language() string
}

// monoConverter downmixes media to the mono WAV form transcription expects.
type monoConverter interface {
	ConvertToMono(ctx context.Context, source, dest string) error
}

// probeFunc inspects a media file.
type probeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Request describes one caption-generation run.
type Request struct {
	// Source is the input media file (audio or video with an audio stream).
	Source string
	// Output overrides the default output path when set.
	Output string
	// Force bypasses cache lookups and regenerates every artifact.
	Force bool
}

// Result summarizes a completed run.
type Result struct {
	RunID              string
	Source             string
	OutputPath         string
	Format             string
	Model              string
	Language           string
	MonoCacheHit       bool
	TranscriptCacheHit bool
	CueCount           int
	MediaSeconds       float64
	ValidationIssues   []string
	Elapsed            time.Duration
}

// Generator runs the caption pipeline.
type Generator struct {
	cfg         *config.Config
	logger      *slog.Logger
	cache       *artifactcache.Cache
	history     *history.Store
	converter   monoConverter
	transcriber transcriber
	probe       probeFunc
}

// NewGenerator wires a generator from configuration. history may be nil when
// the run ledger is disabled.
func NewGenerator(cfg *config.Config, logger *slog.Logger, cache *artifactcache.Cache, hist *history.Store) *Generator {
	return &Generator{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		cache:     cache,
		history:   hist,
		converter: audio.NewConverter(cfg.FFmpegBinary()),
		transcriber: whisperx.NewService(whisperx.Config{
			Model:       cfg.WhisperX.Model,
			CUDAEnabled: cfg.WhisperX.CUDAEnabled,
			ComputeType: cfg.WhisperX.ComputeType,
			BatchSize:   cfg.WhisperX.BatchSize,
			Language:    cfg.WhisperX.Language,
			VADMethod:   cfg.WhisperX.VADMethod,
			HFToken:     cfg.WhisperX.HFToken,
		}),
		probe: ffprobe.Inspect,
	}
}

// WithTranscriber replaces the transcription backend (for testing).
func (g *Generator) WithTranscriber(t transcriber) {
	g.transcriber = t
}

// WithConverter replaces the audio converter (for testing).
func (g *Generator) WithConverter(c monoConverter) {
	g.converter = c
}

// WithProber replaces the media prober (for testing).
func (g *Generator) WithProber(p probeFunc) {
	g.probe = p
}

// Generate runs the full pipeline for one source file.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	result := Result{
		RunID:    uuid.NewString(),
		Source:   req.Source,
		Format:   g.cfg.Captions.Format,
		Model:    g.transcriber.Model(),
		Language: g.language(),
	}

	err := g.generate(ctx, req, &result)
	result.Elapsed = time.Since(started)
	g.record(ctx, result, err)
	if err != nil {
		return result, err
	}

	g.logger.Info("caption generation complete",
		logging.String(logging.FieldEventType, "generation_complete"),
		logging.String("run_id", result.RunID),
		logging.String("source_file", result.Source),
		logging.String("output_file", result.OutputPath),
		logging.Bool("mono_cache_hit", result.MonoCacheHit),
		logging.Bool("transcript_cache_hit", result.TranscriptCacheHit),
		logging.Int("cue_count", result.CueCount),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func (g *Generator) generate(ctx context.Context, req Request, result *Result) error {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return services.Wrap(services.ErrValidation, "pipeline", "generate", "source path required", nil)
	}
	if !fileutil.NonEmptyFile(source) {
		return services.Wrap(services.ErrNotFound, "pipeline", "generate", fmt.Sprintf("source file %q missing or empty", source), nil)
	}

	probed, err := g.probe(ctx, g.cfg.FFprobeBinary(), source)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "probe", "Media inspection failed", err)
	}
	if probed.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "pipeline", "probe", fmt.Sprintf("%q has no audio stream", source), nil)
	}
	result.MediaSeconds = probed.DurationSeconds()

	sha, err := fileutil.SHA256File(source)
	if err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "digest", "hash source file", err)
	}

	workDir := filepath.Join(g.cfg.Paths.WorkDir, result.RunID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "workdir", "create work directory", err)
	}
	defer os.RemoveAll(workDir)

	monoPath, err := g.ensureMono(ctx, source, sha, workDir, req.Force, result)
	if err != nil {
		return err
	}

	jsonPath, err := g.ensureTranscript(ctx, source, sha, monoPath, workDir, req.Force, result)
	if err != nil {
		return err
	}

	segments, err := whisperx.LoadSegments(jsonPath)
	if err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "transcript", "load transcript JSON", err)
	}
	if len(segments) == 0 {
		return services.Wrap(services.ErrValidation, "pipeline", "transcript", "transcript contains no segments", nil)
	}

	words := captions.FromSegments(segments)
	cues := captions.Reshape(words, g.cfg.Captions.WordsPerLine)
	result.CueCount = len(cues)

	doc, err := captions.Render(cues, captions.Options{
		Format:         g.cfg.Captions.Format,
		HighlightWords: g.cfg.Captions.HighlightWords,
		HighlightColor: g.cfg.Captions.HighlightColor,
		Language:       result.Language,
		FrameRate:      g.cfg.Captions.FrameRate,
		GapFrames:      g.cfg.Captions.GapFrames,
	})
	if err != nil {
		return err
	}

	if g.cfg.Captions.Format == captions.FormatSRT || g.cfg.Captions.Format == "" {
		if issues := captions.ValidateSRT(doc, result.MediaSeconds); len(issues) > 0 {
			result.ValidationIssues = issues
			g.logger.Warn("caption validation reported issues",
				logging.String(logging.FieldEventType, "caption_validation"),
				logging.String("source_file", source),
				logging.String("issues", strings.Join(issues, ", ")),
				logging.String(logging.FieldImpact, "output written anyway; review before publishing"))
		}
	}

	outputPath, err := g.outputPath(req, source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "output", "create output directory", err)
	}
	if err := os.WriteFile(outputPath, []byte(doc), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "output", "write caption file", err)
	}
	result.OutputPath = outputPath
	return nil
}

// ensureMono returns the mono conversion for the source, converting only on a
// cache miss or forced regeneration.
func (g *Generator) ensureMono(ctx context.Context, source, sha, workDir string, force bool, result *Result) (string, error) {
	if !force {
		if cached, ok := g.cache.Mono(sha); ok {
			result.MonoCacheHit = true
			g.logger.Debug("reusing cached mono conversion",
				logging.String(logging.FieldDecisionType, "cache_hit"),
				logging.String("source_file", source),
				logging.String("cached_path", cached))
			return cached, nil
		}
	}

	monoPath := filepath.Join(workDir, "mono.wav")
	if err := g.converter.ConvertToMono(ctx, source, monoPath); err != nil {
		return "", err
	}
	cached, err := g.cache.StoreMono(source, sha, monoPath)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "pipeline", "cache", "store mono conversion", err)
	}
	return cached, nil
}

// ensureTranscript returns the aligned transcript JSON for the source,
// transcribing only on a cache miss or forced regeneration. The cache variant
// key includes model and language, so changing either retranscribes while
// caption shaping changes never do.
func (g *Generator) ensureTranscript(ctx context.Context, source, sha, monoPath, workDir string, force bool, result *Result) (string, error) {
	model := g.transcriber.Model()
	lang := g.language()

	if !force {
		if cached, ok := g.cache.Transcript(sha, model, lang); ok {
			result.TranscriptCacheHit = true
			g.logger.Debug("reusing cached transcript",
				logging.String(logging.FieldDecisionType, "cache_hit"),
				logging.String("source_file", source),
				logging.String("model", model),
				logging.String("language", lang),
				logging.String("cached_path", cached))
			return cached, nil
		}
	}

	transcribed, err := g.transcriber.TranscribeFile(ctx, monoPath, workDir)
	if err != nil {
		return "", err
	}
	cached, err := g.cache.StoreTranscript(source, sha, model, lang, transcribed.JSONPath)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "pipeline", "cache", "store transcript", err)
	}
	return cached, nil
}

func (g *Generator) language() string {
	if lang := langpkg.ToISO2(g.cfg.WhisperX.Language); lang != "" {
		return lang
	}
	return "en"
}

func (g *Generator) outputPath(req Request, source string) (string, error) {
	ext := captions.Extension(g.cfg.Captions.Format)
	if out := strings.TrimSpace(req.Output); out != "" {
		return out, nil
	}
	base := textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
	if base == "" {
		base = "captions"
	}
	dir := g.cfg.Paths.OutputDir
	if dir == "" {
		dir = filepath.Dir(source)
	}
	return filepath.Join(dir, base+"."+ext), nil
}

// record appends the run to the history ledger when enabled. Ledger failures
// are logged, never fatal.
func (g *Generator) record(ctx context.Context, result Result, runErr error) {
	if g.history == nil {
		return
	}
	rec := history.Record{
		RunID:              result.RunID,
		Source:             result.Source,
		Output:             result.OutputPath,
		Format:             result.Format,
		Model:              result.Model,
		Language:           result.Language,
		MonoCacheHit:       result.MonoCacheHit,
		TranscriptCacheHit: result.TranscriptCacheHit,
		Duration:           result.Elapsed,
		Status:             history.StatusCompleted,
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ErrorMessage = runErr.Error()
	}
	if _, err := g.history.Append(ctx, rec); err != nil {
		g.logger.Warn("failed to record run history",
			logging.String(logging.FieldEventType, "history_append_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "run completed but will not appear in history"))
	}
}
