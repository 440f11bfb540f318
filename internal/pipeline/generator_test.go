package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcap/internal/artifactcache"
	"reelcap/internal/config"
	"reelcap/internal/logging"
	"reelcap/internal/media/ffprobe"
	"reelcap/internal/services/whisperx"
)

type fakeConverter struct {
	calls int
}

func (f *fakeConverter) ConvertToMono(_ context.Context, _, dest string) error {
	f.calls++
	return os.WriteFile(dest, []byte("RIFF mono"), 0o644)
}

type fakeTranscriber struct {
	calls    int
	model    string
	segments []whisperx.Segment
}

func (f *fakeTranscriber) TranscribeFile(_ context.Context, source, outputDir string) (whisperx.TranscribeResult, error) {
	f.calls++
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, base+".json")
	if err := whisperx.SaveSegments(jsonPath, f.segments); err != nil {
		return whisperx.TranscribeResult{}, err
	}
	return whisperx.TranscribeResult{JSONPath: jsonPath}, nil
}

func (f *fakeTranscriber) Model() string {
	if f.model != "" {
		return f.model
	}
	return "small"
}

func (f *fakeTranscriber) Language() string { return "en" }

func testSegments() []whisperx.Segment {
	return []whisperx.Segment{
		{
			Text:  "hello there general kenobi",
			Start: 0.0,
			End:   2.4,
			Words: []whisperx.Word{
				{Word: "hello", Start: 0.0, End: 0.5},
				{Word: "there", Start: 0.5, End: 1.0},
				{Word: "general", Start: 1.2, End: 1.8},
				{Word: "kenobi", Start: 1.8, End: 2.4},
			},
		},
	}
}

func audioProbe(_ context.Context, _, _ string) (ffprobe.Result, error) {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "audio", Channels: 2}},
		Format:  ffprobe.Format{Duration: "2.4"},
	}, nil
}

type testEnv struct {
	cfg         *config.Config
	cacheDir    string
	converter   *fakeConverter
	transcriber *fakeTranscriber
	generator   *Generator
}

func newTestEnv(t *testing.T, cacheDir string, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.CacheDir = cacheDir
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.WorkDir = t.TempDir()
	cfg.History.Enabled = false
	if mutate != nil {
		mutate(&cfg)
	}

	logger := logging.NewNop()
	env := &testEnv{
		cfg:         &cfg,
		cacheDir:    cacheDir,
		converter:   &fakeConverter{},
		transcriber: &fakeTranscriber{model: cfg.WhisperX.Model, segments: testSegments()},
	}
	env.generator = NewGenerator(&cfg, logger, artifactcache.New(cacheDir, logger), nil)
	env.generator.WithConverter(env.converter)
	env.generator.WithTranscriber(env.transcriber)
	env.generator.WithProber(audioProbe)
	return env
}

func writeSourceFile(t *testing.T) string {
	t.Helper()
	source := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(source, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return source
}

func TestGenerateProducesCaptions(t *testing.T) {
	env := newTestEnv(t, t.TempDir(), nil)
	source := writeSourceFile(t)

	result, err := env.generator.Generate(context.Background(), Request{Source: source})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.MonoCacheHit || result.TranscriptCacheHit {
		t.Errorf("first run should miss the cache: %+v", result)
	}
	if env.converter.calls != 1 || env.transcriber.calls != 1 {
		t.Errorf("converter calls = %d, transcriber calls = %d, want 1 each", env.converter.calls, env.transcriber.calls)
	}
	if filepath.Ext(result.OutputPath) != ".srt" {
		t.Errorf("output path = %q, want .srt", result.OutputPath)
	}

	content, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), "kenobi") {
		t.Errorf("output missing transcript words:\n%s", content)
	}
	// Default config highlights words, one SRT entry per word.
	if !strings.Contains(string(content), `<font color="#FFFF00">hello</font>`) {
		t.Errorf("highlight markup missing:\n%s", content)
	}
}

// Changing caption shaping between runs must reuse the cached transcript
// while still producing output that reflects the new settings.
func TestRerunWithNewShapingReusesTranscript(t *testing.T) {
	cacheDir := t.TempDir()
	source := writeSourceFile(t)

	first := newTestEnv(t, cacheDir, nil)
	firstResult, err := first.generator.Generate(context.Background(), Request{Source: source})
	if err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	second := newTestEnv(t, cacheDir, func(cfg *config.Config) {
		cfg.Captions.WordsPerLine = 2
		cfg.Captions.HighlightWords = false
	})
	secondResult, err := second.generator.Generate(context.Background(), Request{Source: source})
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if second.converter.calls != 0 {
		t.Errorf("second run reconverted audio (%d calls)", second.converter.calls)
	}
	if second.transcriber.calls != 0 {
		t.Errorf("second run retranscribed (%d calls)", second.transcriber.calls)
	}
	if !secondResult.MonoCacheHit || !secondResult.TranscriptCacheHit {
		t.Errorf("second run should hit both caches: %+v", secondResult)
	}

	firstContent, _ := os.ReadFile(firstResult.OutputPath)
	secondContent, err := os.ReadFile(secondResult.OutputPath)
	if err != nil {
		t.Fatalf("read second output: %v", err)
	}
	if string(firstContent) == string(secondContent) {
		t.Error("output should change with new shaping settings")
	}
	// 4 words at 2 per line -> 2 plain cues.
	if got := strings.Count(string(secondContent), "-->"); got != 2 {
		t.Errorf("cue count = %d, want 2:\n%s", got, secondContent)
	}
	if strings.Contains(string(secondContent), "<font") {
		t.Errorf("highlight disabled but markup present:\n%s", secondContent)
	}
}

func TestChangedModelRetranscribes(t *testing.T) {
	cacheDir := t.TempDir()
	source := writeSourceFile(t)

	first := newTestEnv(t, cacheDir, nil)
	if _, err := first.generator.Generate(context.Background(), Request{Source: source}); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	second := newTestEnv(t, cacheDir, func(cfg *config.Config) {
		cfg.WhisperX.Model = "large-v3"
	})
	result, err := second.generator.Generate(context.Background(), Request{Source: source})
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if result.TranscriptCacheHit {
		t.Error("model change must invalidate the transcript cache")
	}
	if second.transcriber.calls != 1 {
		t.Errorf("transcriber calls = %d, want 1", second.transcriber.calls)
	}
	if !result.MonoCacheHit {
		t.Error("mono conversion is model-independent and should still hit")
	}
}

func TestForceBypassesCache(t *testing.T) {
	cacheDir := t.TempDir()
	source := writeSourceFile(t)

	env := newTestEnv(t, cacheDir, nil)
	if _, err := env.generator.Generate(context.Background(), Request{Source: source}); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	result, err := env.generator.Generate(context.Background(), Request{Source: source, Force: true})
	if err != nil {
		t.Fatalf("forced Generate failed: %v", err)
	}
	if result.MonoCacheHit || result.TranscriptCacheHit {
		t.Errorf("forced run must not report cache hits: %+v", result)
	}
	if env.converter.calls != 2 || env.transcriber.calls != 2 {
		t.Errorf("converter calls = %d, transcriber calls = %d, want 2 each", env.converter.calls, env.transcriber.calls)
	}
}

func TestGenerateRejectsSourceWithoutAudio(t *testing.T) {
	env := newTestEnv(t, t.TempDir(), nil)
	env.generator.WithProber(func(_ context.Context, _, _ string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{CodecType: "video"}}}, nil
	})
	source := writeSourceFile(t)

	_, err := env.generator.Generate(context.Background(), Request{Source: source})
	if err == nil || !strings.Contains(err.Error(), "no audio stream") {
		t.Errorf("expected no-audio error, got %v", err)
	}
}

func TestGenerateRejectsMissingSource(t *testing.T) {
	env := newTestEnv(t, t.TempDir(), nil)
	_, err := env.generator.Generate(context.Background(), Request{Source: filepath.Join(t.TempDir(), "gone.wav")})
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestGenerateITTOutput(t *testing.T) {
	env := newTestEnv(t, t.TempDir(), func(cfg *config.Config) {
		cfg.Captions.Format = "itt"
		cfg.Captions.HighlightWords = false
	})
	source := writeSourceFile(t)

	result, err := env.generator.Generate(context.Background(), Request{Source: source})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if filepath.Ext(result.OutputPath) != ".itt" {
		t.Errorf("output path = %q, want .itt", result.OutputPath)
	}
	content, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), `ttp:timeBase="smpte"`) {
		t.Errorf("ITT output missing SMPTE timebase:\n%s", content)
	}
}

func TestExplicitOutputPath(t *testing.T) {
	env := newTestEnv(t, t.TempDir(), nil)
	source := writeSourceFile(t)
	explicit := filepath.Join(t.TempDir(), "custom", "captions.srt")

	result, err := env.generator.Generate(context.Background(), Request{Source: source, Output: explicit})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result.OutputPath != explicit {
		t.Errorf("output path = %q, want %q", result.OutputPath, explicit)
	}
	if _, err := os.Stat(explicit); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
}
