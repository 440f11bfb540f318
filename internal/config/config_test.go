package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Error("exists should be false for a missing file")
	}
	if cfg.WhisperX.Model != "small" {
		t.Errorf("default model = %q, want small", cfg.WhisperX.Model)
	}
	if cfg.Captions.WordsPerLine != 5 {
		t.Errorf("default words_per_line = %d, want 5", cfg.Captions.WordsPerLine)
	}
	if !cfg.Captions.HighlightWords {
		t.Error("highlight_words should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[captions]
words_per_line = 3
highlight_color = "Red"
format = "ITT"
frame_rate = 30

[whisperx]
model = "large-v3"
cuda_enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatal("config file should have been found")
	}
	if cfg.Captions.WordsPerLine != 3 {
		t.Errorf("words_per_line = %d, want 3", cfg.Captions.WordsPerLine)
	}
	if cfg.Captions.HighlightColor != "red" {
		t.Errorf("highlight_color = %q, want red (lowercased)", cfg.Captions.HighlightColor)
	}
	if cfg.Captions.Format != "itt" {
		t.Errorf("format = %q, want itt (lowercased)", cfg.Captions.Format)
	}
	if !cfg.WhisperX.CUDAEnabled {
		t.Error("cuda_enabled should be true")
	}
	// Untouched sections keep defaults.
	if cfg.Captions.GapFrames != 3 {
		t.Errorf("gap_frames = %d, want default 3", cfg.Captions.GapFrames)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[captions]\nformat = \"vtt\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error for unsupported format")
	}
	if !strings.Contains(err.Error(), "captions.format") {
		t.Errorf("error should mention captions.format: %v", err)
	}
}

func TestLoadRejectsPyannoteWithoutToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[whisperx]\nvad_method = \"pyannote\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for pyannote without hf_token")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := expandPath("~/captions")
	if err != nil {
		t.Fatalf("expandPath failed: %v", err)
	}
	want := filepath.Join(home, "captions")
	if got != want {
		t.Errorf("expandPath = %q, want %q", got, want)
	}
}

func TestSampleConfigParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
	// Paths are expanded during normalize, so compare the stable sections.
	defaults := Default()
	if cfg.Captions != defaults.Captions {
		t.Error("sample config captions should match defaults")
	}
	if cfg.WhisperX != defaults.WhisperX {
		t.Error("sample config whisperx should match defaults")
	}
}
