package config

import (
	"fmt"
	"strings"
)

var validCaptionFormats = map[string]bool{
	"srt": true,
	"itt": true,
}

var validVADMethods = map[string]bool{
	"silero":   true,
	"pyannote": true,
}

var validLogFormats = map[string]bool{
	"console": true,
	"json":    true,
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		problems = append(problems, "paths.cache_dir must not be empty")
	}
	if !validCaptionFormats[c.Captions.Format] {
		problems = append(problems, fmt.Sprintf("captions.format %q is not supported (srt, itt)", c.Captions.Format))
	}
	if !validVADMethods[c.WhisperX.VADMethod] {
		problems = append(problems, fmt.Sprintf("whisperx.vad_method %q is not supported (silero, pyannote)", c.WhisperX.VADMethod))
	}
	if c.WhisperX.VADMethod == "pyannote" && strings.TrimSpace(c.WhisperX.HFToken) == "" {
		problems = append(problems, "whisperx.hf_token is required when vad_method is pyannote")
	}
	if c.Captions.FrameRate > 120 {
		problems = append(problems, fmt.Sprintf("captions.frame_rate %d is implausibly high", c.Captions.FrameRate))
	}
	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
