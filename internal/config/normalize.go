package config

import "strings"

// normalize expands path fields and fills defaulted values so the rest of the
// program never has to re-check them.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.CacheDir,
		&c.Paths.OutputDir,
		&c.Paths.WorkDir,
		&c.Paths.LogDir,
	} {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.ComputeType = strings.TrimSpace(c.WhisperX.ComputeType)
	if c.WhisperX.ComputeType == "" {
		c.WhisperX.ComputeType = defaultWhisperXComputeType
	}
	if c.WhisperX.BatchSize <= 0 {
		c.WhisperX.BatchSize = defaultWhisperXBatchSize
	}
	c.WhisperX.Language = strings.ToLower(strings.TrimSpace(c.WhisperX.Language))
	c.WhisperX.VADMethod = strings.ToLower(strings.TrimSpace(c.WhisperX.VADMethod))
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultWhisperXVADMethod
	}

	if c.Captions.WordsPerLine <= 0 {
		c.Captions.WordsPerLine = defaultWordsPerLine
	}
	c.Captions.HighlightColor = strings.ToLower(strings.TrimSpace(c.Captions.HighlightColor))
	if c.Captions.HighlightColor == "" {
		c.Captions.HighlightColor = defaultHighlightColor
	}
	c.Captions.Format = strings.ToLower(strings.TrimSpace(c.Captions.Format))
	if c.Captions.Format == "" {
		c.Captions.Format = defaultCaptionFormat
	}
	if c.Captions.GapFrames < 0 {
		c.Captions.GapFrames = defaultGapFrames
	}
	if c.Captions.FrameRate <= 0 {
		c.Captions.FrameRate = defaultFrameRate
	}

	if strings.TrimSpace(c.Render.FontName) == "" {
		c.Render.FontName = defaultRenderFontName
	}
	if c.Render.FontSize <= 0 {
		c.Render.FontSize = defaultRenderFontSize
	}
	if c.Render.Outline < 0 {
		c.Render.Outline = defaultRenderOutline
	}
	if c.Render.Alignment <= 0 {
		c.Render.Alignment = defaultRenderAlignment
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
