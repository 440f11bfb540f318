package config

const (
	defaultCacheDir  = "~/.local/share/reelcap/cache"
	defaultOutputDir = "."
	defaultWorkDir   = "~/.local/share/reelcap/work"
	defaultLogDir    = "~/.local/share/reelcap/logs"

	defaultWhisperXModel       = "small"
	defaultWhisperXComputeType = "int8"
	defaultWhisperXBatchSize   = 16
	defaultWhisperXLanguage    = "en"
	defaultWhisperXVADMethod   = "silero"

	defaultWordsPerLine   = 5
	defaultHighlightColor = "yellow"
	defaultCaptionFormat  = "srt"
	defaultGapFrames      = 3
	defaultFrameRate      = 24

	defaultRenderFontName  = "Futura"
	defaultRenderFontSize  = 22
	defaultRenderMarginV   = 160
	defaultRenderOutline   = 2
	defaultRenderAlignment = 2

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		WhisperX: WhisperX{
			Model:       defaultWhisperXModel,
			ComputeType: defaultWhisperXComputeType,
			BatchSize:   defaultWhisperXBatchSize,
			Language:    defaultWhisperXLanguage,
			VADMethod:   defaultWhisperXVADMethod,
		},
		Captions: Captions{
			WordsPerLine:   defaultWordsPerLine,
			HighlightWords: true,
			HighlightColor: defaultHighlightColor,
			Format:         defaultCaptionFormat,
			GapFrames:      defaultGapFrames,
			FrameRate:      defaultFrameRate,
		},
		Render: Render{
			FontName:  defaultRenderFontName,
			FontSize:  defaultRenderFontSize,
			MarginV:   defaultRenderMarginV,
			Outline:   defaultRenderOutline,
			Alignment: defaultRenderAlignment,
			Vertical:  true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
