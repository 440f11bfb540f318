package whisperx

// Config captures runtime settings for WhisperX operations.
type Config struct {
	// Model is the WhisperX model to use (e.g., "small", "large-v3").
	Model string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// ComputeType overrides the CPU compute type (e.g., "int8").
	ComputeType string
	// BatchSize controls transcription batching.
	BatchSize int
	// Language is the expected audio language (ISO 639-1).
	Language string
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
}

// WhisperX configuration constants.
const (
	DefaultModel       = "small"
	DefaultBatchSize   = 16
	CUDAIndexURL       = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL       = "https://pypi.org/simple"
	OutputFormat       = "all"
	SegmentResolution  = "sentence"
	CPUDevice          = "cpu"
	CUDADevice         = "cuda"
	DefaultComputeType = "int8"
	VADMethodPyannote  = "pyannote"
	VADMethodSilero    = "silero"
)

// Command names for external tools.
const (
	UVXCommand = "uvx"
)
