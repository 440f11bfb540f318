// Package whisperx invokes the external WhisperX CLI through uvx.
//
// This package handles:
//   - Command construction (model, device, VAD, language flags)
//   - Transcription invocation against a prepared mono WAV
//   - Parsing the aligned word-level JSON WhisperX writes
//
// WhisperX performs transcription and forced alignment in one run when asked
// for JSON output, so no separate alignment step exists here.
package whisperx
