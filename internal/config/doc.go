// Package config loads, validates, and normalizes reelcap configuration.
//
// Configuration lives in a TOML file (default ~/.config/reelcap/config.toml,
// with a project-local reelcap.toml fallback) and covers:
//   - Paths: cache, output, work, and log directories
//   - WhisperX: transcription model, device, and language settings
//   - Captions: SRT/ITT shaping (words per line, highlight styling, timing)
//   - Render: burn-in subtitle styling for video output
//   - History: run ledger toggle
//   - Logging: log format and level
//
// Values not present in the file fall back to repository defaults, which
// mirror the behaviour of running against a short spoken-word clip on CPU.
package config
