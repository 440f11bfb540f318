// Package services provides shared error classification for components that
// drive external tools (ffmpeg, ffprobe, WhisperX).
//
// Errors are wrapped with a sentinel marker plus component/operation context
// so the CLI can map failures to exit codes without string matching.
package services
