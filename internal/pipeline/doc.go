// Package pipeline orchestrates caption generation: probe the source, reuse
// or produce the cached mono conversion and transcript, then shape and write
// the caption document. Caption shaping settings never invalidate cached
// transcripts, so reruns with different formatting reuse the expensive
// WhisperX output.
package pipeline
