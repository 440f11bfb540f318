// Package artifactcache stores the derived artifacts that make repeated
// caption runs cheap: the mono 16 kHz conversion of a source file and the
// aligned transcript JSON WhisperX produced for it.
//
// Artifacts are keyed by the SHA256 of the source file content, so renames
// and copies still hit. Transcripts additionally key on model and language,
// the only settings that change WhisperX output; caption formatting changes
// never invalidate anything.
//
// # Storage
//
// Each source gets a directory named by its digest prefix under the cache
// root, holding mono.wav and one <model>-<lang>.json per transcription
// variant. A human-readable manifest.json at the root indexes everything.
// Manifest writes take a file lock (manifest.lock) so concurrent reelcap
// processes do not corrupt it.
package artifactcache
