// Package language normalizes user-supplied language codes for the WhisperX
// --language flag and resolves display names for CLI output.
package language
