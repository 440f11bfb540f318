// Package audio wraps the ffmpeg invocations reelcap needs: downmixing a
// source file to the mono 16 kHz WAV form WhisperX expects, and tempo
// adjustment to fit an audio clip under a duration ceiling.
package audio
