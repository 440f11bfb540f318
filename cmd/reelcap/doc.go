// Command reelcap generates word-timed captions from audio and video files
// using WhisperX, with cached conversions and transcripts so reformatting
// reruns are cheap.
package main
