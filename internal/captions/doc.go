// Package captions reshapes aligned word-level transcripts into caption cues
// and writes them as SRT or iTunes Timed Text (ITT) documents.
//
// The shaping step regroups word timings into cues of a configured length.
// Writers come in two flavours per format: plain (one entry per cue) and
// highlight (one entry per word, with the active word color-styled), the
// latter producing the karaoke effect used for short-form vertical video.
package captions
