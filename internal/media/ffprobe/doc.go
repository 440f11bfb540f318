// Package ffprobe shells out to ffprobe and decodes its JSON report into a
// small result type the pipeline can query for duration, channel counts, and
// frame rates.
package ffprobe
