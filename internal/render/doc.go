// Package render burns caption files into video with ffmpeg's subtitles
// filter, including the 9:16 vertical reframing used for short-form output.
package render
