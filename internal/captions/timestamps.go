package captions

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSRTTimestamp renders seconds as the SRT form HH:MM:SS,mmm.
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseSRTTimestamp parses HH:MM:SS,mmm (or the period variant some tools
// emit) into seconds.
func ParseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// SRT standard uses a comma for milliseconds; normalize the period form.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// FormatFrameTimecode renders seconds as the frame-accurate HH:MM:SS:FF form
// ITT documents use, at the given frame rate.
func FormatFrameTimecode(seconds float64, frameRate int) string {
	if seconds < 0 {
		seconds = 0
	}
	if frameRate <= 0 {
		frameRate = 24
	}
	totalFrames := int64(math.Round(seconds * float64(frameRate)))
	framesPerHour := int64(frameRate) * 3600
	framesPerMinute := int64(frameRate) * 60

	hours := totalFrames / framesPerHour
	totalFrames -= hours * framesPerHour
	minutes := totalFrames / framesPerMinute
	totalFrames -= minutes * framesPerMinute
	secs := totalFrames / int64(frameRate)
	frames := totalFrames - secs*int64(frameRate)
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, secs, frames)
}
