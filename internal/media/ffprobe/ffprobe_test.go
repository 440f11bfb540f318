package ffprobe

import "testing"

const sampleAudioJSON = `{
  "streams": [
    {"index": 0, "codec_name": "pcm_s16le", "codec_type": "audio", "sample_rate": "44100", "channels": 2, "duration": "92.500000"}
  ],
  "format": {"filename": "reel1.wav", "nb_streams": 1, "duration": "92.500000", "format_name": "wav"}
}`

const sampleVideoJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "avg_frame_rate": "24000/1001"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2}
  ],
  "format": {"filename": "clip.mp4", "nb_streams": 2, "duration": "30.100000", "format_name": "mov,mp4"}
}`

func TestParseAudio(t *testing.T) {
	result, err := Parse([]byte(sampleAudioJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Errorf("AudioStreamCount = %d, want 1", result.AudioStreamCount())
	}
	stream, ok := result.FirstAudioStream()
	if !ok {
		t.Fatal("FirstAudioStream should find a stream")
	}
	if stream.Channels != 2 {
		t.Errorf("Channels = %d, want 2", stream.Channels)
	}
	if got := result.DurationSeconds(); got != 92.5 {
		t.Errorf("DurationSeconds = %v, want 92.5", got)
	}
	if result.FrameRate() != 0 {
		t.Error("audio-only container should report zero frame rate")
	}
}

func TestParseVideoFrameRate(t *testing.T) {
	result, err := Parse([]byte(sampleVideoJSON))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	got := result.FrameRate()
	want := 24000.0 / 1001.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("FrameRate = %v, want %v", got, want)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result, err := Parse([]byte(`{"streams":[{"codec_type":"audio","duration":"12.25"}],"format":{}}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := result.DurationSeconds(); got != 12.25 {
		t.Errorf("DurationSeconds = %v, want 12.25", got)
	}
}

func TestParseFraction(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"24/1", 24},
		{"30", 30},
		{"0/0", 0},
		{"", 0},
		{"x/y", 0},
	}
	for _, tt := range tests {
		if got := parseFraction(tt.input); got != tt.want {
			t.Errorf("parseFraction(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
