package captions

import (
	"strings"
	"testing"
)

func TestValidateSRTClean(t *testing.T) {
	content := WriteSRT(testCues())
	if issues := ValidateSRT(content, 2.0); len(issues) != 0 {
		t.Errorf("clean SRT should validate, got %v", issues)
	}
}

func TestValidateSRTEmpty(t *testing.T) {
	issues := ValidateSRT("   \n\n", 0)
	if len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Errorf("issues = %v, want [empty_subtitle_file]", issues)
	}
}

func TestValidateSRTNoTimestamps(t *testing.T) {
	issues := ValidateSRT("1\njust text\n\n", 0)
	if len(issues) != 1 || issues[0] != "no_valid_timestamps" {
		t.Errorf("issues = %v, want [no_valid_timestamps]", issues)
	}
}

func TestValidateSRTDurationMismatch(t *testing.T) {
	// Captions end at ~1.4s but the media runs ten minutes.
	content := WriteSRT(testCues())
	issues := ValidateSRT(content, 600)
	found := false
	for _, issue := range issues {
		if strings.HasPrefix(issue, "duration_mismatch") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected duration_mismatch, got %v", issues)
	}
}

func TestValidateSRTExceedsMedia(t *testing.T) {
	content := "1\n00:10:00,000 --> 00:10:05,000\nlate\n\n"
	issues := ValidateSRT(content, 30)
	found := false
	for _, issue := range issues {
		if strings.HasPrefix(issue, "captions_exceed_media") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected captions_exceed_media, got %v", issues)
	}
}
