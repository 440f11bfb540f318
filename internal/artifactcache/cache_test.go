package artifactcache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSHA = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestStoreMonoAndLookup(t *testing.T) {
	cache := New(t.TempDir(), nil)
	mono := writeTemp(t, "mono.wav", "RIFFdata")

	cached, err := cache.StoreMono("reel1.wav", testSHA, mono)
	if err != nil {
		t.Fatalf("StoreMono failed: %v", err)
	}

	got, ok := cache.Mono(testSHA)
	if !ok {
		t.Fatal("Mono should hit after store")
	}
	if got != cached {
		t.Errorf("Mono path = %q, want %q", got, cached)
	}
	if !strings.HasPrefix(filepath.Base(filepath.Dir(got)), testSHA[:16]) {
		t.Errorf("artifact should live under a digest directory: %q", got)
	}
}

func TestMonoMissWhenArtifactDeleted(t *testing.T) {
	cache := New(t.TempDir(), nil)
	mono := writeTemp(t, "mono.wav", "RIFFdata")

	cached, err := cache.StoreMono("reel1.wav", testSHA, mono)
	if err != nil {
		t.Fatalf("StoreMono failed: %v", err)
	}
	if err := os.Remove(cached); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}
	if _, ok := cache.Mono(testSHA); ok {
		t.Error("Mono should miss when the artifact file vanished")
	}
}

func TestTranscriptVariants(t *testing.T) {
	cache := New(t.TempDir(), nil)
	transcript := writeTemp(t, "t.json", `{"segments":[]}`)

	if _, err := cache.StoreTranscript("reel1.wav", testSHA, "small", "en", transcript); err != nil {
		t.Fatalf("StoreTranscript failed: %v", err)
	}

	if _, ok := cache.Transcript(testSHA, "small", "en"); !ok {
		t.Error("same model/language should hit")
	}
	// Model and language participate in the key; formatting settings do not
	// exist here at all.
	if _, ok := cache.Transcript(testSHA, "large-v3", "en"); ok {
		t.Error("different model should miss")
	}
	if _, ok := cache.Transcript(testSHA, "small", "es"); ok {
		t.Error("different language should miss")
	}
	if _, ok := cache.Transcript(testSHA, "Small", "EN"); !ok {
		t.Error("variant key should be case-insensitive")
	}
}

func TestManifestPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	transcript := writeTemp(t, "t.json", `{"segments":[]}`)

	first := New(dir, nil)
	if _, err := first.StoreTranscript("reel1.wav", testSHA, "small", "en", transcript); err != nil {
		t.Fatalf("StoreTranscript failed: %v", err)
	}

	second := New(dir, nil)
	if _, ok := second.Transcript(testSHA, "small", "en"); !ok {
		t.Error("a fresh cache instance should see persisted entries")
	}
	if second.Count() != 1 {
		t.Errorf("Count = %d, want 1", second.Count())
	}
}

func TestRemoveDeletesArtifacts(t *testing.T) {
	dir := t.TempDir()
	cache := New(dir, nil)
	mono := writeTemp(t, "mono.wav", "RIFFdata")

	cached, err := cache.StoreMono("reel1.wav", testSHA, mono)
	if err != nil {
		t.Fatalf("StoreMono failed: %v", err)
	}
	if err := cache.Remove(testSHA); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := os.Stat(cached); !os.IsNotExist(err) {
		t.Error("artifact directory should be removed")
	}
	if err := cache.Remove(testSHA); err == nil {
		t.Error("removing a missing digest should fail")
	}
}

func TestPruneDropsVanishedArtifacts(t *testing.T) {
	cache := New(t.TempDir(), nil)
	mono := writeTemp(t, "mono.wav", "RIFFdata")
	transcript := writeTemp(t, "t.json", `{"segments":[]}`)

	cachedMono, err := cache.StoreMono("reel1.wav", testSHA, mono)
	if err != nil {
		t.Fatalf("StoreMono failed: %v", err)
	}
	if _, err := cache.StoreTranscript("reel1.wav", testSHA, "small", "en", transcript); err != nil {
		t.Fatalf("StoreTranscript failed: %v", err)
	}

	if err := os.Remove(cachedMono); err != nil {
		t.Fatalf("remove mono artifact: %v", err)
	}
	changed, err := cache.Prune()
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	// Transcript survives, mono reference is gone, entry stays.
	if _, ok := cache.Transcript(testSHA, "small", "en"); !ok {
		t.Error("transcript should survive prune")
	}
	if cache.Count() != 1 {
		t.Errorf("Count = %d, want 1", cache.Count())
	}

	// Remove the transcript too; the entry should disappear.
	entries := cache.List()
	if err := os.Remove(entries[0].Transcripts["small/en"]); err != nil {
		t.Fatalf("remove transcript artifact: %v", err)
	}
	if _, err := cache.Prune(); err != nil {
		t.Fatalf("second Prune failed: %v", err)
	}
	if cache.Count() != 0 {
		t.Errorf("Count after full prune = %d, want 0", cache.Count())
	}
}

func TestClear(t *testing.T) {
	cache := New(t.TempDir(), nil)
	mono := writeTemp(t, "mono.wav", "RIFFdata")
	if _, err := cache.StoreMono("reel1.wav", testSHA, mono); err != nil {
		t.Fatalf("StoreMono failed: %v", err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Count() != 0 {
		t.Errorf("Count after clear = %d", cache.Count())
	}
}

func TestUnconfiguredCacheIsNoop(t *testing.T) {
	cache := New("", nil)
	if _, ok := cache.Mono(testSHA); ok {
		t.Error("unconfigured cache should always miss")
	}
	// Stores pass through without caching.
	path, err := cache.StoreMono("reel1.wav", testSHA, "/tmp/mono.wav")
	if err != nil {
		t.Fatalf("StoreMono on unconfigured cache failed: %v", err)
	}
	if path != "/tmp/mono.wav" {
		t.Errorf("unconfigured store should pass the path through, got %q", path)
	}
}

func TestCorruptManifestStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	cache := New(dir, nil)
	if cache.Count() != 0 {
		t.Errorf("corrupt manifest should yield an empty cache, got %d entries", cache.Count())
	}
}
