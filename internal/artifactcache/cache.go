package artifactcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"reelcap/internal/fileutil"
	"reelcap/internal/logging"
	"reelcap/internal/textutil"
)

// Entry records the cached artifacts for one source file.
type Entry struct {
	Source string `json:"source"`
	SHA256 string `json:"sha256"`
	// MonoPath is the cached mono conversion, empty until stored.
	MonoPath string `json:"mono_path,omitempty"`
	// Transcripts maps "<model>/<language>" to a transcript JSON path.
	Transcripts map[string]string `json:"transcripts,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Cache provides thread-safe access to the artifact cache.
type Cache struct {
	dir    string
	logger *slog.Logger
	lock   *flock.Flock
	mu     sync.RWMutex
	// entries keyed by source SHA256
	entries map[string]Entry
}

const manifestName = "manifest.json"

// New creates a cache rooted at dir. If dir is empty, the cache is
// non-functional and every lookup misses. The manifest is loaded eagerly;
// a corrupt manifest logs a warning and starts empty.
func New(dir string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "artifactcache")

	c := &Cache{
		dir:     strings.TrimSpace(dir),
		logger:  logger,
		entries: make(map[string]Entry),
	}
	if c.dir == "" {
		return c
	}
	c.lock = flock.New(filepath.Join(c.dir, "manifest.lock"))

	if err := c.load(); err != nil {
		logger.Warn("failed to load cache manifest",
			logging.String(logging.FieldEventType, "artifactcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "previously cached conversions and transcripts will be regenerated"))
	}
	return c
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

func transcriptKey(model, language string) string {
	return textutil.SanitizeToken(model) + "/" + textutil.SanitizeToken(language)
}

// Mono returns the cached mono conversion for a digest, verifying the file
// still exists with content.
func (c *Cache) Mono(sha string) (string, bool) {
	entry, ok := c.lookup(sha)
	if !ok || entry.MonoPath == "" {
		return "", false
	}
	if !fileutil.NonEmptyFile(entry.MonoPath) {
		return "", false
	}
	return entry.MonoPath, true
}

// Transcript returns the cached transcript JSON for a digest + model +
// language, verifying the file still exists with content.
func (c *Cache) Transcript(sha, model, language string) (string, bool) {
	entry, ok := c.lookup(sha)
	if !ok {
		return "", false
	}
	path := entry.Transcripts[transcriptKey(model, language)]
	if path == "" || !fileutil.NonEmptyFile(path) {
		return "", false
	}
	return path, true
}

func (c *Cache) lookup(sha string) (Entry, bool) {
	sha = strings.TrimSpace(sha)
	if sha == "" || c.dir == "" {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, found := c.entries[sha]
	return entry, found
}

// StoreMono copies a freshly converted mono file into the cache and records
// it. Returns the cached path.
func (c *Cache) StoreMono(source, sha, monoPath string) (string, error) {
	if c.dir == "" {
		return monoPath, nil
	}
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return "", errors.New("source digest cannot be empty")
	}

	dest := filepath.Join(c.entryDir(sha), "mono.wav")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create cache entry dir: %w", err)
	}
	if err := fileutil.CopyFile(monoPath, dest); err != nil {
		return "", fmt.Errorf("cache mono audio: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.ensureEntry(source, sha)
	entry.MonoPath = dest
	entry.UpdatedAt = time.Now().UTC()
	c.entries[sha] = entry

	if err := c.save(); err != nil {
		return "", fmt.Errorf("persist cache manifest: %w", err)
	}
	c.logger.Debug("cached mono conversion",
		logging.String("source_file", source),
		logging.String("digest", shortDigest(sha)),
		logging.String("cached_path", dest))
	return dest, nil
}

// StoreTranscript copies a transcript JSON into the cache and records it
// under the model/language variant. Returns the cached path.
func (c *Cache) StoreTranscript(source, sha, model, language, jsonPath string) (string, error) {
	if c.dir == "" {
		return jsonPath, nil
	}
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return "", errors.New("source digest cannot be empty")
	}

	key := transcriptKey(model, language)
	dest := filepath.Join(c.entryDir(sha), strings.ReplaceAll(key, "/", "-")+".json")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create cache entry dir: %w", err)
	}
	if err := fileutil.CopyFile(jsonPath, dest); err != nil {
		return "", fmt.Errorf("cache transcript: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.ensureEntry(source, sha)
	if entry.Transcripts == nil {
		entry.Transcripts = make(map[string]string)
	}
	entry.Transcripts[key] = dest
	entry.UpdatedAt = time.Now().UTC()
	c.entries[sha] = entry

	if err := c.save(); err != nil {
		return "", fmt.Errorf("persist cache manifest: %w", err)
	}
	c.logger.Debug("cached transcript",
		logging.String("source_file", source),
		logging.String("digest", shortDigest(sha)),
		logging.String("variant", key),
		logging.String("cached_path", dest))
	return dest, nil
}

// Remove deletes an entry and its artifact directory.
func (c *Cache) Remove(sha string) error {
	sha = strings.TrimSpace(sha)
	if sha == "" {
		return errors.New("source digest cannot be empty")
	}
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[sha]; !exists {
		return fmt.Errorf("digest %q not found in cache", shortDigest(sha))
	}
	delete(c.entries, sha)

	if err := os.RemoveAll(c.entryDir(sha)); err != nil {
		return fmt.Errorf("remove cache entry dir: %w", err)
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache manifest: %w", err)
	}
	return nil
}

// Prune drops references to artifacts that no longer exist on disk and
// removes entries left with nothing. Returns the number of entries changed.
func (c *Cache) Prune() (int, error) {
	if c.dir == "" {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	changed := 0
	for sha, entry := range c.entries {
		dirty := false
		if entry.MonoPath != "" && !fileutil.NonEmptyFile(entry.MonoPath) {
			entry.MonoPath = ""
			dirty = true
		}
		for variant, path := range entry.Transcripts {
			if !fileutil.NonEmptyFile(path) {
				delete(entry.Transcripts, variant)
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		changed++
		if entry.MonoPath == "" && len(entry.Transcripts) == 0 {
			delete(c.entries, sha)
			if err := os.RemoveAll(c.entryDir(sha)); err != nil {
				return changed, fmt.Errorf("remove cache entry dir: %w", err)
			}
			continue
		}
		entry.UpdatedAt = time.Now().UTC()
		c.entries[sha] = entry
	}

	if changed > 0 {
		if err := c.save(); err != nil {
			return changed, fmt.Errorf("persist cache manifest: %w", err)
		}
	}
	return changed, nil
}

// Clear removes all entries and artifacts.
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for sha := range c.entries {
		if err := os.RemoveAll(c.entryDir(sha)); err != nil {
			return fmt.Errorf("remove cache entry dir: %w", err)
		}
	}
	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache manifest: %w", err)
	}
	c.logger.Debug("cleared artifact cache")
	return nil
}

// List returns all entries sorted by UpdatedAt descending (newest first).
func (c *Cache) List() []Entry {
	if c.dir == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries
}

// Count returns the number of entries in the cache.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) ensureEntry(source, sha string) Entry {
	entry, ok := c.entries[sha]
	if !ok {
		entry = Entry{
			Source:    source,
			SHA256:    sha,
			CreatedAt: time.Now().UTC(),
		}
	}
	if source != "" {
		entry.Source = source
	}
	return entry
}

func (c *Cache) entryDir(sha string) string {
	return filepath.Join(c.dir, shortDigest(sha))
}

func shortDigest(sha string) string {
	if len(sha) > 16 {
		return sha[:16]
	}
	return sha
}

func (c *Cache) load() error {
	data, err := os.ReadFile(filepath.Join(c.dir, manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	c.entries = entries
	return nil
}

// save persists the manifest under the cross-process file lock. Callers must
// hold c.mu.
func (c *Cache) save() error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	if c.lock != nil {
		if err := c.lock.Lock(); err != nil {
			return fmt.Errorf("lock manifest: %w", err)
		}
		defer func() { _ = c.lock.Unlock() }()
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(c.dir, manifestName+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(c.dir, manifestName))
}
