package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const entryExt = ".json"

// Cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore keeps entries as JSON files in one directory. Safe for
// concurrent use within a process.
type FileStore struct {
	directory  string
	enabled    bool
	ttlSeconds int
	maxEntries int

	mu sync.RWMutex
}

// NewFileStore opens (creating if needed) a store in directory. A disabled
// store is returned as-is and answers every call with ErrCacheDisabled.
// maxEntries <= 0 means unbounded.
func NewFileStore(directory string, enabled bool, ttlSeconds, maxEntries int) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
		maxEntries: maxEntries,
	}, nil
}

// Key hashes parts into a stable, filesystem-safe key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.TrimSpace(p)))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the entry for key. Expired entries are removed and reported as
// ErrCacheExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	entry, err := readEntry(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, err
	}
	if entry.IsExpired() {
		_ = os.Remove(path)
		return nil, ErrCacheExpired
	}
	return entry, nil
}

// Set stores data under key, replacing any previous entry. When the store is
// bounded the oldest entries are evicted to make room.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.MarshalIndent(NewEntry(key, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}

	return s.evictLocked(path)
}

// Delete removes key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry.
func (s *FileStore) Clear() error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("removing %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// CleanupExpired removes expired entries and returns how many it removed.
// Unreadable files are skipped.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f)
		if readErr != nil || !entry.IsExpired() {
			continue
		}
		if os.Remove(f) == nil {
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored entries, expired ones included.
func (s *FileStore) Count() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entryFiles()
	return len(files), err
}

// IsEnabled reports whether the store is active.
func (s *FileStore) IsEnabled() bool { return s.enabled }

// Directory returns the cache directory.
func (s *FileStore) Directory() string { return s.directory }

// TTL returns the entry TTL in seconds.
func (s *FileStore) TTL() int { return s.ttlSeconds }

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safe+entryExt)
}

func (s *FileStore) entryFiles() ([]string, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var files []string
	for _, d := range dirEntries {
		if !d.IsDir() && filepath.Ext(d.Name()) == entryExt {
			files = append(files, filepath.Join(s.directory, d.Name()))
		}
	}
	return files, nil
}

// evictLocked drops the least recently written entries beyond maxEntries,
// never the one at keep.
func (s *FileStore) evictLocked(keep string) error {
	if s.maxEntries <= 0 {
		return nil
	}
	files, err := s.entryFiles()
	if err != nil || len(files) <= s.maxEntries {
		return err
	}

	type aged struct {
		path    string
		modNano int64
	}
	byAge := make([]aged, 0, len(files))
	for _, f := range files {
		if f == keep {
			continue
		}
		info, statErr := os.Stat(f)
		if statErr != nil {
			continue
		}
		byAge = append(byAge, aged{path: f, modNano: info.ModTime().UnixNano()})
	}
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].modNano < byAge[j].modNano })

	for _, a := range byAge[:max(0, len(byAge)-(s.maxEntries-1))] {
		_ = os.Remove(a.path)
	}
	return nil
}

func readEntry(path string) (*Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", filepath.Base(path), err)
	}
	return &e, nil
}
