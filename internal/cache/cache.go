package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Entry records the digest of a page as prismfold last left it.
type Entry struct {
	Key       string    `json:"key"`
	Path      string    `json:"path"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"createdAt"`
}

// Cache remembers, per page and configuration, the digest of the content
// prismfold last wrote or found already formatted. A later run seeing the
// same digest can skip parsing the page.
type Cache struct {
	dir        string
	ttlSeconds int
	enabled    bool
}

// New creates a new Cache. If dir is empty, uses the default cache directory.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
	}, nil
}

// Lookup returns the stored digest for path under the given configuration
// fingerprint.
func (c *Cache) Lookup(fingerprint, path string) (string, bool) {
	if !c.enabled {
		return "", false
	}
	entryPath := c.entryPath(BuildKey(fingerprint, path))
	data, err := os.ReadFile(entryPath)
	if err != nil {
		return "", false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false
	}
	if c.expired(entry) {
		os.Remove(entryPath)
		return "", false
	}
	return entry.Digest, true
}

// Remember stores digest for path under the given configuration fingerprint.
func (c *Cache) Remember(fingerprint, path, digest string) error {
	if !c.enabled {
		return nil
	}
	key := BuildKey(fingerprint, path)
	data, err := json.Marshal(Entry{
		Key:       key,
		Path:      path,
		Digest:    digest,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.entryPath(key), data, 0o644)
}

// Scope binds a Cache to one configuration fingerprint.
type Scope struct {
	cache       *Cache
	fingerprint string
}

// For returns a view of c keyed by fingerprint.
func (c *Cache) For(fingerprint string) *Scope {
	return &Scope{cache: c, fingerprint: fingerprint}
}

// Lookup returns the stored digest for path.
func (s *Scope) Lookup(path string) (string, bool) {
	return s.cache.Lookup(s.fingerprint, path)
}

// Remember stores digest for path.
func (s *Scope) Remember(path, digest string) error {
	return s.cache.Remember(s.fingerprint, path, digest)
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled || c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache entry: %w", err)
		}
	}
	return nil
}

// Stats returns cache statistics.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled || c.dir == "" {
		return stats, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()

		data, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) expired(e Entry) bool {
	return c.ttlSeconds > 0 && time.Since(e.CreatedAt) > time.Duration(c.ttlSeconds)*time.Second
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// BuildKey derives the entry key for one page under one configuration.
func BuildKey(fingerprint, path string) string {
	return HashKey(fingerprint + "\x00" + path)
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

// DefaultDir returns the platform-appropriate cache directory for prismfold.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "prismfold"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "prismfold"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "prismfold", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "prismfold", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "prismfold"), nil
	}
}
