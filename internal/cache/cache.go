package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache provides local file-based caching for registry responses
type Cache struct {
	Dir string
	TTL time.Duration
}

// DefaultTTL is the default cache time-to-live
const DefaultTTL = 24 * time.Hour

// New creates a cache under the user's cache directory for appName
func New(appName string, ttl time.Duration) (*Cache, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(base, appName), ttl)
}

// Open creates a cache rooted at dir, or under the user's cache directory
// for appName when dir is empty
func Open(dir, appName string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return New(appName, ttl)
	}
	return NewAt(dir, ttl)
}

// NewAt creates a cache rooted at dir
func NewAt(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		Dir: dir,
		TTL: ttl,
	}, nil
}

// keyToFilename converts a URL or key to a safe filename
func (c *Cache) keyToFilename(key string) string {
	return fmt.Sprintf("%016x.json", xxhash.Sum64String(key))
}

// Path returns the full path to the cache file for a key
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, c.keyToFilename(key))
}

// Get retrieves data from cache if it exists and is not expired
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Set stores data in the cache.
// The file is written to a temporary name first so readers never see a
// partial entry.
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.Dir, "tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.Path(key))
}

// Clear removes all cached files
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if err := os.Remove(filepath.Join(c.Dir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
