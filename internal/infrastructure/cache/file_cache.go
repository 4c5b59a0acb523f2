package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/filesystem"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// ErrUnavailable is returned when a fetch fails and no previous artifact exists.
var ErrUnavailable = errors.New("resource unavailable")

const fileExt = ".json"

// FileCache stores payloads as one file per key; freshness is the file's mtime.
type FileCache struct {
	dir    string
	logger ports.Logger
	now    func() time.Time
}

// NewFileCache returns a cache rooted at dir.
func NewFileCache(dir string, log ports.Logger) *FileCache {
	if log == nil {
		log = logger.Nop()
	}
	return &FileCache{dir: dir, logger: log, now: time.Now}
}

// GetOrFetch returns the stored payload for key when younger than ttl.
// Otherwise it calls fetch, persists and returns the result. When fetch fails
// the previous artifact is returned if one exists, else ErrUnavailable.
func (c *FileCache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch ports.FetchFunc) ([]byte, error) {
	path, err := c.Path(key)
	if err != nil {
		return nil, err
	}

	previous, age, readErr := c.read(path)
	if readErr == nil && age < ttl {
		c.logger.Debug("cache hit", map[string]interface{}{"key": key, "age": age.Round(time.Millisecond)})
		return previous, nil
	}
	if readErr != nil && !errors.Is(readErr, fs.ErrNotExist) {
		c.logger.Debug("cache unreadable, treating as miss", map[string]interface{}{"key": key, "error": readErr.Error()})
	}

	fresh, fetchErr := fetch(ctx)
	if fetchErr == nil {
		if err := filesystem.WriteFileAtomic(path, fresh, domain.CacheFilePermissions); err != nil {
			c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return fresh, nil
	}

	if readErr == nil {
		c.logger.Warn("fetch failed, serving stale copy", map[string]interface{}{
			"key":   key,
			"age":   age.Round(time.Second),
			"error": fetchErr.Error(),
		})
		return previous, nil
	}
	c.logger.Error("fetch failed", fetchErr, map[string]interface{}{"key": key})
	return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, key, fetchErr)
}

// lookup reads key without fetching. fresh reports age < ttl.
func (c *FileCache) lookup(key string, ttl time.Duration) (data []byte, fresh bool, err error) {
	path, err := c.Path(key)
	if err != nil {
		return nil, false, err
	}
	data, age, err := c.read(path)
	if err != nil {
		return nil, false, err
	}
	return data, age < ttl, nil
}

// store writes payload for key atomically.
func (c *FileCache) store(key string, payload []byte) error {
	path, err := c.Path(key)
	if err != nil {
		return err
	}
	return filesystem.WriteFileAtomic(path, payload, domain.CacheFilePermissions)
}

func (c *FileCache) read(path string) ([]byte, time.Duration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, c.now().Sub(info.ModTime()), nil
}

// Path maps key to its file. Keys are "/"-separated segments; a segment that
// needs sanitizing gets a hash of the whole raw key appended after "~", a
// character clean segments never contain, so distinct keys never share a file.
func (c *FileCache) Path(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("cache key is empty")
	}
	segments := strings.Split(key, "/")
	changed := false
	last := len(segments) - 1
	for i, seg := range segments {
		clean := sanitizeSegment(seg)
		// A directory named like an entry file would shadow that entry.
		if i < last && strings.HasSuffix(clean, fileExt) {
			clean = strings.TrimSuffix(clean, fileExt) + "_" + strings.TrimPrefix(fileExt, ".")
		}
		if clean != seg {
			changed = true
		}
		segments[i] = clean
	}
	if changed {
		sum := sha256.Sum256([]byte(key))
		segments[last] = segments[last] + "~" + hex.EncodeToString(sum[:6])
	}
	segments[last] += fileExt
	return filepath.Join(append([]string{c.dir}, segments...)...), nil
}

func sanitizeSegment(seg string) string {
	if seg == "" || seg == "." || seg == ".." {
		return "_"
	}
	var b strings.Builder
	for _, r := range seg {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Dir exposes the cache directory path.
func (c *FileCache) Dir() string {
	return c.dir
}

// Clear removes all cached entries.
func (c *FileCache) Clear() error {
	return os.RemoveAll(c.dir)
}

// Entries lists cache entries (best-effort), oldest first.
func (c *FileCache) Entries() ([]domain.CacheEntry, error) {
	var entries []domain.CacheEntry
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != fileExt {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(c.dir, path)
		if err != nil {
			return nil
		}
		entries = append(entries, domain.CacheEntry{
			Key:     strings.TrimSuffix(filepath.ToSlash(rel), fileExt),
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ModTime.Before(entries[j].ModTime) })
	return entries, nil
}

// Prune deletes entries and stray temp files older than maxAge.
func (c *FileCache) Prune(maxAge time.Duration) (int, error) {
	removed := 0
	cutoff := c.now().Add(-maxAge)
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != fileExt && !filesystem.IsTempFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

var _ ports.ResourceCache = (*FileCache)(nil)
var _ ports.CacheRepository = (*FileCache)(nil)
