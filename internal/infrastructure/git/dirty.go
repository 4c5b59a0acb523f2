package git

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

type dirtyEntry struct {
	dirty bool
	at    time.Time
}

type dirtyRecord struct {
	Dir   string `json:"dir"`
	Dirty bool   `json:"dirty"`
}

// DirtyChecker caches dirty bits per directory. It lives for one invocation;
// the shared file cache carries results across invocations.
type DirtyChecker struct {
	probe  Probe
	cache  ports.ResourceCache
	ttl    time.Duration
	seen   map[string]dirtyEntry
	logger ports.Logger
	now    func() time.Time
}

// NewDirtyChecker wires a probe to the shared cache. cache may be nil.
func NewDirtyChecker(probe Probe, cache ports.ResourceCache, log ports.Logger) *DirtyChecker {
	if log == nil {
		log = logger.Nop()
	}
	return &DirtyChecker{
		probe:  probe,
		cache:  cache,
		ttl:    domain.GitDirtyCacheTTL,
		seen:   make(map[string]dirtyEntry),
		logger: log,
		now:    time.Now,
	}
}

// IsDirty reports uncommitted changes in dir; failures read as clean.
func (c *DirtyChecker) IsDirty(ctx context.Context, dir string) bool {
	dir = filepath.Clean(dir)
	now := c.now()
	if e, ok := c.seen[dir]; ok && now.Sub(e.at) < c.ttl {
		return e.dirty
	}

	dirty, err := c.lookup(ctx, dir)
	if err != nil {
		c.logger.Debug("git dirty check failed", map[string]interface{}{
			"dir":   dir,
			"probe": c.probe.Name(),
			"error": err.Error(),
		})
		dirty = false
	}
	c.seen[dir] = dirtyEntry{dirty: dirty, at: now}
	return dirty
}

func (c *DirtyChecker) lookup(ctx context.Context, dir string) (bool, error) {
	if c.cache == nil {
		return c.probe.Dirty(ctx, dir)
	}
	payload, err := c.cache.GetOrFetch(ctx, CacheKey(dir), c.ttl, func(ctx context.Context) ([]byte, error) {
		dirty, err := c.probe.Dirty(ctx, dir)
		if err != nil {
			return nil, err
		}
		return json.Marshal(dirtyRecord{Dir: dir, Dirty: dirty})
	})
	if err != nil {
		return false, err
	}
	var rec dirtyRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return false, err
	}
	return rec.Dirty, nil
}

// CacheKey names the shared cache entry for dir.
func CacheKey(dir string) string {
	sum := sha256.Sum256([]byte(dir))
	return "git/dirty-" + hex.EncodeToString(sum[:6])
}

// Inspector reports branch and dirty state for a directory.
type Inspector struct {
	checker *DirtyChecker
}

// NewInspector returns an inspector backed by checker.
func NewInspector(checker *DirtyChecker) *Inspector {
	return &Inspector{checker: checker}
}

// Inspect returns nil outside a repository.
func (i *Inspector) Inspect(ctx context.Context, dir string) *domain.GitStatus {
	gitDir, err := FindGitDir(dir)
	if err != nil {
		return nil
	}
	branch, err := Branch(gitDir)
	if err != nil || branch == "" {
		return nil
	}
	return &domain.GitStatus{
		Branch: branch,
		Dirty:  i.checker.IsDirty(ctx, dir),
	}
}

var _ ports.GitInspector = (*Inspector)(nil)
