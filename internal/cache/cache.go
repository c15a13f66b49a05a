// Package cache persists the resolved configuration tree between
// resolution cycles, invalidated by source-file timestamps and a schema
// version tag.
//
// The cache is a single JSON blob holding the entire resolved tree with an
// embedded "version" key. It has two states: Cold (no usable cache, full
// resolution required) and Warm (cache loaded and validated). Concurrent
// writers are not coordinated; the sanity checks on load mitigate torn
// writes but do not eliminate them.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/conneroisu/slate/internal/errors"
	"github.com/conneroisu/slate/internal/logging"
	"github.com/conneroisu/slate/internal/tree"
)

// minSections is the minimum number of top-level sections a plausible
// cached tree carries. Fewer than this means a torn or foreign file.
const minSections = 4

// farFuture is the timestamp assigned to a missing core source. A cache
// can never be fresher than it, so resolution stays Cold until the source
// exists.
var farFuture = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)

// Cache is a freshness-aware store for the resolved configuration tree.
type Cache struct {
	path    string
	version string
	logger  logging.Logger
	modTime time.Time // mtime of the cache file at the last warm load
}

// New creates a Cache at path, gated on the given schema version.
func New(path, version string, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cache{path: path, version: version, logger: logger.WithComponent("cache")}
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Load attempts the Cold→Warm transition. sourcePaths are the core
// declarative sources; a missing one gets a far-future timestamp so its
// absence keeps the cache Cold. localOverridePath is the optional local
// override layer; its absence counts as timestamp zero and never
// invalidates, but its presence with a newer timestamp always does.
//
// Returns the cached tree and true only when the cache is newer than every
// source and passes the sanity checks (section count, non-empty general
// settings, matching version tag).
func (c *Cache) Load(ctx context.Context, sourcePaths []string, localOverridePath string) (*tree.Tree, bool) {
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, false
	}
	cacheTime := info.ModTime()

	newest := time.Time{}
	for _, p := range sourcePaths {
		ts := farFuture
		if st, err := os.Stat(p); err == nil {
			ts = st.ModTime()
		}
		if ts.After(newest) {
			newest = ts
		}
	}
	if localOverridePath != "" {
		if st, err := os.Stat(localOverridePath); err == nil {
			if st.ModTime().After(newest) {
				newest = st.ModTime()
			}
		}
	}

	if !cacheTime.After(newest) {
		c.logger.Debug(ctx, "Cache stale", "cache", cacheTime, "sources", newest)
		return nil, false
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		c.logger.Warn(ctx, err, "Cache unreadable, falling back to cold resolution")
		return nil, false
	}
	t := tree.New()
	if err := json.Unmarshal(data, t); err != nil {
		c.logger.Warn(ctx, errors.NewCacheError("cache corrupt", err), "Falling back to cold resolution")
		return nil, false
	}

	if t.Len() < minSections {
		c.logger.Warn(ctx, nil, "Cache has too few sections, falling back", "sections", t.Len())
		return nil, false
	}
	if general := t.Subtree("general"); general.IsEmpty() {
		c.logger.Warn(ctx, nil, "Cache has empty general settings, falling back")
		return nil, false
	}
	if v := t.GetString("version", ""); v != c.version {
		c.logger.Info(ctx, "Cache version mismatch, falling back",
			"cached", v, "running", c.version)
		return nil, false
	}

	c.modTime = cacheTime
	c.logger.Debug(ctx, "Cache warm", "path", c.path)
	return t, true
}

// InvalidateIfNewer deletes the cache file when path is newer than the
// cache that was just loaded, forcing the next resolution cycle Cold. The
// current cycle keeps serving the already-loaded data; invalidation is for
// next time, not self-correcting mid-cycle. Used for the theme override
// source, whose location is only known after the cached general settings
// are read.
func (c *Cache) InvalidateIfNewer(ctx context.Context, path string) {
	if path == "" || c.modTime.IsZero() {
		return
	}
	st, err := os.Stat(path)
	if err != nil {
		return
	}
	if st.ModTime().After(c.modTime) {
		c.logger.Info(ctx, "Theme override newer than cache, invalidating for next cycle",
			"override", path)
		c.Delete(ctx)
	}
}

// Store serializes the resolved tree to the cache location. The tree is
// expected to already carry its version tag.
func (c *Cache) Store(ctx context.Context, t *tree.Tree) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.NewInternalError("serializing resolved configuration", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.NewIOError(errors.ErrCodeCacheWrite, "creating cache directory", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return errors.NewIOError(errors.ErrCodeCacheWrite, "writing cache file", err)
	}
	c.logger.Debug(ctx, "Cache stored", "path", c.path, "bytes", len(data))
	return nil
}

// Delete removes the cache file, preventing future false-Warm reads.
// Missing files are fine.
func (c *Cache) Delete(ctx context.Context) {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		c.logger.Warn(ctx, err, "Removing cache file failed", "path", c.path)
	}
}
