// Package config implements the configuration-resolution engine: it loads
// the layered declarative sources, merges them with the defaults table,
// normalizes content-type, field, and taxonomy declarations, validates
// cross-references, and caches the resolved tree keyed on source freshness
// and schema version.
//
// Resolution is a straight-line read-merge-validate-persist pipeline,
// single-threaded by design. Sources load and merge in a fixed order —
// general settings first, because field defaulting depends on the resolved
// accepted file types.
package config

import (
	"context"
	"path/filepath"

	"github.com/conneroisu/slate/internal/cache"
	"github.com/conneroisu/slate/internal/loader"
	"github.com/conneroisu/slate/internal/logging"
	"github.com/conneroisu/slate/internal/tree"
	"github.com/conneroisu/slate/internal/validation"
)

// SchemaVersion tags the cache blob; a cached tree written by a different
// schema version is treated as Cold.
const SchemaVersion = "1.2.0"

// coreSources are the declarative sources, in their fixed load order. The
// local override layer (config_local) and the theme override are handled
// separately because their freshness rules differ.
var coreSources = []string{"config", "taxonomy", "contenttypes", "menu", "routing", "permissions"}

// Options configures a Config.
type Options struct {
	// RootDir is the project root; declarative sources default to
	// RootDir/app/config and themes to RootDir/theme.
	RootDir string
	// ConfigDir overrides the declarative source directory.
	ConfigDir string
	// CachePath overrides the cache file location.
	CachePath string
	// Logger receives pipeline logging; defaults to a no-op logger.
	Logger logging.Logger
}

// Config is the resolved configuration aggregate. It is constructed fresh
// on every cache miss and replaced wholesale on the next resolution cycle;
// collaborators receive it explicitly rather than through ambient state.
type Config struct {
	rootDir string
	logger  logging.Logger
	loader  *loader.Loader
	cache   *cache.Cache

	root        *tree.Tree
	diagnostics []validation.Diagnostic
	warm        bool
}

// New creates an unresolved Config. Call ResolveAll before reading it.
func New(opts Options) *Config {
	if opts.RootDir == "" {
		opts.RootDir = "."
	}
	if opts.ConfigDir == "" {
		opts.ConfigDir = filepath.Join(opts.RootDir, "app", "config")
	}
	if opts.CachePath == "" {
		opts.CachePath = filepath.Join(opts.ConfigDir, "cache", "config-cache.json")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Config{
		rootDir: opts.RootDir,
		logger:  logger.WithComponent("config"),
		loader:  loader.New(opts.ConfigDir, logger),
		cache:   cache.New(opts.CachePath, SchemaVersion, logger),
		root:    tree.New(),
	}
}

// SourcePaths returns the file paths of the core declarative sources plus
// the local override, in load order. Used by the cache freshness check and
// the watch command.
func (c *Config) SourcePaths() []string {
	paths := make([]string, 0, len(coreSources)+1)
	for _, name := range coreSources {
		paths = append(paths, c.loader.Path(name))
	}
	paths = append(paths, c.loader.Path("config_local"))
	return paths
}

// ResolveAll runs the full pipeline and returns the validator diagnostics.
// A nil error with diagnostics means resolution succeeded but the
// declarations need operator attention; a non-nil error means no usable
// configuration exists.
func (c *Config) ResolveAll(ctx context.Context) ([]validation.Diagnostic, error) {
	corePaths := make([]string, len(coreSources))
	for i, name := range coreSources {
		corePaths[i] = c.loader.Path(name)
	}
	localPath := c.loader.Path("config_local")

	if cached, ok := c.cache.Load(ctx, corePaths, localPath); ok {
		c.root = cached
		c.warm = true
		// The theme override location is data-dependent: it is only
		// discoverable from the general settings that were just loaded.
		// A newer override invalidates the cache for the next cycle while
		// this cycle keeps serving the warm data.
		c.cache.InvalidateIfNewer(ctx, c.themeOverridePath(cached.GetString("general/theme", "")))
		c.diagnostics = validation.Run(c.root.Subtree("contenttypes"), c.root.Subtree("taxonomy"))
		c.logger.Info(ctx, "Configuration served from cache", "diagnostics", len(c.diagnostics))
		return c.diagnostics, nil
	}
	c.warm = false

	root, diags, err := c.resolveCold(ctx)
	if err != nil {
		return nil, err
	}
	c.root = root
	c.diagnostics = diags

	if c.CachingEnabled() {
		if err := c.cache.Store(ctx, c.root); err != nil {
			c.logger.Warn(ctx, err, "Persisting resolved configuration failed")
		}
	} else {
		// A stale file would otherwise produce a false-Warm read later.
		c.cache.Delete(ctx)
	}

	c.logger.Info(ctx, "Configuration resolved",
		"contenttypes", c.root.Subtree("contenttypes").Len(),
		"taxonomies", c.root.Subtree("taxonomy").Len(),
		"diagnostics", len(diags),
	)
	return diags, nil
}

// resolveCold performs a full resolution from the declarative sources.
func (c *Config) resolveCold(ctx context.Context) (*tree.Tree, []validation.Diagnostic, error) {
	general, err := c.resolveGeneral(ctx)
	if err != nil {
		return nil, nil, err
	}

	rawTaxonomy, err := c.loader.Load(ctx, "taxonomy")
	if err != nil {
		return nil, nil, err
	}
	taxonomies := resolveTaxonomies(rawTaxonomy)

	rawContentTypes, err := c.loader.Load(ctx, "contenttypes")
	if err != nil {
		return nil, nil, err
	}
	contentTypes, err := resolveContentTypes(rawContentTypes, general)
	if err != nil {
		return nil, nil, err
	}

	root := tree.New()
	root.SetKey("general", general)
	root.SetKey("taxonomy", taxonomies)
	root.SetKey("contenttypes", contentTypes)

	// Menu, routing, and permissions pass through largely unprocessed,
	// defaulted to empty mappings.
	for _, name := range []string{"menu", "routing", "permissions"} {
		t, err := c.loader.Load(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		root.SetKey(name, t)
	}

	theme, err := c.loader.LoadFile(ctx, c.themeOverridePath(general.GetString("theme", "")))
	if err != nil {
		return nil, nil, err
	}
	root.SetKey("theme", theme)

	// Extension registry placeholder; populated by collaborators.
	root.SetKey("extensions", tree.New())
	root.SetKey("version", SchemaVersion)

	diags := validation.Run(contentTypes, taxonomies)
	return root, diags, nil
}

// resolveGeneral merges defaults ← config ← config_local, then normalizes
// the merged settings.
func (c *Config) resolveGeneral(ctx context.Context) (*tree.Tree, error) {
	declared, err := c.loader.Load(ctx, "config")
	if err != nil {
		return nil, err
	}
	general := tree.MergeDistinct(Defaults(), declared)

	local, err := c.loader.Load(ctx, "config_local")
	if err != nil {
		return nil, err
	}
	general = tree.MergeDistinct(general, local)

	normalizeAcceptFileTypes(general)
	return general, nil
}

// themeOverridePath is where the active theme's override source lives.
// Empty when no theme is set.
func (c *Config) themeOverridePath(theme string) string {
	if theme == "" {
		return ""
	}
	return filepath.Join(c.rootDir, "theme", theme, "theme.yml")
}

// Get looks up a '/'-delimited path in the resolved tree, returning def
// when any segment is absent.
func (c *Config) Get(path string, def any) any {
	return c.root.Get(path, def)
}

// Set writes a value into the resolved tree, auto-creating intermediate
// mappings. Fails (returns false, logs) only when the path is empty.
func (c *Config) Set(path string, v any) bool {
	if !c.root.Set(path, v) {
		c.logger.Warn(context.Background(), nil, "Set with empty path rejected")
		return false
	}
	return true
}

// Root exposes the resolved tree for serialization.
func (c *Config) Root() *tree.Tree {
	return c.root
}

// Diagnostics returns the validator findings from the last resolution.
func (c *Config) Diagnostics() []validation.Diagnostic {
	return c.diagnostics
}

// Warm reports whether the last resolution was served from cache.
func (c *Config) Warm() bool {
	return c.warm
}

// CachePath returns the cache file location.
func (c *Config) CachePath() string {
	return c.cache.Path()
}
