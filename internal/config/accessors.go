package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/slate/internal/schema"
	"github.com/conneroisu/slate/internal/tree"
)

// Typed accessors over the fixed, known settings. The generic Get remains
// the convenience API, but call sites that know the shape in advance use
// these to avoid stringly-typed mistakes.

// GeneralString returns a string from the general settings section.
func (c *Config) GeneralString(path, def string) string {
	return c.root.GetString("general/"+path, def)
}

// GeneralBool returns a bool from the general settings section.
func (c *Config) GeneralBool(path string, def bool) bool {
	return c.root.GetBool("general/"+path, def)
}

// GeneralInt returns an integer from the general settings section.
func (c *Config) GeneralInt(path string, def int64) int64 {
	return c.root.GetInt("general/"+path, def)
}

// Theme returns the active theme name.
func (c *Config) Theme() string {
	return c.GeneralString("theme", "")
}

// AcceptFileTypes returns the site-wide accepted file extensions.
func (c *Config) AcceptFileTypes() []string {
	v := c.root.Get("general/accept_file_types", nil)
	return tree.StringSlice(v)
}

// CachingEnabled reports whether the resolved tree should be persisted.
func (c *Config) CachingEnabled() bool {
	return c.GeneralBool("caching/config", true)
}

// ContentTypes returns typed views of every resolved content type, in
// declaration order.
func (c *Config) ContentTypes() []schema.ContentType {
	section := c.root.Subtree("contenttypes")
	if section == nil {
		return nil
	}
	out := make([]schema.ContentType, 0, section.Len())
	for _, key := range section.Keys() {
		if ct := section.Subtree(key); ct != nil {
			out = append(out, schema.ContentTypeFromTree(key, ct))
		}
	}
	return out
}

// ContentType returns the typed view of a content type by declaration key
// or resolved slug.
func (c *Config) ContentType(name string) (schema.ContentType, bool) {
	section := c.root.Subtree("contenttypes")
	if section == nil {
		return schema.ContentType{}, false
	}
	if ct := section.Subtree(name); ct != nil {
		return schema.ContentTypeFromTree(name, ct), true
	}
	for _, key := range section.Keys() {
		ct := section.Subtree(key)
		if ct != nil && ct.GetString("slug", "") == name {
			return schema.ContentTypeFromTree(key, ct), true
		}
	}
	return schema.ContentType{}, false
}

// Taxonomies returns typed views of every resolved taxonomy.
func (c *Config) Taxonomies() []schema.Taxonomy {
	section := c.root.Subtree("taxonomy")
	if section == nil {
		return nil
	}
	out := make([]schema.Taxonomy, 0, section.Len())
	for _, key := range section.Keys() {
		if tax := section.Subtree(key); tax != nil {
			out = append(out, schema.TaxonomyFromTree(key, tax))
		}
	}
	return out
}

// templateMarker is the file whose presence marks a theme directory as
// providing templates of its own.
const templateMarker = "index.twig"

// TemplatePaths returns the effective template search path, ordered: the
// active theme directory when it provides templates, otherwise a built-in
// fallback, always followed by the shared defaults directory.
func (c *Config) TemplatePaths() []string {
	var paths []string

	themeDir := filepath.Join(c.rootDir, "theme", c.Theme())
	if c.Theme() != "" && fileExists(filepath.Join(themeDir, templateMarker)) {
		paths = append(paths, themeDir)
	} else {
		paths = append(paths, filepath.Join(c.rootDir, "app", "theme_defaults"))
	}

	paths = append(paths, filepath.Join(c.rootDir, "app", "view", "twig"))
	return paths
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// DatabaseOptions are the driver-specific connection options derived from
// the general settings.
type DatabaseOptions struct {
	Driver   string
	Path     string // sqlite only
	Host     string
	Port     int64
	Database string
	Username string
	Password string
}

// DatabaseOptions normalizes the declared database settings: driver
// aliases collapse to canonical names, sqlite paths resolve relative to
// the configured root, and missing ports fall back to the driver default.
func (c *Config) DatabaseOptions() DatabaseOptions {
	opts := DatabaseOptions{
		Driver:   strings.ToLower(c.GeneralString("database/driver", "sqlite")),
		Host:     c.GeneralString("database/host", "localhost"),
		Port:     c.GeneralInt("database/port", 0),
		Database: c.GeneralString("database/databasename", "slate"),
		Username: c.GeneralString("database/username", ""),
		Password: c.GeneralString("database/password", ""),
	}

	switch opts.Driver {
	case "sqlite", "sqlite3":
		opts.Driver = "sqlite"
		path := opts.Database
		if !strings.HasSuffix(path, ".db") {
			path += ".db"
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.rootDir, "app", "database", path)
		}
		opts.Path = path
	case "mysql", "mariadb":
		opts.Driver = "mysql"
		if opts.Port == 0 {
			opts.Port = 3306
		}
	case "postgres", "postgresql", "pgsql":
		opts.Driver = "postgres"
		if opts.Port == 0 {
			opts.Port = 5432
		}
	}
	return opts
}

// Operating surfaces an inbound path can be classified as.
const (
	SurfaceBackend  = "backend"
	SurfaceAsync    = "async"
	SurfaceFrontend = "frontend"
	SurfaceCLI      = "cli"
)

// ClassifySurface classifies an inbound request path into one of the
// operating surfaces, using the resolved branding path for the backend
// prefix. requestedWith carries the X-Requested-With header when present.
func (c *Config) ClassifySurface(path, requestedWith string) string {
	if path == "" {
		return SurfaceCLI
	}

	branding := strings.TrimSuffix(c.GeneralString("branding/path", "/admin"), "/")
	if branding != "" && (path == branding || strings.HasPrefix(path, branding+"/")) {
		return SurfaceBackend
	}
	if path == "/async" || strings.HasPrefix(path, "/async/") || requestedWith == "XMLHttpRequest" {
		return SurfaceAsync
	}
	return SurfaceFrontend
}
