package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/slate/internal/errors"
	"github.com/conneroisu/slate/internal/tree"
)

func TestResolveAllFromEmptyProject(t *testing.T) {
	engine := New(Options{RootDir: t.TempDir()})

	diags, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.False(t, engine.Warm())

	// Absent sources still yield a fully defaulted general section.
	assert.Equal(t, "A sample site", engine.GeneralString("sitename", ""))
	assert.Equal(t, "default", engine.Theme())
	assert.True(t, engine.CachingEnabled())
}

func TestResolveAllMergesDeclaredOverDefaults(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config": `
sitename: Test Site
accept_file_types: [ PNG, JPG ]
database:
  driver: mysql
`,
	})
	engine := New(Options{RootDir: root})

	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Test Site", engine.GeneralString("sitename", ""))
	// Untouched defaults survive next to overrides.
	assert.Equal(t, "The amazing payoff goes here", engine.GeneralString("payoff", ""))
	assert.Equal(t, "mysql", engine.GeneralString("database/driver", ""))
	assert.Equal(t, "localhost", engine.GeneralString("database/host", ""))
	// A declared sequence replaces the default wholesale, lowercased.
	assert.Equal(t, []string{"png", "jpg"}, engine.AcceptFileTypes())
}

func TestResolveAllLocalOverrideWinsLast(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config":       "sitename: Main\ndebug: false\n",
		"config_local": "debug: true\n",
	})
	engine := New(Options{RootDir: root})

	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Main", engine.GeneralString("sitename", ""))
	assert.True(t, engine.GeneralBool("debug", false))
}

func TestResolveContentTypePipeline(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config": "accept_file_types: [ png, jpg, pdf ]\n",
		"contenttypes": `
pages:
  name: Pages
  singular_name: Page
  fields:
    title:
      type: text
      group: info
    teaser:
      type: textarea
    photo:
      type: image
    Meta Title:
      type: text
      group: meta
    keywords:
      type: text
    color:
      type: select
      values: [ red, green ]
  taxonomy: tags
`,
	})
	engine := New(Options{RootDir: root})

	diags, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, diags)

	ct, ok := engine.ContentType("pages")
	require.True(t, ok)
	assert.Equal(t, "pages", ct.Slug)
	assert.Equal(t, "page", ct.SingularSlug)
	assert.Equal(t, "draft", ct.DefaultStatus)
	assert.True(t, ct.ShowOnDashboard)
	assert.Equal(t, []string{"tags"}, ct.Taxonomy)

	// Field keys are normalized; declaration order is preserved.
	names := make([]string, 0, len(ct.Fields))
	groups := make([]string, 0, len(ct.Fields))
	for _, f := range ct.Fields {
		names = append(names, f.Name)
		groups = append(groups, f.Group)
	}
	assert.Equal(t, []string{"title", "teaser", "photo", "meta_title", "keywords", "color"}, names)
	// A declared group sticks to every following field until the next one.
	assert.Equal(t, []string{"info", "info", "info", "meta", "meta", "meta"}, groups)
	assert.Equal(t, []string{"info", "meta"}, ct.Groups)

	for _, f := range ct.Fields {
		assert.Equal(t, "form-control", f.Class)
		if f.Name == "photo" {
			// Image defaults intersect with the site-wide accepted types,
			// in allow-list order.
			assert.Equal(t, []string{"jpg", "png"}, f.Extensions)
		}
	}

	// Select values declared as a sequence become a value-keyed mapping.
	values := engine.Root().Subtree("contenttypes/pages/fields/color/values")
	require.NotNil(t, values)
	assert.Equal(t, []string{"red", "green"}, values.Keys())
	assert.Equal(t, "red", values.GetString("red", ""))
}

func TestResolveContentTypeNameAndSlugFills(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"contenttypes": `
photo-albums:
  singular_name: Photo Album
`,
	})
	engine := New(Options{RootDir: root})

	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	ct, ok := engine.ContentType("photo-albums")
	require.True(t, ok)
	assert.Equal(t, "photo-albums", ct.Slug)
	assert.Equal(t, "Photo Albums", ct.Name)
	assert.Equal(t, "photo-album", ct.SingularSlug)
}

func TestResolveAllMissingIdentityHalts(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"contenttypes": `
0:
  fields:
    title:
      type: text
badsecond:
  name: Bad Second
`,
	})
	engine := New(Options{RootDir: root})

	diags, err := engine.ResolveAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, diags)
	assert.True(t, errors.IsSchemaError(err))
	// The first offender in declaration order is reported.
	assert.Contains(t, err.Error(), `"0"`)
	assert.Contains(t, err.Error(), "neither name nor slug")
}

func TestResolveAllMissingSingularIdentityHalts(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"contenttypes": "pages:\n  name: Pages\n",
	})
	engine := New(Options{RootDir: root})

	_, err := engine.ResolveAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither singular_name nor singular_slug")
}

func TestResolveAllMalformedSourceHalts(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config": "sitename: [unclosed",
	})
	engine := New(Options{RootDir: root})

	_, err := engine.ResolveAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestResolveTaxonomyDefaults(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"taxonomy": `
categories:
  options: [ Movies, Music ]
tags:
  behaves_like: tags
`,
	})
	engine := New(Options{RootDir: root})

	diags, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, diags)

	taxonomies := engine.Taxonomies()
	require.Len(t, taxonomies, 2)

	categories := taxonomies[0]
	assert.Equal(t, "categories", categories.Slug)
	assert.Equal(t, "Categories", categories.Name)
	assert.Equal(t, "categories", categories.SingularSlug)
	assert.False(t, categories.HasSortOrder)
	assert.False(t, categories.TagCloud)

	// Positional options get slugified keys, values untouched.
	options := engine.Root().Subtree("taxonomy/categories/options")
	require.NotNil(t, options)
	assert.Equal(t, []string{"movies", "music"}, options.Keys())
	assert.Equal(t, "Movies", options.GetString("movies", ""))

	tags := taxonomies[1]
	assert.Equal(t, "tags", tags.BehavesLike)
	assert.True(t, tags.TagCloud)
}

func TestResolveAllThemeOverrideLoaded(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config": "theme: special\n",
	})
	themeDir := filepath.Join(root, "theme", "special")
	require.NoError(t, os.MkdirAll(themeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(themeDir, "theme.yml"), []byte("layout: wide\n"), 0o644))

	engine := New(Options{RootDir: root})
	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "wide", engine.Root().GetString("theme/layout", ""))
}

func TestResolveAllWarmSecondCycle(t *testing.T) {
	root := t.TempDir()
	sources := map[string]string{
		"config":       "sitename: Warm Site\n",
		"taxonomy":     "tags:\n  behaves_like: tags\n",
		"contenttypes": "pages:\n  name: Pages\n  singular_name: Page\n",
		"menu":         "",
		"routing":      "",
		"permissions":  "",
	}
	writeSources(t, root, sources)

	first := New(Options{RootDir: root})
	_, err := first.ResolveAll(context.Background())
	require.NoError(t, err)
	require.False(t, first.Warm())

	// The cache must be strictly newer than every source.
	touch(t, first.CachePath(), time.Now().Add(time.Hour))

	second := New(Options{RootDir: root})
	_, err = second.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Warm())
	assert.True(t, tree.Equal(first.Root(), second.Root()))
	assert.Equal(t, "Warm Site", second.GeneralString("sitename", ""))
}

func TestResolveAllColdWhenSourceTouched(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config":       "sitename: Site\n",
		"taxonomy":     "",
		"contenttypes": "",
		"menu":         "",
		"routing":      "",
		"permissions":  "",
	})

	first := New(Options{RootDir: root})
	_, err := first.ResolveAll(context.Background())
	require.NoError(t, err)
	touch(t, first.CachePath(), time.Now().Add(time.Hour))
	touch(t, filepath.Join(root, "app", "config", "config.yml"), time.Now().Add(2*time.Hour))

	second := New(Options{RootDir: root})
	_, err = second.ResolveAll(context.Background())
	require.NoError(t, err)
	assert.False(t, second.Warm())
}

func TestResolveAllCachingDisabledRemovesCache(t *testing.T) {
	root := t.TempDir()
	writeSources(t, root, map[string]string{
		"config": "caching:\n  config: false\n",
	})
	engine := New(Options{RootDir: root})

	// Plant a stale cache file that would otherwise linger.
	require.NoError(t, os.MkdirAll(filepath.Dir(engine.CachePath()), 0o755))
	require.NoError(t, os.WriteFile(engine.CachePath(), []byte("{}"), 0o644))
	touch(t, engine.CachePath(), time.Now().Add(-time.Hour))

	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	assert.False(t, engine.CachingEnabled())
	_, statErr := os.Stat(engine.CachePath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestGetAndSet(t *testing.T) {
	engine := New(Options{RootDir: t.TempDir()})
	_, err := engine.ResolveAll(context.Background())
	require.NoError(t, err)

	assert.True(t, engine.Set("general/sitename", "Renamed"))
	assert.Equal(t, "Renamed", engine.Get("general/sitename", ""))
	assert.Equal(t, "fallback", engine.Get("general/nope", "fallback"))
	assert.False(t, engine.Set("", "x"))
}

func TestSourcePaths(t *testing.T) {
	root := t.TempDir()
	engine := New(Options{RootDir: root})

	paths := engine.SourcePaths()
	require.Len(t, paths, 7)
	assert.Equal(t, filepath.Join(root, "app", "config", "config.yml"), paths[0])
	assert.Equal(t, filepath.Join(root, "app", "config", "config_local.yml"), paths[6])
}

func writeSources(t *testing.T, root string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, "app", "config")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		path := filepath.Join(dir, name+".yml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		touch(t, path, time.Now().Add(-time.Hour))
	}
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, at, at))
}
