package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/slate/internal/errors"
)

func TestLoadMissingSourceYieldsEmptyTree(t *testing.T) {
	l := New(t.TempDir(), nil)

	tr, err := l.Load(context.Background(), "config")
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.True(t, tr.IsEmpty())
}

func TestLoadParsesOrderedTree(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "config.yml", `
sitename: My Site
theme: base-2021
database:
  driver: mysql
`)
	l := New(dir, nil)

	tr, err := l.Load(context.Background(), "config")
	require.NoError(t, err)
	assert.Equal(t, []string{"sitename", "theme", "database"}, tr.Keys())
	assert.Equal(t, "mysql", tr.GetString("database/driver", ""))
}

func TestLoadMalformedSourceIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "config.yml", "sitename: [unclosed")
	l := New(dir, nil)

	tr, err := l.Load(context.Background(), "config")
	assert.Nil(t, tr)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
	assert.False(t, errors.IsRecoverable(err))
	assert.Contains(t, err.Error(), "config.yml")
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "menu.yml", "")
	l := New(dir, nil)

	tr, err := l.Load(context.Background(), "menu")
	require.NoError(t, err)
	assert.True(t, tr.IsEmpty())
}

func TestPath(t *testing.T) {
	l := New("/srv/site/app/config", nil)
	assert.Equal(t, filepath.Join("/srv/site/app/config", "taxonomy.yml"), l.Path("taxonomy"))
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
