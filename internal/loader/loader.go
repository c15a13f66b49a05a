// Package loader reads declarative YAML sources into ordered trees.
//
// Absence is not an error: a missing or unreadable source yields an empty
// tree so optional sources degrade silently. A source that exists but does
// not parse is a fatal parse error — the loader never swallows syntax
// errors, only absence.
package loader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/conneroisu/slate/internal/errors"
	"github.com/conneroisu/slate/internal/logging"
	"github.com/conneroisu/slate/internal/tree"
)

// Loader reads named declarative sources from a base directory.
type Loader struct {
	dir    string
	logger logging.Logger
}

// New creates a Loader rooted at dir.
func New(dir string, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Loader{dir: dir, logger: logger.WithComponent("loader")}
}

// Dir returns the base directory sources are read from.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the file path a named source would be read from.
func (l *Loader) Path(name string) string {
	return filepath.Join(l.dir, name+".yml")
}

// Load reads the named source ("config", "taxonomy", "contenttypes", ...)
// into a tree. Missing or unreadable sources return an empty tree.
func (l *Loader) Load(ctx context.Context, name string) (*tree.Tree, error) {
	return l.LoadFile(ctx, l.Path(name))
}

// LoadFile reads an arbitrary YAML file into a tree. Missing or unreadable
// files return an empty tree; malformed documents return a parse error.
func (l *Loader) LoadFile(ctx context.Context, path string) (*tree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Debug(ctx, "Source absent, substituting empty tree", "path", path)
		return tree.New(), nil
	}

	t, err := tree.DecodeYAML(data)
	if err != nil {
		return nil, errors.NewParseError(path, err)
	}
	if t == nil {
		t = tree.New()
	}
	l.logger.Debug(ctx, "Source loaded", "path", path, "keys", t.Len())
	return t, nil
}
