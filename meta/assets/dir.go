package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/mmfile"
)

// Dir serves tables from an extracted asset tree on disk. Logical paths map
// directly onto files below Root.
type Dir struct {
	Root string
}

// NewDir checks that root exists and is a directory.
func NewDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("assets: open dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: %s is not a directory", root)
	}
	return &Dir{Root: root}, nil
}

// ReadTable copies the mapped file out before unmapping it. Decoded tables
// and resolved handles keep the returned slice long after the read, and a
// mapping held that long would see the file change under it.
func (d *Dir) ReadTable(ctx context.Context, _ format.Category, logicalPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := Clean(logicalPath)
	if err != nil {
		return nil, err
	}
	data, err := mmfile.ReadFile(filepath.Join(d.Root, filepath.FromSlash(p)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(p, err)
		}
		return nil, fmt.Errorf("assets: read %s: %w", p, err)
	}
	return data, nil
}
