package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/files"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

// Resolution is what a collection contributes to a load.
type Resolution struct {
	Collection string
	Generation uint64
	Set        manip.Set
	// Redirects maps logical paths to replacement asset paths.
	Redirects map[string]string
}

// Source returns the asset path to read for path.
func (r Resolution) Source(path string) string {
	if to, ok := r.Redirects[path]; ok && to != "" {
		return to
	}
	return path
}

// Loader computes resolved records directly, without caching.
type Loader struct {
	store  assets.Store
	logger *slog.Logger
}

// NewLoader reads from store.
func NewLoader(store assets.Store, logger *slog.Logger) *Loader {
	return &Loader{store: store, logger: logging.Component(logger, "loader")}
}

// LoadResolved reads key's (possibly redirected) bytes and applies res's
// manipulations when key names a meta table. The returned handle holds one
// reference owned by the caller.
func (l *Loader) LoadResolved(ctx context.Context, key Key, res Resolution) (*Handle, error) {
	src := res.Source(key.Path)
	data, err := l.store.ReadTable(ctx, key.Category, src)
	missing := errors.Is(err, types.ErrNotFound)
	if err != nil && !(missing && key.Type.IsMetaTable()) {
		return nil, err
	}

	if key.Type.IsMetaTable() {
		ms := res.Set.ForTable(key.Path)
		if len(ms) > 0 || missing {
			data, err = files.Apply(key.Path, data, ms)
			if err != nil {
				return nil, fmt.Errorf("resource: resolve %s: %w", key.Path, err)
			}
			l.logger.Debug("applied manipulations",
				logging.FieldPath, key.Path,
				logging.FieldCollection, res.Collection,
				"count", len(ms))
		}
	}
	return NewHandle(key, data), nil
}
