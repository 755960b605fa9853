// Package assets provides read access to the external asset store that holds
// the authoritative metadata tables.
package assets

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/pkg/types"
)

// Store serves the raw bytes of a table by logical path. Implementations
// must return an error satisfying errors.Is(err, types.ErrNotFound) when the
// table does not exist. Returned slices are owned by the caller.
type Store interface {
	ReadTable(ctx context.Context, category format.Category, logicalPath string) ([]byte, error)
}

// Driver names a Store backend.
type Driver string

const (
	DriverDir    Driver = "dir"
	DriverMemory Driver = "memory"
	DriverS3     Driver = "s3"
)

// notFound builds the error every backend returns for a missing table.
func notFound(logicalPath string, cause error) error {
	return types.Errorf(types.ErrKindNotFound, fmt.Sprintf("assets: %s not found", logicalPath), cause)
}

// Clean normalizes a logical path to forward slashes without a leading
// slash. It rejects paths that escape the store root.
func Clean(logicalPath string) (string, error) {
	p := strings.ReplaceAll(logicalPath, "\\", "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", types.Errorf(types.ErrKindInvalid, "assets: empty path", types.ErrInvalidKey)
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", types.Errorf(types.ErrKindInvalid, fmt.Sprintf("assets: path %q escapes root", logicalPath), types.ErrInvalidKey)
	}
	return cleaned, nil
}
