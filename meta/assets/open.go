package assets

import (
	"context"
	"fmt"
)

// Options selects and configures a Store backend.
type Options struct {
	Driver Driver
	Root   string // DriverDir
	S3     S3Config
}

// Open constructs the Store named by opts.Driver. An empty driver selects
// DriverDir.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverDir, "":
		return NewDir(opts.Root)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("assets: unknown driver %q", opts.Driver)
	}
}
