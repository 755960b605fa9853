// Package resource loads resolved records: asset bytes after redirection,
// with a collection's manipulations applied to meta tables.
package resource

import (
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/metakit/internal/format"
)

// Key addresses one resolvable resource.
type Key struct {
	Category format.Category
	Type     format.ResourceType
	Path     string
}

// KeyFor derives category and type from path.
func KeyFor(path string) Key {
	return Key{Category: format.CategoryOf(path), Type: format.TypeOf(path), Path: path}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Category, k.Path)
}

// Handle is a reference-counted resolved record. A new handle holds one
// reference; the data is dropped when the last one is released.
type Handle struct {
	key  Key
	data atomic.Pointer[[]byte]
	refs atomic.Int32
}

// NewHandle wraps data with a single reference.
func NewHandle(key Key, data []byte) *Handle {
	h := &Handle{key: key}
	h.data.Store(&data)
	h.refs.Store(1)
	return h
}

// Acquire adds a reference and returns h. It returns nil when h has
// already been released.
func (h *Handle) Acquire() *Handle {
	if h == nil {
		return nil
	}
	for {
		n := h.refs.Load()
		if n <= 0 {
			return nil
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return h
		}
	}
}

// Release drops a reference. Extra releases are ignored.
func (h *Handle) Release() {
	if h == nil {
		return
	}
	for {
		n := h.refs.Load()
		if n <= 0 {
			return
		}
		if h.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				h.data.Store(nil)
			}
			return
		}
	}
}

// IsInvalid reports whether h is nil, fully released or empty.
func (h *Handle) IsInvalid() bool {
	return h == nil || h.refs.Load() <= 0 || len(h.Data()) == 0
}

// Data returns the record bytes, or nil once released. Callers must not
// modify them.
func (h *Handle) Data() []byte {
	if h == nil {
		return nil
	}
	p := h.data.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (h *Handle) Key() Key { return h.key }

// Refs returns the current reference count.
func (h *Handle) Refs() int32 {
	if h == nil {
		return 0
	}
	return h.refs.Load()
}
