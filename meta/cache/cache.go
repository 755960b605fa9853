// Package cache memoizes resolved records for one active collection.
//
// Entries live in a snapshot: the collection's resolution plus an LRU of
// handles computed from it. Invalidate builds a new snapshot and swaps it
// in atomically, so a reader sees records from exactly one generation.
// The cache owns one reference per cached handle and releases it on
// eviction; every handle returned by Get carries a reference owned by the
// caller.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/internal/metrics"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/meta/resource"
)

// DefaultCapacity is used when Options.Capacity is not positive.
const DefaultCapacity = 256

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("cache: closed")

// Loader computes a resolved record. *resource.Loader implements it.
type Loader interface {
	LoadResolved(ctx context.Context, key resource.Key, res resource.Resolution) (*resource.Handle, error)
}

// Options configures a Cache.
type Options struct {
	Capacity int
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

type snapshot struct {
	res     resource.Resolution
	entries *lru.Cache[resource.Key, *resource.Handle]
	retired atomic.Bool
}

// Cache is safe for concurrent use.
type Cache struct {
	loader   Loader
	capacity int
	metrics  *metrics.Metrics
	logger   *slog.Logger
	snap     atomic.Pointer[snapshot]
	closed   atomic.Bool

	// swapMu serializes snapshot replacement.
	swapMu sync.Mutex
}

// New creates a cache serving res.
func New(loader Loader, res resource.Resolution, opts Options) (*Cache, error) {
	c := &Cache{
		loader:   loader,
		capacity: opts.Capacity,
		metrics:  opts.Metrics,
		logger:   logging.Component(opts.Logger, "cache").With(logging.FieldCollection, res.Collection),
	}
	if c.capacity <= 0 {
		c.capacity = DefaultCapacity
	}
	s, err := c.newSnapshot(res)
	if err != nil {
		return nil, err
	}
	c.snap.Store(s)
	return c, nil
}

func (c *Cache) newSnapshot(res resource.Resolution) (*snapshot, error) {
	s := &snapshot{res: res}
	entries, err := lru.NewWithEvict(c.capacity, func(_ resource.Key, h *resource.Handle) {
		h.Release()
		if !s.retired.Load() {
			c.metrics.CacheEvicted(res.Collection)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	s.entries = entries
	return s, nil
}

// Get returns the resolved record for key, computing it on a miss.
func (c *Cache) Get(ctx context.Context, key resource.Key) (*resource.Handle, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	s := c.snap.Load()
	name := s.res.Collection
	if h, ok := s.entries.Get(key); ok {
		if out := h.Acquire(); out != nil {
			c.metrics.CacheHit(name)
			return out, nil
		}
	}
	c.metrics.CacheMiss(name)

	h, err := c.loader.LoadResolved(ctx, key, s.res)
	if err != nil {
		return nil, err
	}
	out := h.Acquire()
	if found, _ := s.entries.ContainsOrAdd(key, h); found {
		// Another caller cached the key first; ours is not retained.
		h.Release()
		return out, nil
	}
	if c.snap.Load() != s || c.closed.Load() {
		s.entries.Remove(key)
	}
	return out, nil
}

// Invalidate replaces the cached records with ones computed from set at
// generation. Handles already handed out stay valid until released.
func (c *Cache) Invalidate(set manip.Set, generation uint64) error {
	c.swapMu.Lock()
	defer c.swapMu.Unlock()
	res := c.snap.Load().res
	res.Set = set
	res.Generation = generation
	return c.reset(res)
}

// Reset swaps in an empty snapshot for res.
func (c *Cache) Reset(res resource.Resolution) error {
	c.swapMu.Lock()
	defer c.swapMu.Unlock()
	return c.reset(res)
}

func (c *Cache) reset(res resource.Resolution) error {
	next, err := c.newSnapshot(res)
	if err != nil {
		return err
	}
	old := c.snap.Swap(next)
	old.retired.Store(true)
	old.entries.Purge()
	c.metrics.CacheInvalidated(res.Collection)
	c.logger.Debug("invalidated", "generation", res.Generation, "manipulations", res.Set.Len())
	return nil
}

// Resolution returns the resolution the current snapshot serves.
func (c *Cache) Resolution() resource.Resolution {
	return c.snap.Load().res
}

// Generation returns the generation the current snapshot serves.
func (c *Cache) Generation() uint64 {
	return c.snap.Load().res.Generation
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.snap.Load().entries.Len()
}

// Close releases every cached record. Get fails afterwards.
func (c *Cache) Close() {
	if c.closed.Swap(true) {
		return
	}
	s := c.snap.Load()
	s.retired.Store(true)
	s.entries.Purge()
}
