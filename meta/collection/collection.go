// Package collection manages named edit sets and their activation.
//
// A Collection publishes its committed set through an atomically swapped
// State; it is the tx.Sink its editor commits into. Active collections
// also own a resolution cache, which every publish invalidates.
package collection

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/cache"
	"github.com/joshuapare/metakit/meta/editstore"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/meta/resource"
	"github.com/joshuapare/metakit/meta/tx"
)

var _ tx.Sink = (*Collection)(nil)

// State is an immutable committed edit set.
type State struct {
	Set        manip.Set
	Generation uint64
}

// Collection is a named edit set.
type Collection struct {
	id     uuid.UUID
	name   string
	store  editstore.Store
	logger *slog.Logger

	state atomic.Pointer[State]

	// pubMu serializes publication, redirection and activation so the
	// cache always ends on the latest state and redirect table.
	pubMu sync.Mutex

	mu        sync.Mutex
	redirects map[string]string
	cache     *cache.Cache
}

func newCollection(id uuid.UUID, name string, st State, store editstore.Store, logger *slog.Logger) *Collection {
	c := &Collection{
		id:        id,
		name:      name,
		store:     store,
		redirects: make(map[string]string),
		logger:    logging.Component(logger, "collection").With(logging.FieldCollection, name),
	}
	c.state.Store(&st)
	return c
}

func (c *Collection) ID() uuid.UUID { return c.id }
func (c *Collection) Name() string  { return c.name }

// State returns the published state.
func (c *Collection) State() State { return *c.state.Load() }

// Set returns the published edit set.
func (c *Collection) Set() manip.Set { return c.state.Load().Set }

// Generation returns the published generation.
func (c *Collection) Generation() uint64 { return c.state.Load().Generation }

// Resolution describes the collection to the resource loader.
func (c *Collection) Resolution() resource.Resolution {
	st := c.state.Load()
	c.mu.Lock()
	defer c.mu.Unlock()
	return resource.Resolution{
		Collection: c.name,
		Generation: st.Generation,
		Set:        st.Set,
		Redirects:  maps.Clone(c.redirects),
	}
}

// Cache returns the resolution cache, or nil when the collection is not
// active.
func (c *Collection) Cache() *cache.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache
}

// Active reports whether the collection has a cache.
func (c *Collection) Active() bool { return c.Cache() != nil }

// Redirect serves the asset at to whenever path is resolved. An empty to
// removes the redirection.
func (c *Collection) Redirect(path, to string) error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.mu.Lock()
	if to == "" {
		delete(c.redirects, path)
	} else {
		c.redirects[path] = to
	}
	cc := c.cache
	c.mu.Unlock()
	if cc == nil {
		return nil
	}
	return cc.Reset(c.Resolution())
}

// Persist saves set to the edit-set store under generation.
func (c *Collection) Persist(ctx context.Context, set manip.Set, generation uint64) error {
	return c.store.SaveEditSet(ctx, editstore.Record{
		ID:         c.id,
		Name:       c.name,
		Generation: generation,
		Set:        set,
	})
}

// Publish swaps in the new state and rebuilds the cache from it.
func (c *Collection) Publish(set manip.Set, generation uint64) {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	c.state.Store(&State{Set: set, Generation: generation})
	if cc := c.Cache(); cc != nil {
		if err := cc.Reset(c.Resolution()); err != nil {
			c.logger.Error("cache invalidation failed", "generation", generation, "error", err)
		}
	}
	c.logger.Info("published", "generation", generation, "manipulations", set.Len())
}

func (c *Collection) activate(newCache func(resource.Resolution) (*cache.Cache, error)) error {
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if c.Active() {
		return nil
	}
	cc, err := newCache(c.Resolution())
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cache = cc
	c.mu.Unlock()
	return nil
}

func (c *Collection) deactivate() {
	c.mu.Lock()
	cc := c.cache
	c.cache = nil
	c.mu.Unlock()
	if cc != nil {
		cc.Close()
	}
}
