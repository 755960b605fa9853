package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/internal/metrics"
	"github.com/joshuapare/metakit/meta/cache"
	"github.com/joshuapare/metakit/meta/edit"
	"github.com/joshuapare/metakit/meta/editstore"
	"github.com/joshuapare/metakit/meta/resource"
)

var (
	// ErrExists means a collection with the name is already known.
	ErrExists = errors.New("collection: already exists")
	// ErrNotFound means no collection has the name or id.
	ErrNotFound = errors.New("collection: not found")
)

// Options configures a Manager.
type Options struct {
	CacheCapacity int
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Manager creates, loads and activates collections.
type Manager struct {
	store    editstore.Store
	loader   cache.Loader
	defaults edit.DefaultSource
	opts     Options
	logger   *slog.Logger

	mu          sync.RWMutex
	collections map[uuid.UUID]*Collection
	fallback    *Collection
}

// NewManager persists through store, resolves records with loader and
// seeds editor defaults from defaults.
func NewManager(store editstore.Store, loader cache.Loader, defaults edit.DefaultSource, opts Options) *Manager {
	return &Manager{
		store:       store,
		loader:      loader,
		defaults:    defaults,
		opts:        opts,
		logger:      logging.Component(opts.Logger, "collections"),
		collections: make(map[uuid.UUID]*Collection),
	}
}

// Create makes an empty collection called name and stores it.
func (m *Manager) Create(ctx context.Context, name string) (*Collection, error) {
	if name == "" {
		return nil, errors.New("collection: empty name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byNameLocked(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrExists, name)
	}
	if _, err := editstore.FindByName(ctx, m.store, name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrExists, name)
	} else if !errors.Is(err, editstore.ErrCollectionNotFound) {
		return nil, err
	}
	c := newCollection(uuid.New(), name, State{}, m.store, m.opts.Logger)
	if err := c.Persist(ctx, c.Set(), 0); err != nil {
		return nil, err
	}
	m.collections[c.id] = c
	m.logger.Info("created collection", logging.FieldCollection, name, "id", c.id)
	return c, nil
}

// Load returns the collection with id, reading it from the store when it
// is not in memory yet.
func (m *Manager) Load(ctx context.Context, id uuid.UUID) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.collections[id]; ok {
		return c, nil
	}
	rec, err := m.store.LoadEditSet(ctx, id)
	if errors.Is(err, editstore.ErrCollectionNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	c := newCollection(rec.ID, rec.Name, State{Set: rec.Set, Generation: rec.Generation}, m.store, m.opts.Logger)
	m.collections[c.id] = c
	return c, nil
}

// LoadByName is Load for a collection name.
func (m *Manager) LoadByName(ctx context.Context, name string) (*Collection, error) {
	m.mu.RLock()
	c := m.byNameLocked(name)
	m.mu.RUnlock()
	if c != nil {
		return c, nil
	}
	info, err := editstore.FindByName(ctx, m.store, name)
	if errors.Is(err, editstore.ErrCollectionNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return m.Load(ctx, info.ID)
}

// Open loads name, creating it when the store does not have it.
func (m *Manager) Open(ctx context.Context, name string) (*Collection, error) {
	c, err := m.LoadByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return m.Create(ctx, name)
	}
	return c, err
}

func (m *Manager) byNameLocked(name string) *Collection {
	for _, c := range m.collections {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Loaded returns the in-memory collections ordered by name.
func (m *Manager) Loaded() []*Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Collection, 0, len(m.collections))
	for _, c := range m.collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Activate gives c a resolution cache.
func (m *Manager) Activate(c *Collection) error {
	err := c.activate(func(res resource.Resolution) (*cache.Cache, error) {
		return cache.New(m.loader, res, cache.Options{
			Capacity: m.opts.CacheCapacity,
			Metrics:  m.opts.Metrics,
			Logger:   m.opts.Logger,
		})
	})
	if err != nil {
		return fmt.Errorf("collection: activate %q: %w", c.name, err)
	}
	m.logger.Debug("activated", logging.FieldCollection, c.name)
	return nil
}

// Deactivate drops c's cache and releases its records.
func (m *Manager) Deactivate(c *Collection) {
	c.deactivate()
	m.logger.Debug("deactivated", logging.FieldCollection, c.name)
}

// SetDefault makes c the collection used when a context names none. A nil
// c clears it.
func (m *Manager) SetDefault(c *Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = c
}

// Default returns the fallback collection, which may be nil.
func (m *Manager) Default() *Collection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fallback
}

// Editor returns a staging editor committing into c.
func (m *Manager) Editor(c *Collection) *edit.Editor {
	st := c.State()
	return edit.New(st.Set, m.defaults, c, edit.Options{
		Generation: st.Generation,
		Logger:     m.opts.Logger,
		OnCommit:   func(err error) { m.opts.Metrics.Commit(c.name, err) },
	})
}

// Close deactivates every collection.
func (m *Manager) Close() {
	for _, c := range m.Loaded() {
		c.deactivate()
	}
}
