package editstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	rec     Record
	updated time.Time
}

// Memory keeps edit sets in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[uuid.UUID]memoryEntry), now: time.Now}
}

func (m *Memory) LoadEditSet(ctx context.Context, id uuid.UUID) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return Record{}, ErrCollectionNotFound
	}
	return e.rec, nil
}

func (m *Memory) SaveEditSet(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries[rec.ID]; ok && rec.Generation <= cur.rec.Generation {
		return ErrStaleGeneration
	}
	for id, e := range m.entries {
		if id != rec.ID && e.rec.Name == rec.Name {
			return ErrNameTaken
		}
	}
	m.entries[rec.ID] = memoryEntry{rec: rec, updated: m.now()}
	return nil
}

func (m *Memory) Collections(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.rec.Info(e.updated))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) Close() error { return nil }
