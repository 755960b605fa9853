package assets

import (
	"context"
	"sync"

	"github.com/joshuapare/metakit/internal/format"
)

// Memory is an in-memory Store, used by tests and for staging synthesized
// tables.
type Memory struct {
	mu     sync.RWMutex
	tables map[string][]byte
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][]byte)}
}

// Put stores a copy of data under logicalPath.
func (m *Memory) Put(logicalPath string, data []byte) error {
	p, err := Clean(logicalPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.tables[p] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

// Delete removes logicalPath and reports whether it existed.
func (m *Memory) Delete(logicalPath string) bool {
	p, err := Clean(logicalPath)
	if err != nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tables[p]
	delete(m.tables, p)
	return ok
}

func (m *Memory) ReadTable(ctx context.Context, _ format.Category, logicalPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := Clean(logicalPath)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	data, ok := m.tables[p]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(p, nil)
	}
	return append([]byte(nil), data...), nil
}
