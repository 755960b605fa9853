// Package tx runs the commit protocol that moves an editor's working set
// into its collection.
//
// Transaction Protocol:
//  1. Begin() - increment the primary generation, mark the transaction open
//  2. [stage the new set]
//  3. Commit() - persist the set, publish it to readers, then set the
//     secondary generation equal to the primary
//
// A primary generation ahead of the secondary one means a commit was started
// but never completed. Publication happens only after persistence succeeds,
// so readers never see a set the store does not hold.
package tx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/manip"
)

// ErrNoTransaction is returned by Commit without a preceding Begin.
var ErrNoTransaction = errors.New("tx: no active transaction")

// Sink receives committed sets.
type Sink interface {
	// Persist durably stores set under generation. It runs first; an error
	// aborts the commit before anything is published.
	Persist(ctx context.Context, set manip.Set, generation uint64) error
	// Publish makes set visible to readers. It must be a single atomic step.
	Publish(set manip.Set, generation uint64)
}

// Manager tracks primary and secondary generations.
//
// The manager is NOT thread-safe. Only one goroutine should use it at a time.
type Manager struct {
	sink      Sink
	primary   uint64
	secondary uint64
	inTx      bool
	logger    *slog.Logger
}

// NewManager starts at generation, the generation of the set currently
// published.
func NewManager(sink Sink, generation uint64, logger *slog.Logger) *Manager {
	return &Manager{
		sink:      sink,
		primary:   generation,
		secondary: generation,
		logger:    logging.Component(logger, "tx"),
	}
}

// Begin starts a transaction. Calling Begin inside a transaction is a no-op.
func (m *Manager) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.inTx {
		return nil
	}
	m.primary = m.secondary + 1
	m.inTx = true
	return nil
}

// Commit persists and publishes set under the primary generation. On a
// persist failure the transaction stays open and nothing is published; the
// caller should Rollback.
func (m *Manager) Commit(ctx context.Context, set manip.Set) error {
	if !m.inTx {
		return ErrNoTransaction
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.sink.Persist(ctx, set, m.primary); err != nil {
		return fmt.Errorf("tx: persist generation %d: %w", m.primary, err)
	}
	m.sink.Publish(set, m.primary)
	m.secondary = m.primary
	m.inTx = false
	m.logger.Debug("committed", "generation", m.primary, "manipulations", set.Len())
	return nil
}

// Rollback abandons the open transaction and returns the primary generation
// to the last committed one.
func (m *Manager) Rollback() {
	if !m.inTx {
		return
	}
	m.logger.Debug("rolled back", "generation", m.primary)
	m.primary = m.secondary
	m.inTx = false
}

// InTransaction reports whether a transaction is open.
func (m *Manager) InTransaction() bool { return m.inTx }

// Generation returns the last committed generation.
func (m *Manager) Generation() uint64 { return m.secondary }

// Pending reports whether a started commit has not completed.
func (m *Manager) Pending() bool { return m.primary != m.secondary }
