// Package edit implements the staging editor: one working set of
// manipulations per collection, checked against table defaults and
// committed or reverted as a whole.
//
// The editor is Clean while its working set equals the committed set and
// Dirty otherwise. Add, Change and Delete move it to Dirty when they alter
// the set; ApplyManipulations and RevertManipulations move it back to Clean.
package edit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/dirty"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/meta/tx"
	"github.com/joshuapare/metakit/pkg/types"
)

// DefaultSource returns a copy of a manipulation carrying the table default
// for its key. files.Defaults implements it.
type DefaultSource interface {
	For(ctx context.Context, m manip.Manipulation) (manip.Manipulation, error)
}

// State is the editor's pending-changes state.
type State uint8

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Dirty {
		return "dirty"
	}
	return "clean"
}

// Options configures an Editor.
type Options struct {
	// Generation of the committed set; commits continue from it.
	Generation uint64
	Logger     *slog.Logger
	// OnCommit, when set, observes every commit attempt.
	OnCommit func(err error)
}

// Editor stages manipulations for one collection. All methods are safe for
// concurrent use; they are serialized so a single writer is in effect.
type Editor struct {
	mu        sync.Mutex
	defaults  DefaultSource
	committed manip.Set
	working   map[manip.Identifier]manip.Manipulation
	dirty     *dirty.Tracker
	tx        *tx.Manager
	onCommit  func(error)
	logger    *slog.Logger
}

// New creates an editor whose working set starts as committed. Commits go
// to sink.
func New(committed manip.Set, defaults DefaultSource, sink tx.Sink, opts Options) *Editor {
	logger := logging.Component(opts.Logger, "editor")
	return &Editor{
		defaults:  defaults,
		committed: committed,
		working:   committed.Map(),
		dirty:     dirty.NewTracker(),
		tx:        tx.NewManager(sink, opts.Generation, logger),
		onCommit:  opts.OnCommit,
		logger:    logger,
	}
}

// CheckAdd explains why candidate cannot be added, or returns nil. Reasons
// are reported in this order: an unusable key combination, a missing target
// table, an existing manipulation with the same key, an out-of-range value.
func (e *Editor) CheckAdd(ctx context.Context, candidate manip.Manipulation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.checkAdd(ctx, candidate)
}

func (e *Editor) checkAdd(ctx context.Context, m manip.Manipulation) error {
	if m == nil {
		return fmt.Errorf("%w: nil manipulation", ErrInvalidCombination)
	}
	verr := m.Validate()
	if types.IsKind(verr, types.ErrKindInvalid) {
		return fmt.Errorf("%w: %w", ErrInvalidCombination, verr)
	}
	if m.Kind() == manip.KindImc {
		if _, err := e.defaults.For(ctx, m); err != nil {
			if types.IsKind(err, types.ErrKindNotFound) {
				return fmt.Errorf("%w: %s", ErrTableMissing, m.TablePath())
			}
			return err
		}
	}
	if _, ok := e.working[m.Identifier()]; ok {
		return ErrAlreadyEdited
	}
	if verr != nil {
		return fmt.Errorf("%w: %w", ErrOutOfRange, verr)
	}
	return nil
}

// CanAdd reports whether Add would insert candidate.
func (e *Editor) CanAdd(ctx context.Context, candidate manip.Manipulation) bool {
	return e.CheckAdd(ctx, candidate) == nil
}

// Add inserts m and reports whether it did. It is a no-op when CanAdd
// would be false.
func (e *Editor) Add(ctx context.Context, m manip.Manipulation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAdd(ctx, m); err != nil {
		e.logger.Debug("add rejected", logging.FieldKind, kindOf(m), "error", err)
		return false
	}
	e.insert(m)
	return true
}

func (e *Editor) insert(m manip.Manipulation) {
	id := m.Identifier()
	e.working[id] = m
	e.dirty.Add(id)
}

// Change replaces the value stored under m's key and reports whether the
// stored value differed. The key must already be staged and the value must
// be in range; nothing is stored otherwise.
func (e *Editor) Change(m manip.Manipulation) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m == nil {
		return false, ErrManipulationNotFound
	}
	id := m.Identifier()
	cur, ok := e.working[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrManipulationNotFound, m)
	}
	if err := m.Validate(); err != nil {
		if types.IsKind(err, types.ErrKindRange) {
			return false, fmt.Errorf("%w: %w", ErrOutOfRange, err)
		}
		return false, fmt.Errorf("%w: %w", ErrInvalidCombination, err)
	}
	if cur.Equal(m) {
		return false, nil
	}
	e.working[id] = m
	e.dirty.Add(id)
	return true, nil
}

// Delete removes the manipulation with m's key and reports whether one was
// present. Deleting an absent key is a no-op.
func (e *Editor) Delete(m manip.Manipulation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m == nil {
		return false
	}
	id := m.Identifier()
	if _, ok := e.working[id]; !ok {
		return false
	}
	delete(e.working, id)
	e.dirty.Add(id)
	return true
}

// Changes reports whether the working set differs from the committed set.
func (e *Editor) Changes() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changes()
}

func (e *Editor) changes() bool {
	for _, id := range e.dirty.Touched() {
		w, inWorking := e.working[id]
		c, inCommitted := e.committed.Get(id)
		if inWorking != inCommitted {
			return true
		}
		if inWorking && !w.Equal(c) {
			return true
		}
	}
	return false
}

// State returns Dirty when Changes would report true.
func (e *Editor) State() State {
	if e.Changes() {
		return Dirty
	}
	return Clean
}

// ApplyManipulations commits the working set. The new set is persisted,
// then published in one step; on failure the committed set is unchanged
// and the working set keeps its edits. Applying a clean editor does nothing.
func (e *Editor) ApplyManipulations(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.changes() {
		e.dirty.Reset()
		return nil
	}
	err := e.commit(ctx)
	if e.onCommit != nil {
		e.onCommit(err)
	}
	return err
}

func (e *Editor) commit(ctx context.Context) error {
	if err := e.tx.Begin(ctx); err != nil {
		return err
	}
	set := manip.FromMap(e.working)
	if err := e.tx.Commit(ctx, set); err != nil {
		e.tx.Rollback()
		e.logger.Warn("apply failed", "error", err)
		return err
	}
	e.committed = set
	e.working = set.Map()
	e.dirty.Reset()
	e.logger.Info("applied manipulations", "count", set.Len(), "generation", e.tx.Generation())
	return nil
}

// RevertManipulations discards the working set's edits.
func (e *Editor) RevertManipulations() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.working = e.committed.Map()
	e.dirty.Reset()
}

// Generation returns the generation of the committed set.
func (e *Editor) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tx.Generation()
}

// Committed returns the last committed set.
func (e *Editor) Committed() manip.Set {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// All returns a snapshot of the working set.
func (e *Editor) All() manip.Set {
	e.mu.Lock()
	defer e.mu.Unlock()
	return manip.FromMap(e.working)
}

// Get returns the staged manipulation with id.
func (e *Editor) Get(id manip.Identifier) (manip.Manipulation, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.working[id]
	return m, ok
}

// Len returns the size of the working set.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.working)
}

func (e *Editor) Eqp() []manip.Eqp   { return manip.Of[manip.Eqp](e.All()) }
func (e *Editor) Eqdp() []manip.Eqdp { return manip.Of[manip.Eqdp](e.All()) }
func (e *Editor) Imc() []manip.Imc   { return manip.Of[manip.Imc](e.All()) }
func (e *Editor) Est() []manip.Est   { return manip.Of[manip.Est](e.All()) }
func (e *Editor) Gmp() []manip.Gmp   { return manip.Of[manip.Gmp](e.All()) }
func (e *Editor) Rsp() []manip.Rsp   { return manip.Of[manip.Rsp](e.All()) }

func kindOf(m manip.Manipulation) string {
	if m == nil {
		return "nil"
	}
	return m.Kind().String()
}
