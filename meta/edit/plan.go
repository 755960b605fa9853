package edit

import (
	"context"
	"fmt"

	"github.com/joshuapare/metakit/meta/manip"
)

// Applied counts what a plan changed in the working set.
type Applied struct {
	Added   int
	Changed int
	Deleted int
}

// OpType is the kind of a plan operation.
type OpType uint8

const (
	// OpAdd stages a new key; it fails when CheckAdd does.
	OpAdd OpType = iota
	// OpChange replaces a staged key's value.
	OpChange
	// OpDelete removes a key (idempotent if missing).
	OpDelete
	// OpUpsert changes a staged key or adds a new one.
	OpUpsert
)

func (t OpType) String() string {
	switch t {
	case OpAdd:
		return "Add"
	case OpChange:
		return "Change"
	case OpDelete:
		return "Delete"
	case OpUpsert:
		return "Upsert"
	default:
		return "Unknown"
	}
}

// Op is a single plan operation.
type Op struct {
	Type         OpType
	Manipulation manip.Manipulation
}

// Plan is an ordered batch of editor operations.
type Plan struct {
	Ops []Op
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{Ops: make([]Op, 0)}
}

func (p *Plan) AddAdd(m manip.Manipulation)    { p.Ops = append(p.Ops, Op{Type: OpAdd, Manipulation: m}) }
func (p *Plan) AddChange(m manip.Manipulation) { p.Ops = append(p.Ops, Op{Type: OpChange, Manipulation: m}) }
func (p *Plan) AddDelete(m manip.Manipulation) { p.Ops = append(p.Ops, Op{Type: OpDelete, Manipulation: m}) }
func (p *Plan) AddUpsert(m manip.Manipulation) { p.Ops = append(p.Ops, Op{Type: OpUpsert, Manipulation: m}) }

// Size returns the number of operations in the plan.
func (p *Plan) Size() int {
	return len(p.Ops)
}

// PlanFromSet upserts every manipulation of s.
func PlanFromSet(s manip.Set) *Plan {
	p := NewPlan()
	for _, m := range s.All() {
		p.AddUpsert(m)
	}
	return p
}

// PlanReplace turns current into target: keys missing from target are
// deleted and differing or new ones are upserted.
func PlanReplace(current, target manip.Set) *Plan {
	p := NewPlan()
	for _, m := range current.All() {
		if !target.Has(m.Identifier()) {
			p.AddDelete(m)
		}
	}
	for _, m := range target.All() {
		if cur, ok := current.Get(m.Identifier()); ok && cur.Equal(m) {
			continue
		}
		p.AddUpsert(m)
	}
	return p
}

// ApplyPlan runs p against the working set in order. It stops at the first
// failing operation; operations before it stay staged and can be discarded
// with RevertManipulations.
func (e *Editor) ApplyPlan(ctx context.Context, p *Plan) (Applied, error) {
	var stats Applied
	if p == nil {
		return stats, nil
	}
	for i, op := range p.Ops {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := e.applyOp(ctx, op, &stats); err != nil {
			return stats, fmt.Errorf("edit: op %d (%s %v): %w", i, op.Type, op.Manipulation, err)
		}
	}
	return stats, nil
}

func (e *Editor) applyOp(ctx context.Context, op Op, stats *Applied) error {
	switch op.Type {
	case OpAdd:
		return e.planAdd(ctx, op.Manipulation, stats)
	case OpChange:
		return e.planChange(op.Manipulation, stats)
	case OpDelete:
		if e.Delete(op.Manipulation) {
			stats.Deleted++
		}
	case OpUpsert:
		if op.Manipulation != nil {
			if _, ok := e.Get(op.Manipulation.Identifier()); ok {
				return e.planChange(op.Manipulation, stats)
			}
		}
		return e.planAdd(ctx, op.Manipulation, stats)
	default:
		return fmt.Errorf("edit: unknown op type %d", op.Type)
	}
	return nil
}

// planChange counts only changes that altered the stored value.
func (e *Editor) planChange(m manip.Manipulation, stats *Applied) error {
	changed, err := e.Change(m)
	if err != nil {
		return err
	}
	if changed {
		stats.Changed++
	}
	return nil
}

func (e *Editor) planAdd(ctx context.Context, m manip.Manipulation, stats *Applied) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkAdd(ctx, m); err != nil {
		return err
	}
	e.insert(m)
	stats.Added++
	return nil
}
