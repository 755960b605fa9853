// Package dirty records which manipulation keys an editor has touched since
// its last commit or revert.
//
// Only touched keys can differ between the working set and the committed
// set, so the pending-changes check compares those keys and nothing else.
package dirty

import (
	"sort"

	"github.com/joshuapare/metakit/meta/manip"
)

// Marker is the minimal interface for components that only report touched
// keys.
type Marker interface {
	Add(id manip.Identifier)
}

// Tracker accumulates touched identifiers.
//
// NOT thread-safe. The owning editor serializes access.
type Tracker struct {
	touched map[manip.Identifier]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{touched: make(map[manip.Identifier]struct{})}
}

// Add marks id as touched. Repeated adds are free.
func (t *Tracker) Add(id manip.Identifier) {
	t.touched[id] = struct{}{}
}

// Contains reports whether id was touched.
func (t *Tracker) Contains(id manip.Identifier) bool {
	_, ok := t.touched[id]
	return ok
}

// Len returns the number of touched identifiers.
func (t *Tracker) Len() int { return len(t.touched) }

// Touched returns the identifiers in set order.
func (t *Tracker) Touched() []manip.Identifier {
	out := make([]manip.Identifier, 0, len(t.touched))
	for id := range t.touched {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Reset forgets every touched identifier.
func (t *Tracker) Reset() {
	clear(t.touched)
}
