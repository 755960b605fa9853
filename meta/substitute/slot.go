// Package substitute installs resolved records into a shared slot for the
// duration of one foreign call and restores the default afterwards.
//
// The slot mutex is held from install through restore, so concurrent calls
// through the same slot are serialized and never observe each other's
// record. Restore runs on every exit path, panics included.
package substitute

import (
	"sync"
	"sync/atomic"
)

// Slot is a shared value the foreign code reads: normally its default,
// a substitute record while a call is in flight.
type Slot struct {
	mu  sync.Mutex
	def []byte
	cur atomic.Pointer[[]byte]
}

// NewSlot creates a slot holding def.
func NewSlot(def []byte) *Slot {
	s := &Slot{def: def}
	s.cur.Store(&s.def)
	return s
}

// Current returns the value the foreign code should use right now.
func (s *Slot) Current() []byte {
	return *s.cur.Load()
}

// Default returns the built-in value.
func (s *Slot) Default() []byte { return s.def }

// Substituted reports whether a substitute is installed.
func (s *Slot) Substituted() bool {
	return s.cur.Load() != &s.def
}

func (s *Slot) install(data []byte) {
	s.cur.Store(&data)
}

func (s *Slot) restore() {
	s.cur.Store(&s.def)
}
