package manip

import "sort"

// Set is an immutable collection of manipulations with unique identifiers,
// ordered by kind and then packed key. The zero value is an empty set.
type Set struct {
	items []Manipulation
	index map[Identifier]int
}

// NewSet builds a set. When identifiers collide the last manipulation wins.
func NewSet(ms ...Manipulation) Set {
	byID := make(map[Identifier]Manipulation, len(ms))
	for _, m := range ms {
		if m == nil {
			continue
		}
		byID[m.Identifier()] = m
	}
	return fromMap(byID)
}

// FromMap builds a set from an identifier-keyed map.
func FromMap(byID map[Identifier]Manipulation) Set {
	return fromMap(byID)
}

func fromMap(byID map[Identifier]Manipulation) Set {
	if len(byID) == 0 {
		return Set{}
	}
	items := make([]Manipulation, 0, len(byID))
	for _, m := range byID {
		items = append(items, m)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Identifier().Less(items[j].Identifier())
	})
	index := make(map[Identifier]int, len(items))
	for i, m := range items {
		index[m.Identifier()] = i
	}
	return Set{items: items, index: index}
}

// Len returns the number of manipulations.
func (s Set) Len() int { return len(s.items) }

// Get returns the manipulation stored under id.
func (s Set) Get(id Identifier) (Manipulation, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// Has reports whether a manipulation with id exists.
func (s Set) Has(id Identifier) bool {
	_, ok := s.index[id]
	return ok
}

// All returns the manipulations in set order. The slice is a copy.
func (s Set) All() []Manipulation {
	return append([]Manipulation(nil), s.items...)
}

// Map returns an identifier-keyed copy of the set.
func (s Set) Map() map[Identifier]Manipulation {
	out := make(map[Identifier]Manipulation, len(s.items))
	for _, m := range s.items {
		out[m.Identifier()] = m
	}
	return out
}

// Equal reports whether both sets hold the same keys with the same values.
func (s Set) Equal(o Set) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i, m := range s.items {
		if !m.Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// ForTable returns the manipulations targeting the table at path.
func (s Set) ForTable(path string) []Manipulation {
	var out []Manipulation
	for _, m := range s.items {
		if m.TablePath() == path {
			out = append(out, m)
		}
	}
	return out
}

// Tables returns the distinct table paths touched by the set, sorted.
func (s Set) Tables() []string {
	seen := make(map[string]struct{})
	for _, m := range s.items {
		seen[m.TablePath()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// With returns a copy holding m, replacing any entry with the same key.
func (s Set) With(m Manipulation) Set {
	byID := s.Map()
	byID[m.Identifier()] = m
	return fromMap(byID)
}

// Without returns a copy lacking id.
func (s Set) Without(id Identifier) Set {
	if !s.Has(id) {
		return s
	}
	byID := s.Map()
	delete(byID, id)
	return fromMap(byID)
}

// Of returns the manipulations of concrete type T in set order.
func Of[T Manipulation](s Set) []T {
	var out []T
	for _, m := range s.items {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
