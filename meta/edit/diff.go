package edit

import (
	"context"
	"errors"

	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

// Direction classifies an edited value against its default.
type Direction uint8

const (
	Unchanged Direction = iota
	Increased
	Decreased
	// Changed is used for values without an ordering, such as bit masks.
	Changed
)

func (d Direction) String() string {
	switch d {
	case Unchanged:
		return "unchanged"
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Diff pairs a manipulation with the table default for its key. Default is
// nil when the table does not exist.
type Diff struct {
	Manipulation manip.Manipulation
	Default      manip.Manipulation
	Direction    Direction
}

// Diff compares m with the default for its key.
func (e *Editor) Diff(ctx context.Context, m manip.Manipulation) (Diff, error) {
	d := Diff{Manipulation: m}
	def, err := e.defaults.For(ctx, m)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			d.Direction = Changed
			return d, nil
		}
		return d, err
	}
	d.Default = def
	d.Direction = direction(def, m)
	return d, nil
}

// Diffs compares every staged manipulation with its default, in set order.
func (e *Editor) Diffs(ctx context.Context) ([]Diff, error) {
	all := e.All().All()
	out := make([]Diff, 0, len(all))
	for _, m := range all {
		d, err := e.Diff(ctx, m)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

func direction(def, m manip.Manipulation) Direction {
	if def.Equal(m) {
		return Unchanged
	}
	a, ok1 := ordered(def)
	b, ok2 := ordered(m)
	if !ok1 || !ok2 {
		return Changed
	}
	switch {
	case b > a:
		return Increased
	case b < a:
		return Decreased
	default:
		return Changed
	}
}

func ordered(m manip.Manipulation) (float64, bool) {
	switch v := m.(type) {
	case manip.Est:
		return float64(v.Entry), true
	case manip.Rsp:
		return float64(v.Entry), true
	default:
		return 0, false
	}
}
