package files

import (
	"errors"
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

// ErrWrongTable is returned when a manipulation does not target the table
// being rebuilt.
var ErrWrongTable = errors.New("files: manipulation targets a different table")

// Apply decodes the table at logicalPath from base, applies every
// manipulation in ms and returns the re-encoded, expanded table. A nil base
// stands for a table missing from the asset store; EQP, GMP, EQDP and EST
// tables are then synthesized from their defaults, IMC and CMP tables
// cannot be.
func Apply(logicalPath string, base []byte, ms []manip.Manipulation) ([]byte, error) {
	for _, m := range ms {
		if m.TablePath() != logicalPath {
			return nil, fmt.Errorf("%w: %s is for %s, not %s", ErrWrongTable, m, m.TablePath(), logicalPath)
		}
	}
	switch format.TypeOf(logicalPath) {
	case format.ResourceEqp:
		return applyBlock(base, uint64(entry.DefaultEqp), ms)
	case format.ResourceGmp:
		return applyBlock(base, 0, ms)
	case format.ResourceEqdp:
		return applyEqdp(base, ms)
	case format.ResourceImc:
		return applyImc(logicalPath, base, ms)
	case format.ResourceEst:
		return applyEst(base, ms)
	case format.ResourceCmp:
		return applyCmp(logicalPath, base, ms)
	default:
		return nil, types.Errorf(types.ErrKindUnsupported, fmt.Sprintf("files: %s is not a metadata table", logicalPath), types.ErrUnsupported)
	}
}

func applyBlock(base []byte, def uint64, ms []manip.Manipulation) ([]byte, error) {
	t := NewBlockTable(def)
	if base != nil {
		var err error
		if t, err = DecodeBlockTable(base, def); err != nil {
			return nil, err
		}
	}
	for _, m := range ms {
		var err error
		switch v := m.(type) {
		case manip.Eqp:
			err = t.Set(v.SetID, uint64(entry.Eqp(t.Get(v.SetID)).Merge(v.Slot, v.Entry)))
		case manip.Gmp:
			const packedBits = 1<<40 - 1
			err = t.Set(v.SetID, t.Get(v.SetID)&^packedBits|v.Entry.Value())
		}
		if err != nil {
			return nil, err
		}
	}
	return t.Encode(), nil
}

func applyEqdp(base []byte, ms []manip.Manipulation) ([]byte, error) {
	var f *EqdpFile
	if base == nil {
		var code uint16
		if len(ms) > 0 {
			if v, ok := ms[0].(manip.Eqdp); ok {
				code = uint16(v.GenderRace())
			}
		}
		f = NewEqdp(code)
	} else {
		var err error
		if f, err = DecodeEqdp(base); err != nil {
			return nil, err
		}
	}
	for _, m := range ms {
		v, ok := m.(manip.Eqdp)
		if !ok {
			continue
		}
		cur := entry.Eqdp(f.Get(v.SetID))
		if err := f.Set(v.SetID, uint16(cur.Merge(v.Slot, v.Entry))); err != nil {
			return nil, err
		}
	}
	return f.Encode(), nil
}

// imcPart returns the part bit a manipulation addresses.
func imcPart(m manip.Imc) int {
	if m.ObjectType.UsesSlot() {
		return m.EquipSlot.Index()
	}
	return 0
}

func applyImc(logicalPath string, base []byte, ms []manip.Manipulation) ([]byte, error) {
	if base == nil {
		return nil, types.Errorf(types.ErrKindNotFound, fmt.Sprintf("files: %s does not exist", logicalPath), types.ErrNotFound)
	}
	f, err := DecodeImc(base)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		v, ok := m.(manip.Imc)
		if !ok {
			continue
		}
		if err := f.Set(int(v.Variant), imcPart(v), v.Entry); err != nil {
			return nil, err
		}
	}
	return f.Encode(), nil
}

func applyEst(base []byte, ms []manip.Manipulation) ([]byte, error) {
	f := NewEst()
	if base != nil {
		var err error
		if f, err = DecodeEst(base); err != nil {
			return nil, err
		}
	}
	for _, m := range ms {
		if v, ok := m.(manip.Est); ok {
			f.Set(EstKey{SetID: v.SetID, GenderRace: uint16(v.GenderRace())}, uint16(v.Entry))
		}
	}
	return f.Encode(), nil
}

func applyCmp(logicalPath string, base []byte, ms []manip.Manipulation) ([]byte, error) {
	if base == nil {
		return nil, types.Errorf(types.ErrKindNotFound, fmt.Sprintf("files: %s does not exist", logicalPath), types.ErrNotFound)
	}
	f, err := DecodeCmp(base)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		if v, ok := m.(manip.Rsp); ok {
			if err := f.Set(v.SubRace, v.Attribute, float32(v.Entry)); err != nil {
				return nil, err
			}
		}
	}
	return f.Encode(), nil
}
