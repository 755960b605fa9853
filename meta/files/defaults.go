// Package files decodes and re-encodes the six metadata table layouts and
// answers default-value lookups against the asset store.
package files

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

// Defaults reports the unmodified value of any table entry. It only reads
// from the store.
type Defaults struct {
	store  assets.Store
	logger *slog.Logger
}

// NewDefaults wraps store. A nil logger discards output.
func NewDefaults(store assets.Store, logger *slog.Logger) *Defaults {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Defaults{store: store, logger: logging.Component(logger, "defaults")}
}

// Store returns the underlying asset store.
func (d *Defaults) Store() assets.Store { return d.store }

// read returns nil, nil for a missing table.
func (d *Defaults) read(ctx context.Context, logicalPath string) ([]byte, error) {
	data, err := d.store.ReadTable(ctx, format.CategoryOf(logicalPath), logicalPath)
	if err != nil {
		if types.IsKind(err, types.ErrKindNotFound) {
			d.logger.Debug("table missing", "path", logicalPath)
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Eqp returns the full EQP entry of setID.
func (d *Defaults) Eqp(ctx context.Context, setID uint16) (entry.Eqp, error) {
	v, err := d.block(ctx, format.EqpPath, uint64(entry.DefaultEqp), setID)
	return entry.Eqp(v), err
}

// Gmp returns the gimmick parameter of setID.
func (d *Defaults) Gmp(ctx context.Context, setID uint16) (entry.Gmp, error) {
	v, err := d.block(ctx, format.GmpPath, 0, setID)
	return entry.GmpFromValue(v), err
}

func (d *Defaults) block(ctx context.Context, logicalPath string, def uint64, setID uint16) (uint64, error) {
	data, err := d.read(ctx, logicalPath)
	if err != nil || data == nil {
		return def, err
	}
	t, err := DecodeBlockTable(data, def)
	if err != nil {
		return def, fmt.Errorf("files: %s: %w", logicalPath, err)
	}
	return t.Get(setID), nil
}

// Eqdp returns the full EQDP entry of setID in the table for code. Codes
// without EQDP tables fail with types.ErrInvalidKey before the store is
// consulted.
func (d *Defaults) Eqdp(ctx context.Context, code enums.GenderRace, accessory bool, setID uint16) (entry.Eqdp, error) {
	if !enums.IsValidEqdp(code) {
		return 0, types.Errorf(types.ErrKindInvalid, fmt.Sprintf("files: no eqdp table for race code %s", code), types.ErrInvalidKey)
	}
	p := format.EqdpPath(uint16(code), accessory)
	data, err := d.read(ctx, p)
	if err != nil || data == nil {
		return 0, err
	}
	f, err := DecodeEqdp(data)
	if err != nil {
		return 0, fmt.Errorf("files: %s: %w", p, err)
	}
	return entry.Eqdp(f.Get(setID)), nil
}

// Imc returns the entry addressed by m's key. A missing table or part
// yields an error satisfying errors.Is(err, types.ErrNotFound); that is
// distinct from an entry whose fields are all zero. Variants past the end
// of an existing table read as its default variant.
func (d *Defaults) Imc(ctx context.Context, m manip.Imc) (entry.Imc, error) {
	if !m.ObjectType.IsValidImc() {
		return entry.Imc{}, types.Errorf(types.ErrKindInvalid, fmt.Sprintf("files: imc for %s", m.ObjectType), types.ErrInvalidKey)
	}
	p := m.TablePath()
	data, err := d.read(ctx, p)
	if err != nil {
		return entry.Imc{}, err
	}
	if data == nil {
		return entry.Imc{}, types.Errorf(types.ErrKindNotFound, fmt.Sprintf("files: %s does not exist", p), types.ErrNotFound)
	}
	f, err := DecodeImc(data)
	if err != nil {
		return entry.Imc{}, fmt.Errorf("files: %s: %w", p, err)
	}
	return f.Get(int(m.Variant), imcPart(m))
}

// Est returns the skeleton index for setID in table t. Unknown race
// pairings fail with types.ErrInvalidKey.
func (d *Defaults) Est(ctx context.Context, t enums.EstType, code enums.GenderRace, setID uint16) (entry.Est, error) {
	if !code.Valid() {
		return 0, types.Errorf(types.ErrKindInvalid, fmt.Sprintf("files: est race code %s", code), types.ErrInvalidKey)
	}
	p := manip.EstPath(t)
	if p == "" {
		return 0, types.Errorf(types.ErrKindInvalid, fmt.Sprintf("files: est type %s", t), types.ErrInvalidKey)
	}
	data, err := d.read(ctx, p)
	if err != nil || data == nil {
		return 0, err
	}
	f, err := DecodeEst(data)
	if err != nil {
		return 0, fmt.Errorf("files: %s: %w", p, err)
	}
	return entry.Est(f.Get(EstKey{SetID: setID, GenderRace: uint16(code)})), nil
}

// Rsp returns one racial scaling attribute.
func (d *Defaults) Rsp(ctx context.Context, sub enums.SubRace, attr enums.RspAttribute) (entry.Rsp, error) {
	if _, err := cmpOffset(sub, attr); err != nil {
		return 0, err
	}
	data, err := d.read(ctx, format.CmpPath)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, types.Errorf(types.ErrKindNotFound, "files: human.cmp does not exist", types.ErrNotFound)
	}
	f, err := DecodeCmp(data)
	if err != nil {
		return 0, err
	}
	v, err := f.Get(sub, attr)
	return entry.Rsp(v), err
}

// For returns a copy of m whose value is the table default for m's key.
// EQP and EQDP values are masked to m's slot.
func (d *Defaults) For(ctx context.Context, m manip.Manipulation) (manip.Manipulation, error) {
	switch v := m.(type) {
	case manip.Eqp:
		e, err := d.Eqp(ctx, v.SetID)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	case manip.Eqdp:
		e, err := d.Eqdp(ctx, v.GenderRace(), v.Slot.IsAccessory(), v.SetID)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	case manip.Imc:
		e, err := d.Imc(ctx, v)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	case manip.Est:
		e, err := d.Est(ctx, v.Slot, v.GenderRace(), v.SetID)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	case manip.Gmp:
		e, err := d.Gmp(ctx, v.SetID)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	case manip.Rsp:
		e, err := d.Rsp(ctx, v.SubRace, v.Attribute)
		if err != nil {
			return nil, err
		}
		return v.WithEntry(e), nil
	default:
		return nil, fmt.Errorf("files: %w: %T", manip.ErrUnknownKind, m)
	}
}
