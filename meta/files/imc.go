package files

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/metakit/internal/buf"
	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/pkg/types"
)

// ImcFile is a decoded IMC table. Variant 0 is the default variant; the
// header count excludes it.
type ImcFile struct {
	PartMask uint16
	variants [][]entry.Imc
}

// DecodeImc parses an IMC table.
func DecodeImc(data []byte) (*ImcFile, error) {
	if len(data) < format.ImcHeaderSize {
		return nil, types.Errorf(types.ErrKindFormat, "imc: short header", format.ErrTruncated)
	}
	count := int(buf.U16LE(data, 0))
	mask := buf.U16LE(data, 2)
	parts := bits.OnesCount16(mask)
	if parts == 0 {
		return nil, types.Errorf(types.ErrKindFormat, "imc: empty part mask", format.ErrBadHeader)
	}
	if _, err := buf.CheckListBounds(len(data), format.ImcHeaderSize, (count+1)*parts, format.ImcEntrySize); err != nil {
		return nil, types.Errorf(types.ErrKindFormat, fmt.Sprintf("imc: %d variants", count), fmt.Errorf("%w: %v", format.ErrTruncated, err))
	}
	f := &ImcFile{PartMask: mask, variants: make([][]entry.Imc, count+1)}
	off := format.ImcHeaderSize
	for v := range f.variants {
		row := make([]entry.Imc, parts)
		for p := range row {
			row[p], _ = entry.DecodeImc(data[off:])
			off += format.ImcEntrySize
		}
		f.variants[v] = row
	}
	return f, nil
}

// Count returns the number of variants excluding the default.
func (f *ImcFile) Count() int { return len(f.variants) - 1 }

// partIndex maps a part bit (0-15) to its position within a variant row.
func (f *ImcFile) partIndex(part int) (int, bool) {
	if part < 0 || part > 15 || f.PartMask&(1<<part) == 0 {
		return 0, false
	}
	return bits.OnesCount16(f.PartMask & (1<<part - 1)), true
}

// Get returns the entry for a variant and part bit. Variants past the end
// read as the default variant, matching what Set fills them with.
func (f *ImcFile) Get(variant, part int) (entry.Imc, error) {
	idx, ok := f.partIndex(part)
	if !ok {
		return entry.Imc{}, types.Errorf(types.ErrKindNotFound, fmt.Sprintf("imc: part %d not in mask 0x%x", part, f.PartMask), types.ErrNotFound)
	}
	if variant < 0 || variant > 0xFFFF {
		return entry.Imc{}, types.Errorf(types.ErrKindRange, fmt.Sprintf("imc: variant %d", variant), types.ErrOutOfRange)
	}
	if variant >= len(f.variants) {
		variant = 0
	}
	return f.variants[variant][idx], nil
}

// Set replaces one entry. Variants past the end are created as copies of
// the default variant.
func (f *ImcFile) Set(variant, part int, e entry.Imc) error {
	idx, ok := f.partIndex(part)
	if !ok {
		return types.Errorf(types.ErrKindNotFound, fmt.Sprintf("imc: part %d not in mask 0x%x", part, f.PartMask), types.ErrNotFound)
	}
	if variant < 0 || variant > 0xFFFF {
		return types.Errorf(types.ErrKindRange, fmt.Sprintf("imc: variant %d", variant), types.ErrOutOfRange)
	}
	for len(f.variants) <= variant {
		f.variants = append(f.variants, append([]entry.Imc(nil), f.variants[0]...))
	}
	f.variants[variant][idx] = e
	return nil
}

// Encode writes the table.
func (f *ImcFile) Encode() []byte {
	parts := bits.OnesCount16(f.PartMask)
	out := make([]byte, format.ImcHeaderSize+len(f.variants)*parts*format.ImcEntrySize)
	buf.PutU16LE(out, 0, uint16(f.Count()))
	buf.PutU16LE(out, 2, f.PartMask)
	off := format.ImcHeaderSize
	for _, row := range f.variants {
		for _, e := range row {
			raw := e.Encode()
			copy(out[off:], raw[:])
			off += format.ImcEntrySize
		}
	}
	return out
}
