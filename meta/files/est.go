package files

import (
	"fmt"
	"sort"

	"github.com/joshuapare/metakit/internal/buf"
	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/pkg/types"
)

// EstKey addresses one EST entry.
type EstKey struct {
	SetID      uint16
	GenderRace uint16
}

func (k EstKey) less(o EstKey) bool {
	if k.GenderRace != o.GenderRace {
		return k.GenderRace < o.GenderRace
	}
	return k.SetID < o.SetID
}

// EstFile is a decoded skeleton template table. Missing keys read as 0.
type EstFile struct {
	entries map[EstKey]uint16
}

// DecodeEst parses an EST table.
func DecodeEst(data []byte) (*EstFile, error) {
	if len(data) < format.EstHeaderSize {
		return nil, types.Errorf(types.ErrKindFormat, "est: short header", format.ErrTruncated)
	}
	count := int(buf.U32LE(data, 0))
	keysEnd, err := buf.CheckListBounds(len(data), format.EstHeaderSize, count, format.EstKeySize)
	if err == nil {
		_, err = buf.CheckListBounds(len(data), keysEnd, count, format.EstValueSize)
	}
	if err != nil {
		return nil, types.Errorf(types.ErrKindFormat, fmt.Sprintf("est: %d entries", count), fmt.Errorf("%w: %v", format.ErrTruncated, err))
	}
	f := &EstFile{entries: make(map[EstKey]uint16, count)}
	for i := 0; i < count; i++ {
		k := EstKey{
			SetID:      buf.U16LE(data, format.EstHeaderSize+i*format.EstKeySize),
			GenderRace: buf.U16LE(data, format.EstHeaderSize+i*format.EstKeySize+2),
		}
		f.entries[k] = buf.U16LE(data, keysEnd+i*format.EstValueSize)
	}
	return f, nil
}

// NewEst returns an empty table.
func NewEst() *EstFile { return &EstFile{entries: make(map[EstKey]uint16)} }

// Len returns the number of stored entries.
func (f *EstFile) Len() int { return len(f.entries) }

// Get returns the entry for k, or 0.
func (f *EstFile) Get(k EstKey) uint16 { return f.entries[k] }

// Set stores v under k; a zero value removes the entry.
func (f *EstFile) Set(k EstKey, v uint16) {
	if v == 0 {
		delete(f.entries, k)
		return
	}
	f.entries[k] = v
}

// Encode writes the table with keys sorted by race, then set id.
func (f *EstFile) Encode() []byte {
	keys := make([]EstKey, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	n := len(keys)
	valuesStart := format.EstHeaderSize + n*format.EstKeySize
	out := make([]byte, valuesStart+n*format.EstValueSize)
	buf.PutU32LE(out, 0, uint32(n))
	for i, k := range keys {
		buf.PutU16LE(out, format.EstHeaderSize+i*format.EstKeySize, k.SetID)
		buf.PutU16LE(out, format.EstHeaderSize+i*format.EstKeySize+2, k.GenderRace)
		buf.PutU16LE(out, valuesStart+i*format.EstValueSize, f.entries[k])
	}
	return out
}
