package files

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/metakit/internal/buf"
	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/pkg/types"
)

// BlockTable is the expanded form of the EQP and GMP layout. On disk, entry
// 0 is a 64-bit mask of the blocks present and each present block stores
// format.EqpBlockSize consecutive entries; absent blocks read as the table
// default. Expanded, every set id has its own slot.
type BlockTable struct {
	def     uint64
	entries []uint64
}

// DecodeBlockTable expands a compact EQP/GMP table. def is the value of
// entries in absent blocks.
func DecodeBlockTable(data []byte, def uint64) (*BlockTable, error) {
	if len(data) < format.EqpEntrySize {
		return nil, types.Errorf(types.ErrKindFormat, "block table: missing block mask", format.ErrTruncated)
	}
	mask := buf.U64LE(data, 0)
	present := bits.OnesCount64(mask)
	if _, err := buf.CheckListBounds(len(data), 0, present*format.EqpBlockSize, format.EqpEntrySize); err != nil {
		return nil, types.Errorf(types.ErrKindFormat, fmt.Sprintf("block table: %d blocks", present), fmt.Errorf("%w: %v", format.ErrTruncated, err))
	}

	t := &BlockTable{def: def, entries: make([]uint64, format.EqpCount)}
	rank := 0
	for block := 0; block < format.EqpBlockCount; block++ {
		base := block * format.EqpBlockSize
		if mask&(1<<block) == 0 {
			for i := 0; i < format.EqpBlockSize; i++ {
				t.entries[base+i] = def
			}
			continue
		}
		src := rank * format.EqpBlockSize
		for i := 0; i < format.EqpBlockSize; i++ {
			t.entries[base+i] = buf.U64LE(data, (src+i)*format.EqpEntrySize)
		}
		rank++
	}
	t.entries[0] = def
	return t, nil
}

// NewBlockTable returns an expanded table where every entry is def.
func NewBlockTable(def uint64) *BlockTable {
	t := &BlockTable{def: def, entries: make([]uint64, format.EqpCount)}
	for i := range t.entries {
		t.entries[i] = def
	}
	return t
}

// Get returns the entry for setID. Set id 0 aliases the block mask and
// always reads as the default.
func (t *BlockTable) Get(setID uint16) uint64 {
	if setID == 0 || int(setID) >= len(t.entries) {
		return t.def
	}
	return t.entries[setID]
}

// Set replaces the entry for setID. Set id 0 and ids past the table are
// rejected.
func (t *BlockTable) Set(setID uint16, v uint64) error {
	if setID == 0 || int(setID) >= len(t.entries) {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("block table: set id %d", setID), types.ErrInvalidKey)
	}
	t.entries[setID] = v
	return nil
}

// Encode writes the table with every block present.
func (t *BlockTable) Encode() []byte {
	out := make([]byte, format.EqpCount*format.EqpEntrySize)
	for i, v := range t.entries {
		buf.PutU64LE(out, i*format.EqpEntrySize, v)
	}
	buf.PutU64LE(out, 0, ^uint64(0))
	return out
}
