package files

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/buf"
	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/pkg/types"
)

// EqdpFile is the expanded form of a race-specific EQDP table.
type EqdpFile struct {
	Identifier uint16
	BlockSize  int
	entries    []uint16
}

// DecodeEqdp expands a compact EQDP table. Entries in absent blocks are 0.
func DecodeEqdp(data []byte) (*EqdpFile, error) {
	if len(data) < format.EqdpHeaderSize {
		return nil, types.Errorf(types.ErrKindFormat, "eqdp: short header", format.ErrTruncated)
	}
	ident := buf.U16LE(data, 0)
	blockSize := int(buf.U16LE(data, 2))
	blockCount := int(buf.U16LE(data, 4))
	if blockSize == 0 {
		return nil, types.Errorf(types.ErrKindFormat, "eqdp: zero block size", format.ErrBadHeader)
	}
	if blockCount*blockSize > 1<<16+blockSize {
		return nil, types.Errorf(types.ErrKindFormat, fmt.Sprintf("eqdp: %d blocks of %d", blockCount, blockSize), format.ErrBadHeader)
	}
	dataStart, err := buf.CheckListBounds(len(data), format.EqdpHeaderSize, blockCount, 2)
	if err != nil {
		return nil, types.Errorf(types.ErrKindFormat, "eqdp: block offsets", fmt.Errorf("%w: %v", format.ErrTruncated, err))
	}
	stored := (len(data) - dataStart) / format.EqdpEntrySize

	f := &EqdpFile{Identifier: ident, BlockSize: blockSize, entries: make([]uint16, blockCount*blockSize)}
	for block := 0; block < blockCount; block++ {
		off := buf.U16LE(data, format.EqdpHeaderSize+block*2)
		if off == format.EqdpAbsentBlock {
			continue
		}
		if int(off)+blockSize > stored {
			return nil, types.Errorf(types.ErrKindCorrupt, fmt.Sprintf("eqdp: block %d offset %d past data", block, off), types.ErrCorrupt)
		}
		for i := 0; i < blockSize; i++ {
			f.entries[block*blockSize+i] = buf.U16LE(data, dataStart+(int(off)+i)*format.EqdpEntrySize)
		}
	}
	return f, nil
}

// NewEqdp returns an empty table.
func NewEqdp(identifier uint16) *EqdpFile {
	return &EqdpFile{Identifier: identifier, BlockSize: format.EqdpDefaultBlockSize}
}

// Get returns the entry for setID; ids past the table read as 0.
func (f *EqdpFile) Get(setID uint16) uint16 {
	if int(setID) >= len(f.entries) {
		return 0
	}
	return f.entries[setID]
}

// Set replaces the entry for setID, growing the table by whole blocks.
func (f *EqdpFile) Set(setID uint16, v uint16) error {
	if int(setID) >= len(f.entries) {
		blocks := int(setID)/f.BlockSize + 1
		if (blocks-1)*f.BlockSize >= format.EqdpAbsentBlock {
			return types.Errorf(types.ErrKindRange, fmt.Sprintf("eqdp: set id %d exceeds table capacity", setID), types.ErrOutOfRange)
		}
		grown := make([]uint16, blocks*f.BlockSize)
		copy(grown, f.entries)
		f.entries = grown
	}
	f.entries[setID] = v
	return nil
}

// Encode writes every block present, in order.
func (f *EqdpFile) Encode() []byte {
	blockCount := len(f.entries) / f.BlockSize
	dataStart := format.EqdpHeaderSize + blockCount*2
	out := make([]byte, dataStart+len(f.entries)*format.EqdpEntrySize)
	buf.PutU16LE(out, 0, f.Identifier)
	buf.PutU16LE(out, 2, uint16(f.BlockSize))
	buf.PutU16LE(out, 4, uint16(blockCount))
	for block := 0; block < blockCount; block++ {
		buf.PutU16LE(out, format.EqdpHeaderSize+block*2, uint16(block*f.BlockSize))
	}
	for i, v := range f.entries {
		buf.PutU16LE(out, dataStart+i*format.EqdpEntrySize, v)
	}
	return out
}
