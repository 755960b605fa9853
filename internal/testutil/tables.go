// Package testutil builds compact metadata tables for tests, in the same
// sparse layouts the asset store ships them in.
package testutil

import (
	"encoding/binary"
	"math"
	"math/bits"
	"sort"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
)

// BlockTable builds a compact EQP/GMP table. Only blocks containing at least
// one entry of values are stored; other entries of stored blocks are fill.
func BlockTable(fill uint64, values map[uint16]uint64) []byte {
	mask := uint64(1) // block 0 holds the mask and is always present
	for id := range values {
		mask |= 1 << (int(id) / format.EqpBlockSize)
	}
	out := make([]byte, bits.OnesCount64(mask)*format.EqpBlockSize*format.EqpEntrySize)
	rank := 0
	for block := 0; block < format.EqpBlockCount; block++ {
		if mask&(1<<block) == 0 {
			continue
		}
		for i := 0; i < format.EqpBlockSize; i++ {
			v, ok := values[uint16(block*format.EqpBlockSize+i)]
			if !ok {
				v = fill
			}
			binary.LittleEndian.PutUint64(out[(rank*format.EqpBlockSize+i)*format.EqpEntrySize:], v)
		}
		rank++
	}
	binary.LittleEndian.PutUint64(out, mask)
	return out
}

// EqdpTable builds a compact EQDP table. Blocks without a non-zero entry are
// marked absent.
func EqdpTable(identifier uint16, blockSize int, values map[uint16]uint16) []byte {
	blockCount := 1
	for id := range values {
		if b := int(id)/blockSize + 1; b > blockCount {
			blockCount = b
		}
	}
	offsets := make([]uint16, blockCount)
	stored := 0
	for b := range offsets {
		offsets[b] = format.EqdpAbsentBlock
		for i := 0; i < blockSize; i++ {
			if values[uint16(b*blockSize+i)] != 0 {
				offsets[b] = uint16(stored * blockSize)
				stored++
				break
			}
		}
	}
	dataStart := format.EqdpHeaderSize + blockCount*2
	out := make([]byte, dataStart+stored*blockSize*format.EqdpEntrySize)
	binary.LittleEndian.PutUint16(out[0:], identifier)
	binary.LittleEndian.PutUint16(out[2:], uint16(blockSize))
	binary.LittleEndian.PutUint16(out[4:], uint16(blockCount))
	for b, off := range offsets {
		binary.LittleEndian.PutUint16(out[format.EqdpHeaderSize+b*2:], off)
		if off == format.EqdpAbsentBlock {
			continue
		}
		for i := 0; i < blockSize; i++ {
			v := values[uint16(b*blockSize+i)]
			binary.LittleEndian.PutUint16(out[dataStart+(int(off)+i)*format.EqdpEntrySize:], v)
		}
	}
	return out
}

// ImcTable builds an IMC table. variants[0] is the default variant; each row
// holds one entry per set bit of partMask.
func ImcTable(partMask uint16, variants [][]entry.Imc) []byte {
	parts := bits.OnesCount16(partMask)
	out := make([]byte, format.ImcHeaderSize+len(variants)*parts*format.ImcEntrySize)
	binary.LittleEndian.PutUint16(out[0:], uint16(len(variants)-1))
	binary.LittleEndian.PutUint16(out[2:], partMask)
	off := format.ImcHeaderSize
	for _, row := range variants {
		for p := 0; p < parts; p++ {
			var e entry.Imc
			if p < len(row) {
				e = row[p]
			}
			raw := e.Encode()
			copy(out[off:], raw[:])
			off += format.ImcEntrySize
		}
	}
	return out
}

// EstKey mirrors the on-disk key order: set id, then combined race code.
type EstKey struct {
	SetID      uint16
	GenderRace uint16
}

// EstTable builds an EST table with keys sorted by race, then set id.
func EstTable(values map[EstKey]uint16) []byte {
	keys := make([]EstKey, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GenderRace != keys[j].GenderRace {
			return keys[i].GenderRace < keys[j].GenderRace
		}
		return keys[i].SetID < keys[j].SetID
	})
	n := len(keys)
	valuesStart := format.EstHeaderSize + n*format.EstKeySize
	out := make([]byte, valuesStart+n*format.EstValueSize)
	binary.LittleEndian.PutUint32(out, uint32(n))
	for i, k := range keys {
		binary.LittleEndian.PutUint16(out[format.EstHeaderSize+i*format.EstKeySize:], k.SetID)
		binary.LittleEndian.PutUint16(out[format.EstHeaderSize+i*format.EstKeySize+2:], k.GenderRace)
		binary.LittleEndian.PutUint16(out[valuesStart+i*format.EstValueSize:], values[k])
	}
	return out
}

// CmpKey addresses one scaling float by 1-based sub race and attribute index.
type CmpKey struct {
	SubRace   int
	Attribute int
}

// CmpTable builds a human.cmp with every scaling attribute set to fill
// except those in values. Bytes before the scaling block are 0xCD so tests
// can check they survive untouched.
func CmpTable(fill float32, values map[CmpKey]float32) []byte {
	out := make([]byte, format.CmpMinSize)
	for i := 0; i < format.CmpRacialScalingStart; i++ {
		out[i] = 0xCD
	}
	for sub := 1; sub <= format.CmpSubRaceCount; sub++ {
		for attr := 0; attr < format.CmpAttributeCount; attr++ {
			v, ok := values[CmpKey{sub, attr}]
			if !ok {
				v = fill
			}
			off := format.CmpRacialScalingStart + (sub-1)*format.CmpSubRaceStride + attr*4
			binary.LittleEndian.PutUint32(out[off:], math.Float32bits(v))
		}
	}
	return out
}
