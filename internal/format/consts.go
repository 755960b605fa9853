// Package format houses the layout constants, logical paths and resource
// identifiers for the six metadata table layouts. It has no knowledge of
// manipulations; higher-level packages combine these constants with the
// typed values in meta/entry.
package format

const (
	// EqpEntrySize is the size of one EQP or GMP entry in bytes. Both tables
	// store a little-endian uint64 per set id.
	EqpEntrySize = 8

	// EqpBlockSize is the number of set ids covered by one EQP/GMP block.
	EqpBlockSize = 160

	// EqpBlockCount is the number of blocks addressable by the uint64 block
	// mask stored in entry 0.
	EqpBlockCount = 64

	// EqpCount is the number of addressable set ids in an expanded EQP/GMP
	// table. Set id 0 aliases the block mask and is never edited.
	EqpCount = EqpBlockSize * EqpBlockCount
)

const (
	// EqdpHeaderSize covers identifier, block size and block count (3 × uint16).
	// Layout (little-endian):
	//   0x00  uint16 identifier
	//   0x02  uint16 entries per block
	//   0x04  uint16 block count
	//   0x06  uint16 block offsets[block count] (in entries, 0xFFFF = absent)
	//   ....  uint16 entries
	EqdpHeaderSize = 6

	// EqdpEntrySize is the size of one EQDP entry.
	EqdpEntrySize = 2

	// EqdpAbsentBlock marks a block whose entries are all zero.
	EqdpAbsentBlock = 0xFFFF

	// EqdpDefaultBlockSize is used when synthesizing new tables.
	EqdpDefaultBlockSize = 160
)

const (
	// ImcHeaderSize covers the variant count and part mask (2 × uint16).
	// Layout (little-endian):
	//   0x00  uint16 variant count (excluding the default variant 0)
	//   0x02  uint16 part mask
	//   0x04  entries[(count+1) * parts], variant-major
	ImcHeaderSize = 4

	// ImcEntrySize is the size of one IMC entry.
	// Layout:
	//   0x00  uint8  material id
	//   0x01  uint8  decal id
	//   0x02  uint16 attribute mask (low 10 bits) | sound id (high 6 bits)
	//   0x04  uint8  vfx id
	//   0x05  uint8  material animation id
	ImcEntrySize = 6

	// ImcEquipmentPartMask is the part mask of equipment and accessory tables
	// (one part per slot).
	ImcEquipmentPartMask = 0b11111

	// ImcSinglePartMask is the part mask of weapon and monster tables.
	ImcSinglePartMask = 0b1
)

const (
	// EstHeaderSize is the uint32 entry count.
	// Layout (little-endian):
	//   0x00  uint32 count
	//   0x04  keys[count]   { uint16 set id, uint16 gender race }, sorted by (race, set id)
	//   ....  values[count] uint16 skeleton index
	EstHeaderSize = 4

	// EstKeySize is the size of one EST key.
	EstKeySize = 4

	// EstValueSize is the size of one EST value.
	EstValueSize = 2
)

const (
	// CmpRacialScalingStart is the offset of the racial scaling block in
	// human.cmp. Everything before it is left untouched.
	CmpRacialScalingStart = 0x2A800

	// CmpAttributeCount is the number of float32 attributes per sub race.
	CmpAttributeCount = 14

	// CmpSubRaceStride is the size of one sub race's scaling record.
	CmpSubRaceStride = CmpAttributeCount * 4

	// CmpSubRaceCount is the number of sub races stored in the table.
	CmpSubRaceCount = 16

	// CmpMinSize is the smallest human.cmp that holds every scaling record.
	CmpMinSize = CmpRacialScalingStart + CmpSubRaceCount*CmpSubRaceStride
)
