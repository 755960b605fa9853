package entry

import "github.com/joshuapare/metakit/internal/format"

const (
	// ImcMaxSoundID is the largest sound id representable in 6 bits.
	ImcMaxSoundID = 0b111111
	// ImcMaxAttributeMask is the largest mask representable in 10 bits.
	ImcMaxAttributeMask = 0b11_1111_1111
)

// Imc is one decoded IMC variant entry.
type Imc struct {
	MaterialID          uint8  `json:"MaterialId" yaml:"material_id"`
	DecalID             uint8  `json:"DecalId" yaml:"decal_id"`
	AttributeMask       uint16 `json:"AttributeMask" yaml:"attribute_mask"`
	SoundID             uint8  `json:"SoundId" yaml:"sound_id"`
	VfxID               uint8  `json:"VfxId" yaml:"vfx_id"`
	MaterialAnimationID uint8  `json:"MaterialAnimationId" yaml:"material_animation_id"`
}

// Encode writes the entry in table order. The sound id is masked to 6 bits
// and the attribute mask to 10 bits.
func (i Imc) Encode() [format.ImcEntrySize]byte {
	packed := i.AttributeMask&ImcMaxAttributeMask | uint16(i.SoundID&ImcMaxSoundID)<<10
	return [format.ImcEntrySize]byte{
		i.MaterialID,
		i.DecalID,
		byte(packed),
		byte(packed >> 8),
		i.VfxID,
		i.MaterialAnimationID,
	}
}

// DecodeImc reads one entry. ok is false if b is shorter than an entry.
func DecodeImc(b []byte) (Imc, bool) {
	if len(b) < format.ImcEntrySize {
		return Imc{}, false
	}
	packed := uint16(b[2]) | uint16(b[3])<<8
	return Imc{
		MaterialID:          b[0],
		DecalID:             b[1],
		AttributeMask:       packed & ImcMaxAttributeMask,
		SoundID:             uint8(packed >> 10),
		VfxID:               b[4],
		MaterialAnimationID: b[5],
	}, true
}

// InRange reports whether the bit-packed fields fit their widths.
func (i Imc) InRange() bool {
	return i.SoundID <= ImcMaxSoundID && i.AttributeMask <= ImcMaxAttributeMask
}
