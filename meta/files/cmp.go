package files

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/buf"
	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// CmpFile wraps human.cmp. Only the racial scaling block is interpreted;
// every other byte is carried through unchanged.
type CmpFile struct {
	data []byte
}

// DecodeCmp copies data and checks that every scaling record is present.
func DecodeCmp(data []byte) (*CmpFile, error) {
	if len(data) < format.CmpMinSize {
		return nil, types.Errorf(types.ErrKindFormat, fmt.Sprintf("cmp: %d bytes, need %d", len(data), format.CmpMinSize), format.ErrTruncated)
	}
	return &CmpFile{data: append([]byte(nil), data...)}, nil
}

func cmpOffset(sub enums.SubRace, attr enums.RspAttribute) (int, error) {
	if sub == enums.SubRaceUnknown || int(sub) > format.CmpSubRaceCount || !attr.Valid() {
		return 0, types.Errorf(types.ErrKindInvalid, fmt.Sprintf("cmp: %s %s", sub, attr), types.ErrInvalidKey)
	}
	return format.CmpRacialScalingStart + (int(sub)-1)*format.CmpSubRaceStride + int(attr)*4, nil
}

// Get returns one scaling attribute.
func (f *CmpFile) Get(sub enums.SubRace, attr enums.RspAttribute) (float32, error) {
	off, err := cmpOffset(sub, attr)
	if err != nil {
		return 0, err
	}
	return buf.F32LE(f.data, off), nil
}

// Set replaces one scaling attribute.
func (f *CmpFile) Set(sub enums.SubRace, attr enums.RspAttribute, v float32) error {
	off, err := cmpOffset(sub, attr)
	if err != nil {
		return err
	}
	buf.PutF32LE(f.data, off, v)
	return nil
}

// Encode returns a copy of the table bytes.
func (f *CmpFile) Encode() []byte { return append([]byte(nil), f.data...) }
