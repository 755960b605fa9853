// Package manip defines the six manipulation value types, one per metadata
// table, and the immutable Set that holds a collection's edits.
//
// Manipulations are plain values. Every With* method returns a modified
// copy; a manipulation stored in a Set can never be changed through another
// reference.
package manip

import (
	"errors"
	"fmt"

	"github.com/joshuapare/metakit/meta/enums"
)

// ErrUnknownKind is returned when decoding an envelope with an unknown type.
var ErrUnknownKind = errors.New("manip: unknown manipulation kind")

// Kind identifies the table category of a manipulation.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEqp
	KindEqdp
	KindImc
	KindEst
	KindGmp
	KindRsp
)

var allKinds = []Kind{KindEqp, KindEqdp, KindImc, KindEst, KindGmp, KindRsp}

// Kinds returns every concrete kind in Set order.
func Kinds() []Kind { return append([]Kind(nil), allKinds...) }

func (k Kind) String() string {
	switch k {
	case KindEqp:
		return "Eqp"
	case KindEqdp:
		return "Eqdp"
	case KindImc:
		return "Imc"
	case KindEst:
		return "Est"
	case KindGmp:
		return "Gmp"
	case KindRsp:
		return "Rsp"
	default:
		return "Unknown"
	}
}

// ParseKind matches name case-insensitively.
func ParseKind(name string) (Kind, error) {
	for _, k := range allKinds {
		if enums.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Identifier is the comparable identity of a manipulation: its kind and its
// packed key fields. Two manipulations with equal identifiers collide in a
// Set regardless of their values.
type Identifier struct {
	Kind Kind
	Key  uint64
}

// Less orders identifiers by kind, then key.
func (id Identifier) Less(o Identifier) bool {
	if id.Kind != o.Kind {
		return id.Kind < o.Kind
	}
	return id.Key < o.Key
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s#%012x", id.Kind, id.Key)
}

// Manipulation is one staged edit to a single table entry. The set of
// implementations is closed to this package.
type Manipulation interface {
	Kind() Kind
	// Identifier returns the key identity; values do not participate.
	Identifier() Identifier
	// TablePath returns the logical path of the table the edit targets.
	TablePath() string
	// Validate checks that the key has a backing table and that the value
	// lies within its field ranges.
	Validate() error
	// Equal compares key and value.
	Equal(Manipulation) bool
	fmt.Stringer

	sealed()
}

// SameKey reports whether a and b address the same table entry.
func SameKey(a, b Manipulation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identifier() == b.Identifier()
}
