// Package enums defines the small closed vocabularies used to key metadata
// table entries: equipment slots, genders, model races and their combined
// codes, sub races, scaling attributes, object types and skeleton
// categories.
package enums

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
)

// ErrUnknownName is returned when a name does not match any enum value.
var ErrUnknownName = errors.New("enums: unknown name")

type named interface {
	comparable
	String() string
}

// fold normalizes s for case-insensitive comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	return fold(a) == fold(b)
}

func parse[T named](kind, s string, values []T) (T, error) {
	want := fold(s)
	for _, v := range values {
		if fold(v.String()) == want {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownName, kind, s)
}

func unmarshalText[T named](dst *T, kind string, text []byte, values []T) error {
	v, err := parse(kind, string(text), values)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
