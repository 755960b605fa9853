package manip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Envelope is the wire form of one manipulation: its kind and body.
//
//	{"Type": "Eqp", "Manipulation": {"Entry": 2, "SetId": 5, "Slot": "Head"}}
type Envelope struct {
	Manipulation Manipulation
}

type jsonEnvelope struct {
	Type         Kind            `json:"Type"`
	Manipulation json.RawMessage `json:"Manipulation"`
}

type yamlEnvelope struct {
	Type         Kind      `yaml:"type"`
	Manipulation yaml.Node `yaml:"manipulation"`
}

// decodeInto decodes a body of kind k with dec and returns the normalized
// value.
func decodeInto(k Kind, dec func(any) error) (Manipulation, error) {
	switch k {
	case KindEqp:
		var v Eqp
		if err := dec(&v); err != nil {
			return nil, err
		}
		return NewEqp(v.Entry, v.Slot, v.SetID), nil
	case KindEqdp:
		var v Eqdp
		if err := dec(&v); err != nil {
			return nil, err
		}
		return NewEqdp(v.Entry, v.Slot, v.Gender, v.Race, v.SetID), nil
	case KindImc:
		var v Imc
		if err := dec(&v); err != nil {
			return nil, err
		}
		return v.normalize(), nil
	case KindEst:
		var v Est
		if err := dec(&v); err != nil {
			return nil, err
		}
		return v, nil
	case KindGmp:
		var v Gmp
		if err := dec(&v); err != nil {
			return nil, err
		}
		return v, nil
	case KindRsp:
		var v Rsp
		if err := dec(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Manipulation == nil {
		return nil, fmt.Errorf("%w: nil manipulation", ErrUnknownKind)
	}
	body, err := json.Marshal(e.Manipulation)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{Type: e.Manipulation.Kind(), Manipulation: body})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw jsonEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m, err := decodeInto(raw.Type, func(v any) error {
		dec := json.NewDecoder(bytes.NewReader(raw.Manipulation))
		dec.DisallowUnknownFields()
		return dec.Decode(v)
	})
	if err != nil {
		return fmt.Errorf("manip: decode %s: %w", raw.Type, err)
	}
	e.Manipulation = m
	return nil
}

func (e Envelope) MarshalYAML() (any, error) {
	if e.Manipulation == nil {
		return nil, fmt.Errorf("%w: nil manipulation", ErrUnknownKind)
	}
	var body yaml.Node
	if err := body.Encode(e.Manipulation); err != nil {
		return nil, err
	}
	return yamlEnvelope{Type: e.Manipulation.Kind(), Manipulation: body}, nil
}

func (e *Envelope) UnmarshalYAML(node *yaml.Node) error {
	var raw yamlEnvelope
	if err := node.Decode(&raw); err != nil {
		return err
	}
	m, err := decodeInto(raw.Type, raw.Manipulation.Decode)
	if err != nil {
		return fmt.Errorf("manip: decode %s: %w", raw.Type, err)
	}
	e.Manipulation = m
	return nil
}

func (s Set) envelopes() []Envelope {
	out := make([]Envelope, len(s.items))
	for i, m := range s.items {
		out[i] = Envelope{Manipulation: m}
	}
	return out
}

func setFromEnvelopes(envs []Envelope) Set {
	ms := make([]Manipulation, 0, len(envs))
	for _, e := range envs {
		ms = append(ms, e.Manipulation)
	}
	return NewSet(ms...)
}

// MarshalJSON writes the set as an array of envelopes in set order.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.envelopes())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var envs []Envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return err
	}
	*s = setFromEnvelopes(envs)
	return nil
}

func (s Set) MarshalYAML() (any, error) {
	return s.envelopes(), nil
}

func (s *Set) UnmarshalYAML(node *yaml.Node) error {
	var envs []Envelope
	if err := node.Decode(&envs); err != nil {
		return err
	}
	*s = setFromEnvelopes(envs)
	return nil
}

// Format selects an edit file encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatForPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode writes s in the requested format.
func Encode(s Set, f Format) ([]byte, error) {
	if f == FormatYAML {
		return yaml.Marshal(s)
	}
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses data in the requested format.
func Decode(data []byte, f Format) (Set, error) {
	var s Set
	var err error
	if f == FormatYAML {
		err = yaml.Unmarshal(data, &s)
	} else {
		err = json.Unmarshal(data, &s)
	}
	return s, err
}
