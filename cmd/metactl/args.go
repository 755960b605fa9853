package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/manip"
)

// keyArgs holds key=value arguments with case-folded keys.
type keyArgs struct {
	values map[string]string
	used   map[string]bool
}

func parseKeyArgs(args []string) (*keyArgs, error) {
	k := &keyArgs{values: make(map[string]string), used: make(map[string]bool)}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		k.values[strings.ToLower(name)] = value
	}
	return k, nil
}

func (k *keyArgs) lookup(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := k.values[n]; ok {
			k.used[n] = true
			return v, true
		}
	}
	return "", false
}

func (k *keyArgs) str(names ...string) (string, error) {
	v, ok := k.lookup(names...)
	if !ok {
		return "", fmt.Errorf("missing %s=", names[0])
	}
	return v, nil
}

func (k *keyArgs) u16(names ...string) (uint16, error) {
	v, err := k.str(names...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", names[0], err)
	}
	return uint16(n), nil
}

// unused reports arguments no builder consumed.
func (k *keyArgs) unused() error {
	for name := range k.values {
		if !k.used[name] {
			return fmt.Errorf("unknown argument %q", name)
		}
	}
	return nil
}

// parseCandidate builds a manipulation with a zero value from a kind name
// and key arguments, e.g. "eqdp set=1 slot=head gender=male race=midlander".
func parseCandidate(kindName string, args []string) (manip.Manipulation, error) {
	kind, err := manip.ParseKind(kindName)
	if err != nil {
		return nil, err
	}
	k, err := parseKeyArgs(args)
	if err != nil {
		return nil, err
	}
	var m manip.Manipulation
	switch kind {
	case manip.KindEqp:
		m, err = eqpCandidate(k)
	case manip.KindEqdp:
		m, err = eqdpCandidate(k)
	case manip.KindImc:
		m, err = imcCandidate(k)
	case manip.KindEst:
		m, err = estCandidate(k)
	case manip.KindGmp:
		m, err = gmpCandidate(k)
	case manip.KindRsp:
		m, err = rspCandidate(k)
	default:
		err = fmt.Errorf("unsupported kind %s", kind)
	}
	if err != nil {
		return nil, err
	}
	if err := k.unused(); err != nil {
		return nil, err
	}
	return m, nil
}

func eqpCandidate(k *keyArgs) (manip.Manipulation, error) {
	set, err := k.u16("set", "setid")
	if err != nil {
		return nil, err
	}
	slot, err := parseWith(k, enums.ParseEquipSlot, "slot")
	if err != nil {
		return nil, err
	}
	return manip.NewEqp(0, slot, set), nil
}

func eqdpCandidate(k *keyArgs) (manip.Manipulation, error) {
	set, err := k.u16("set", "setid")
	if err != nil {
		return nil, err
	}
	slot, err := parseWith(k, enums.ParseEquipSlot, "slot")
	if err != nil {
		return nil, err
	}
	gender, err := parseWith(k, enums.ParseGender, "gender")
	if err != nil {
		return nil, err
	}
	race, err := parseWith(k, enums.ParseModelRace, "race")
	if err != nil {
		return nil, err
	}
	return manip.NewEqdp(0, slot, gender, race, set), nil
}

func imcCandidate(k *keyArgs) (manip.Manipulation, error) {
	objType, err := parseWith(k, enums.ParseObjectType, "type", "objecttype")
	if err != nil {
		return nil, err
	}
	primary, err := k.u16("primary", "primaryid")
	if err != nil {
		return nil, err
	}
	variant, err := k.u16("variant")
	if err != nil {
		return nil, err
	}
	if objType.UsesSlot() {
		slot, err := parseWith(k, enums.ParseEquipSlot, "slot")
		if err != nil {
			return nil, err
		}
		return manip.NewImcEquipment(objType, primary, variant, slot, entry.Imc{}), nil
	}
	secondary, err := k.u16("secondary", "secondaryid")
	if err != nil {
		return nil, err
	}
	return manip.NewImcBody(objType, primary, secondary, variant, entry.Imc{}), nil
}

func estCandidate(k *keyArgs) (manip.Manipulation, error) {
	set, err := k.u16("set", "setid")
	if err != nil {
		return nil, err
	}
	typ, err := parseWith(k, enums.ParseEstType, "type", "slot")
	if err != nil {
		return nil, err
	}
	gender, err := parseWith(k, enums.ParseGender, "gender")
	if err != nil {
		return nil, err
	}
	race, err := parseWith(k, enums.ParseModelRace, "race")
	if err != nil {
		return nil, err
	}
	return manip.NewEst(0, typ, gender, race, set), nil
}

func gmpCandidate(k *keyArgs) (manip.Manipulation, error) {
	set, err := k.u16("set", "setid")
	if err != nil {
		return nil, err
	}
	return manip.NewGmp(entry.Gmp{}, set), nil
}

func rspCandidate(k *keyArgs) (manip.Manipulation, error) {
	sub, err := parseWith(k, enums.ParseSubRace, "subrace")
	if err != nil {
		return nil, err
	}
	attr, err := parseWith(k, enums.ParseRspAttribute, "attribute", "attr")
	if err != nil {
		return nil, err
	}
	return manip.NewRsp(0, sub, attr), nil
}

func parseWith[T any](k *keyArgs, parse func(string) (T, error), names ...string) (T, error) {
	var zero T
	v, err := k.str(names...)
	if err != nil {
		return zero, err
	}
	out, err := parse(v)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", names[0], err)
	}
	return out, nil
}
