package enums

// ObjectType is the kind of object an IMC table describes.
type ObjectType uint8

const (
	ObjectUnknown ObjectType = iota
	ObjectEquipment
	ObjectAccessory
	ObjectWeapon
	ObjectMonster
	ObjectDemiHuman
)

var allObjectTypes = []ObjectType{
	ObjectUnknown, ObjectEquipment, ObjectAccessory, ObjectWeapon, ObjectMonster, ObjectDemiHuman,
}

func (o ObjectType) String() string {
	switch o {
	case ObjectEquipment:
		return "Equipment"
	case ObjectAccessory:
		return "Accessory"
	case ObjectWeapon:
		return "Weapon"
	case ObjectMonster:
		return "Monster"
	case ObjectDemiHuman:
		return "DemiHuman"
	default:
		return "Unknown"
	}
}

// ValidImcTypes returns the object types IMC manipulations may target.
func ValidImcTypes() []ObjectType {
	return []ObjectType{ObjectEquipment, ObjectAccessory, ObjectWeapon, ObjectMonster}
}

// IsValidImc reports whether o is in ValidImcTypes.
func (o ObjectType) IsValidImc() bool {
	return o >= ObjectEquipment && o <= ObjectMonster
}

// UsesSlot reports whether IMC keys for o are addressed by equip slot rather
// than by secondary id.
func (o ObjectType) UsesSlot() bool {
	return o == ObjectEquipment || o == ObjectAccessory
}

// ParseObjectType matches name case-insensitively.
func ParseObjectType(name string) (ObjectType, error) {
	return parse("object type", name, allObjectTypes)
}

func (o ObjectType) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *ObjectType) UnmarshalText(text []byte) error {
	return unmarshalText(o, "object type", text, allObjectTypes)
}

// EstType selects one of the four skeleton template tables.
type EstType uint8

const (
	EstHair EstType = iota + 1
	EstFace
	EstBody
	EstHead
)

var allEstTypes = []EstType{EstHair, EstFace, EstBody, EstHead}

// EstTypes returns the skeleton categories in table order.
func EstTypes() []EstType { return append([]EstType(nil), allEstTypes...) }

func (e EstType) String() string {
	switch e {
	case EstHair:
		return "Hair"
	case EstFace:
		return "Face"
	case EstBody:
		return "Body"
	case EstHead:
		return "Head"
	default:
		return "Unknown"
	}
}

// Valid reports whether e names a table.
func (e EstType) Valid() bool { return e >= EstHair && e <= EstHead }

// ParseEstType matches name case-insensitively.
func ParseEstType(name string) (EstType, error) {
	return parse("est type", name, allEstTypes)
}

func (e EstType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EstType) UnmarshalText(text []byte) error {
	return unmarshalText(e, "est type", text, allEstTypes)
}
