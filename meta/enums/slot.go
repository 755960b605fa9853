package enums

// EquipSlot names an equipment or accessory slot.
type EquipSlot uint8

const (
	SlotUnknown EquipSlot = iota
	SlotHead
	SlotBody
	SlotHands
	SlotLegs
	SlotFeet
	SlotEars
	SlotNeck
	SlotWrists
	SlotRFinger
	SlotLFinger
)

var slotNames = [...]string{
	SlotUnknown: "Unknown",
	SlotHead:    "Head",
	SlotBody:    "Body",
	SlotHands:   "Hands",
	SlotLegs:    "Legs",
	SlotFeet:    "Feet",
	SlotEars:    "Ears",
	SlotNeck:    "Neck",
	SlotWrists:  "Wrists",
	SlotRFinger: "RFinger",
	SlotLFinger: "LFinger",
}

var allSlots = []EquipSlot{
	SlotUnknown, SlotHead, SlotBody, SlotHands, SlotLegs, SlotFeet,
	SlotEars, SlotNeck, SlotWrists, SlotRFinger, SlotLFinger,
}

func (s EquipSlot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return "Unknown"
}

// IsEquipment reports whether s is one of the five armour slots.
func (s EquipSlot) IsEquipment() bool {
	return s >= SlotHead && s <= SlotFeet
}

// IsAccessory reports whether s is one of the five accessory slots.
func (s EquipSlot) IsAccessory() bool {
	return s >= SlotEars && s <= SlotLFinger
}

// Index returns the slot's position within its group (0-4), or -1.
func (s EquipSlot) Index() int {
	switch {
	case s.IsEquipment():
		return int(s - SlotHead)
	case s.IsAccessory():
		return int(s - SlotEars)
	default:
		return -1
	}
}

// EquipmentSlots returns the armour slots in table order.
func EquipmentSlots() []EquipSlot {
	return []EquipSlot{SlotHead, SlotBody, SlotHands, SlotLegs, SlotFeet}
}

// AccessorySlots returns the accessory slots in table order.
func AccessorySlots() []EquipSlot {
	return []EquipSlot{SlotEars, SlotNeck, SlotWrists, SlotRFinger, SlotLFinger}
}

// EqdpSlots returns every slot that owns bits in an EQDP entry.
func EqdpSlots() []EquipSlot {
	return append(EquipmentSlots(), AccessorySlots()...)
}

// EqpSlots returns the slots that own bits in an EQP entry.
func EqpSlots() []EquipSlot {
	return EquipmentSlots()
}

// ParseEquipSlot matches name case-insensitively.
func ParseEquipSlot(name string) (EquipSlot, error) {
	return parse("equip slot", name, allSlots)
}

func (s EquipSlot) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *EquipSlot) UnmarshalText(text []byte) error {
	return unmarshalText(s, "equip slot", text, allSlots)
}

// BodySlot is the coarse slot category used by object paths.
type BodySlot uint8

const (
	BodySlotUnknown BodySlot = iota
	BodySlotBody
	BodySlotEquipment
)

var allBodySlots = []BodySlot{BodySlotUnknown, BodySlotBody, BodySlotEquipment}

func (b BodySlot) String() string {
	switch b {
	case BodySlotBody:
		return "Body"
	case BodySlotEquipment:
		return "Equipment"
	default:
		return "Unknown"
	}
}

// ParseBodySlot matches name case-insensitively.
func ParseBodySlot(name string) (BodySlot, error) {
	return parse("body slot", name, allBodySlots)
}

func (b BodySlot) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BodySlot) UnmarshalText(text []byte) error {
	return unmarshalText(b, "body slot", text, allBodySlots)
}
