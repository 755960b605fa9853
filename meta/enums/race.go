package enums

import (
	"fmt"
	"strconv"
)

// Gender includes the NPC variants, which use their own model tables.
type Gender uint8

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderMaleNpc
	GenderFemaleNpc
)

var allGenders = []Gender{GenderUnknown, GenderMale, GenderFemale, GenderMaleNpc, GenderFemaleNpc}

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderMaleNpc:
		return "MaleNpc"
	case GenderFemaleNpc:
		return "FemaleNpc"
	default:
		return "Unknown"
	}
}

// IsNpc reports whether g is one of the NPC genders.
func (g Gender) IsNpc() bool { return g == GenderMaleNpc || g == GenderFemaleNpc }

// ParseGender matches name case-insensitively.
func ParseGender(name string) (Gender, error) {
	return parse("gender", name, allGenders)
}

func (g Gender) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Gender) UnmarshalText(text []byte) error {
	return unmarshalText(g, "gender", text, allGenders)
}

// ModelRace is the base race a model is authored for.
type ModelRace uint8

const (
	RaceUnknown ModelRace = iota
	RaceMidlander
	RaceHighlander
	RaceElezen
	RaceLalafell
	RaceMiqote
	RaceRoegadyn
	RaceAuRa
	RaceHrothgar
	RaceViera
)

var allRaces = []ModelRace{
	RaceUnknown, RaceMidlander, RaceHighlander, RaceElezen, RaceLalafell,
	RaceMiqote, RaceRoegadyn, RaceAuRa, RaceHrothgar, RaceViera,
}

var raceNames = [...]string{
	RaceUnknown:    "Unknown",
	RaceMidlander:  "Midlander",
	RaceHighlander: "Highlander",
	RaceElezen:     "Elezen",
	RaceLalafell:   "Lalafell",
	RaceMiqote:     "Miqote",
	RaceRoegadyn:   "Roegadyn",
	RaceAuRa:       "AuRa",
	RaceHrothgar:   "Hrothgar",
	RaceViera:      "Viera",
}

func (r ModelRace) String() string {
	if int(r) < len(raceNames) {
		return raceNames[r]
	}
	return "Unknown"
}

// ParseModelRace matches name case-insensitively.
func ParseModelRace(name string) (ModelRace, error) {
	return parse("race", name, allRaces)
}

func (r ModelRace) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ModelRace) UnmarshalText(text []byte) error {
	return unmarshalText(r, "race", text, allRaces)
}

// GenderRace is a combined race code as used in table paths, e.g. 0101 for
// a male Midlander. The numeric value is the decimal code.
type GenderRace uint16

// GenderRaceUnknown marks an impossible gender and race pairing.
const GenderRaceUnknown GenderRace = 0

// raceBase is the code of the male playable model for each race; the female
// model is base+100 and NPC models replace the trailing 1 with 4.
var raceBase = map[ModelRace]uint16{
	RaceMidlander:  101,
	RaceHighlander: 301,
	RaceElezen:     501,
	RaceMiqote:     701,
	RaceRoegadyn:   901,
	RaceLalafell:   1101,
	RaceAuRa:       1301,
	RaceHrothgar:   1501,
	RaceViera:      1701,
}

// validCodes lists every combined code that has model tables.
var validCodes = map[GenderRace]struct{}{}

// EqdpRaces lists, in ascending order, the codes that own EQDP tables.
var EqdpRaces []GenderRace

func init() {
	for _, r := range allRaces[1:] {
		base := raceBase[r]
		codes := []uint16{base, base + 100, base + 3, base + 103}
		for _, c := range codes {
			validCodes[GenderRace(c)] = struct{}{}
		}
	}
	// Highlanders have no NPC models, Hrothgar only a male one.
	delete(validCodes, GenderRace(304))
	delete(validCodes, GenderRace(404))
	delete(validCodes, GenderRace(1604))
	for code := GenderRace(1); code < 2000; code++ {
		if _, ok := validCodes[code]; ok {
			EqdpRaces = append(EqdpRaces, code)
		}
	}
}

// CombinedRace maps a gender and race to its combined code. Pairings without
// model tables yield GenderRaceUnknown.
func CombinedRace(g Gender, r ModelRace) GenderRace {
	base, ok := raceBase[r]
	if !ok {
		return GenderRaceUnknown
	}
	var code uint16
	switch g {
	case GenderMale:
		code = base
	case GenderFemale:
		code = base + 100
	case GenderMaleNpc:
		code = base + 3
	case GenderFemaleNpc:
		code = base + 103
	default:
		return GenderRaceUnknown
	}
	if _, ok := validCodes[GenderRace(code)]; !ok {
		return GenderRaceUnknown
	}
	return GenderRace(code)
}

// Split is the inverse of CombinedRace.
func (gr GenderRace) Split() (Gender, ModelRace) {
	if !gr.Valid() {
		return GenderUnknown, RaceUnknown
	}
	c := uint16(gr)
	npc := c%100 == 4
	pair := c / 100
	female := pair%2 == 0
	maleBase := (pair-1)/2*2 + 1
	for r, base := range raceBase {
		if base/100 == maleBase {
			switch {
			case female && npc:
				return GenderFemaleNpc, r
			case female:
				return GenderFemale, r
			case npc:
				return GenderMaleNpc, r
			default:
				return GenderMale, r
			}
		}
	}
	return GenderUnknown, RaceUnknown
}

// Valid reports whether the code has model tables.
func (gr GenderRace) Valid() bool {
	_, ok := validCodes[gr]
	return ok
}

// IsValidEqdp reports whether an EQDP table exists for gr.
func IsValidEqdp(gr GenderRace) bool { return gr.Valid() }

// String renders the code zero-padded, e.g. "0101".
func (gr GenderRace) String() string {
	return fmt.Sprintf("%04d", uint16(gr))
}

// Name renders the code as gender and race, e.g. "Midlander Male".
func (gr GenderRace) Name() string {
	g, r := gr.Split()
	if r == RaceUnknown {
		return "Unknown"
	}
	return r.String() + " " + g.String()
}

// ParseGenderRace accepts a numeric code ("0101", "101").
func ParseGenderRace(s string) (GenderRace, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || !GenderRace(n).Valid() {
		return GenderRaceUnknown, fmt.Errorf("%w: gender race %q", ErrUnknownName, s)
	}
	return GenderRace(n), nil
}

// SubRace selects a racial scaling record.
type SubRace uint8

const (
	SubRaceUnknown SubRace = iota
	SubRaceMidlander
	SubRaceHighlander
	SubRaceWildwood
	SubRaceDuskwight
	SubRacePlainsfolk
	SubRaceDunesfolk
	SubRaceSeekerOfTheSun
	SubRaceKeeperOfTheMoon
	SubRaceSeawolf
	SubRaceHellsguard
	SubRaceRaen
	SubRaceXaela
	SubRaceHellion
	SubRaceLost
	SubRaceRava
	SubRaceVeena
)

var subRaceNames = [...]string{
	"Unknown", "Midlander", "Highlander", "Wildwood", "Duskwight",
	"Plainsfolk", "Dunesfolk", "SeekerOfTheSun", "KeeperOfTheMoon",
	"Seawolf", "Hellsguard", "Raen", "Xaela", "Hellion", "Lost", "Rava", "Veena",
}

// SubRaces returns every concrete sub race in table order.
func SubRaces() []SubRace {
	out := make([]SubRace, 0, len(subRaceNames)-1)
	for i := 1; i < len(subRaceNames); i++ {
		out = append(out, SubRace(i))
	}
	return out
}

func (s SubRace) String() string {
	if int(s) < len(subRaceNames) {
		return subRaceNames[s]
	}
	return "Unknown"
}

// ParseSubRace matches name case-insensitively.
func ParseSubRace(name string) (SubRace, error) {
	return parse("sub race", name, append([]SubRace{SubRaceUnknown}, SubRaces()...))
}

func (s SubRace) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *SubRace) UnmarshalText(text []byte) error {
	return unmarshalText(s, "sub race", text, append([]SubRace{SubRaceUnknown}, SubRaces()...))
}

// RspAttribute names one float in a sub race's scaling record.
type RspAttribute uint8

const (
	RspMaleMinSize RspAttribute = iota
	RspMaleMaxSize
	RspMaleMinTail
	RspMaleMaxTail
	RspFemaleMinSize
	RspFemaleMaxSize
	RspFemaleMinTail
	RspFemaleMaxTail
	RspBustMinX
	RspBustMinY
	RspBustMinZ
	RspBustMaxX
	RspBustMaxY
	RspBustMaxZ
	rspAttributeCount
)

var rspNames = [...]string{
	"MaleMinSize", "MaleMaxSize", "MaleMinTail", "MaleMaxTail",
	"FemaleMinSize", "FemaleMaxSize", "FemaleMinTail", "FemaleMaxTail",
	"BustMinX", "BustMinY", "BustMinZ", "BustMaxX", "BustMaxY", "BustMaxZ",
}

// RspAttributes returns every attribute in record order.
func RspAttributes() []RspAttribute {
	out := make([]RspAttribute, rspAttributeCount)
	for i := range out {
		out[i] = RspAttribute(i)
	}
	return out
}

// Valid reports whether a is a known attribute.
func (a RspAttribute) Valid() bool { return a < rspAttributeCount }

func (a RspAttribute) String() string {
	if a.Valid() {
		return rspNames[a]
	}
	return "Unknown"
}

// ParseRspAttribute matches name case-insensitively.
func ParseRspAttribute(name string) (RspAttribute, error) {
	return parse("rsp attribute", name, RspAttributes())
}

func (a RspAttribute) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *RspAttribute) UnmarshalText(text []byte) error {
	return unmarshalText(a, "rsp attribute", text, RspAttributes())
}
