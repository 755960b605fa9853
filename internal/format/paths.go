package format

import "fmt"

// Logical paths of the global tables.
const (
	EqpPath           = "chara/xls/equipmentparameter/equipmentparameter.eqp"
	GmpPath           = "chara/xls/equipmentparameter/gimmickparameter.gmp"
	CmpPath           = "chara/xls/charamake/human.cmp"
	HumanPbdPath      = "chara/xls/boneDeformer/human.pbd"
	EstHairPath       = "chara/xls/charadb/hairskeletontemplate.est"
	EstFacePath       = "chara/xls/charadb/faceskeletontemplate.est"
	EstBodyPath       = "chara/xls/charadb/extra_top.est"
	EstHeadPath       = "chara/xls/charadb/extra_met.est"
	eqdpEquipmentPath = "chara/xls/charadb/equipmentdeformerparameter/c%04d.eqdp"
	eqdpAccessoryPath = "chara/xls/charadb/accessorydeformerparameter/c%04d.eqdp"
)

// EqdpPath returns the EQDP table path for a combined race code.
func EqdpPath(raceCode uint16, accessory bool) string {
	if accessory {
		return fmt.Sprintf(eqdpAccessoryPath, raceCode)
	}
	return fmt.Sprintf(eqdpEquipmentPath, raceCode)
}

// ImcEquipmentPath returns the IMC path of an equipment set.
func ImcEquipmentPath(setID uint16) string {
	return fmt.Sprintf("chara/equipment/e%04d/e%04d.imc", setID, setID)
}

// ImcAccessoryPath returns the IMC path of an accessory set.
func ImcAccessoryPath(setID uint16) string {
	return fmt.Sprintf("chara/accessory/a%04d/a%04d.imc", setID, setID)
}

// ImcWeaponPath returns the IMC path of a weapon body.
func ImcWeaponPath(primaryID, secondaryID uint16) string {
	return fmt.Sprintf("chara/weapon/w%04d/obj/body/b%04d/b%04d.imc", primaryID, secondaryID, secondaryID)
}

// ImcMonsterPath returns the IMC path of a monster body.
func ImcMonsterPath(primaryID, secondaryID uint16) string {
	return fmt.Sprintf("chara/monster/m%04d/obj/body/b%04d/b%04d.imc", primaryID, secondaryID, secondaryID)
}
