package collection

import (
	"sort"

	"github.com/joshuapare/metakit/meta/manip"
)

// ModInfo describes one mod contributing manipulations to a collection.
type ModInfo struct {
	FolderName string
	Enabled    bool
	Priority   int
}

// Mod pairs a mod's settings with its edit set.
type Mod struct {
	Info ModInfo
	Set  manip.Set
}

// Compose merges the edit sets of enabled mods. When two mods edit the same
// key the higher priority wins; equal priorities fall back to the folder
// name, the later name winning.
func Compose(mods []Mod) manip.Set {
	merged := make(map[manip.Identifier]manip.Manipulation)
	for _, m := range byPrecedence(mods) {
		for _, x := range m.Set.All() {
			merged[x.Identifier()] = x
		}
	}
	return manip.FromMap(merged)
}

// Winners reports which mod folder supplied each key of Compose(mods).
func Winners(mods []Mod) map[manip.Identifier]string {
	out := make(map[manip.Identifier]string)
	for _, m := range byPrecedence(mods) {
		for _, x := range m.Set.All() {
			out[x.Identifier()] = m.Info.FolderName
		}
	}
	return out
}

// byPrecedence returns the enabled mods, lowest precedence first.
func byPrecedence(mods []Mod) []Mod {
	enabled := make([]Mod, 0, len(mods))
	for _, m := range mods {
		if m.Info.Enabled {
			enabled = append(enabled, m)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		a, b := enabled[i].Info, enabled[j].Info
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.FolderName < b.FolderName
	})
	return enabled
}
