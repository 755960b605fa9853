package format

import "strings"

// Category is the top-level asset category a logical path belongs to.
type Category uint8

const (
	CategoryCommon Category = iota
	CategoryChara
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommon:
		return "common"
	case CategoryChara:
		return "chara"
	default:
		return "unknown"
	}
}

// CategoryOf derives the category from the first path segment.
func CategoryOf(path string) Category {
	if strings.HasPrefix(path, "chara/") {
		return CategoryChara
	}
	return CategoryCommon
}

// ResourceType identifies the record layout of a resource by its extension.
type ResourceType uint8

const (
	ResourceUnknown ResourceType = iota
	ResourceEqp
	ResourceEqdp
	ResourceImc
	ResourceEst
	ResourceGmp
	ResourceCmp
	ResourcePbd
)

var resourceExtensions = map[ResourceType]string{
	ResourceEqp:  "eqp",
	ResourceEqdp: "eqdp",
	ResourceImc:  "imc",
	ResourceEst:  "est",
	ResourceGmp:  "gmp",
	ResourceCmp:  "cmp",
	ResourcePbd:  "pbd",
}

// String returns the file extension for the type.
func (t ResourceType) String() string {
	if ext, ok := resourceExtensions[t]; ok {
		return ext
	}
	return "unknown"
}

// TypeOf derives the resource type from the path's extension.
func TypeOf(path string) ResourceType {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return ResourceUnknown
	}
	ext := strings.ToLower(path[dot+1:])
	for t, e := range resourceExtensions {
		if e == ext {
			return t
		}
	}
	return ResourceUnknown
}

// IsMetaTable reports whether resources of this type can carry manipulations.
func (t ResourceType) IsMetaTable() bool {
	switch t {
	case ResourceEqp, ResourceEqdp, ResourceImc, ResourceEst, ResourceGmp, ResourceCmp:
		return true
	}
	return false
}
