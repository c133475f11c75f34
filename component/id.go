// Package component implements the heterogeneous, type-indexed property map
// attached to every entity, block, item, and player, plus the patch
// computation that drives all downstream client synchronization.
package component

import "fmt"

// Id is a namespaced identifier, the universal key type for everything
// addressable in wyvern: component keys, block/item/entity types, registry
// entries.
type Id struct {
	Namespace string
	Path      string
}

// Empty is the sentinel "no id" value.
var Empty = Id{}

// Constant builds an Id from literal parts, used for compile-time-known
// identifiers such as "minecraft:air".
func Constant(namespace, path string) Id {
	return Id{Namespace: namespace, Path: path}
}

// MinecraftId builds an Id in the "minecraft" namespace.
func MinecraftId(path string) Id {
	return Constant("minecraft", path)
}

// String renders the display form "namespace:path".
func (id Id) String() string {
	return fmt.Sprintf("%s:%s", id.Namespace, id.Path)
}

// IsEmpty reports whether id is the sentinel empty value.
func (id Id) IsEmpty() bool {
	return id == Empty
}

// ParseId splits "namespace:path" into an Id. A string with no colon is
// treated as an implicit "minecraft" namespace.
func ParseId(s string) Id {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Id{Namespace: s[:i], Path: s[i+1:]}
		}
	}
	return Id{Namespace: "minecraft", Path: s}
}
