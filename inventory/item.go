// Package inventory implements ItemStack (a component-backed item payload)
// and the slot-indexed Inventory abstraction, with an optional open-screen
// overlay inventory layered on top.
package inventory

import "github.com/oriumgames/wyvern/component"

// CompItemCount and CompItemModel mirror the original source's default
// components every freshly-constructed ItemStack carries.
var (
	CompItemCount = component.NewComponentType[int32](component.MinecraftId("item_count"))
	CompItemModel = component.NewComponentType[component.Id](component.MinecraftId("item_model"))
)

// ItemStack is an item identity plus its component map (count, custom
// name, enchantments, and so on).
type ItemStack struct {
	id  component.Id
	Map *component.Map
}

// NewItemStack builds a stack of 1 for id, with item_count and item_model
// defaulted.
func NewItemStack(id component.Id) ItemStack {
	m := component.NewMap()
	component.Set(m, CompItemCount, int32(1))
	component.Set(m, CompItemModel, id)
	return ItemStack{id: id, Map: m}
}

// Air is the empty-slot stack.
func Air() ItemStack {
	return NewItemStack(component.MinecraftId("air"))
}

// Kind returns the stack's item id.
func (s ItemStack) Kind() component.Id {
	return s.id
}

// Count returns the stack's item_count component, defaulting to 0 if
// absent.
func (s ItemStack) Count() int32 {
	return component.GetOr(s.Map, CompItemCount, int32(0))
}

// WithCount returns a copy of s with item_count set to n.
func (s ItemStack) WithCount(n int32) ItemStack {
	m := s.Map.Clone()
	component.Set(m, CompItemCount, n)
	return ItemStack{id: s.id, Map: m}
}

// IsAir reports whether the stack is the empty-slot sentinel.
func (s ItemStack) IsAir() bool {
	return s.id == component.MinecraftId("air")
}
