package inventory

import "github.com/oriumgames/wyvern/actor"

// Inventory is a slot-indexed item container.
type Inventory interface {
	GetSlot(slot int) (ItemStack, error)
	SetSlot(slot int, item ItemStack) error
}

// DataInventory is the base in-memory Inventory: a sparse slot map,
// grounded on the original source's DataInventory (a plain
// HashMap<usize, ItemStack> with IndexOutOfBounds on a miss).
type DataInventory struct {
	slots map[int]ItemStack
}

// NewDataInventory returns an inventory with no slots populated; GetSlot
// on an unset index returns ErrIndexOutOfBounds.
func NewDataInventory() *DataInventory {
	return &DataInventory{slots: make(map[int]ItemStack)}
}

// NewFilledDataInventory returns an inventory with slots [0, n) populated
// by calling f once per slot.
func NewFilledDataInventory(n int, f func() ItemStack) *DataInventory {
	inv := NewDataInventory()
	for i := 0; i < n; i++ {
		inv.slots[i] = f()
	}
	return inv
}

// GetSlot returns the item at slot, or ErrIndexOutOfBounds if unset.
func (d *DataInventory) GetSlot(slot int) (ItemStack, error) {
	item, ok := d.slots[slot]
	if !ok {
		return ItemStack{}, actor.NewError(actor.ErrIndexOutOfBounds, "no item at slot %d", slot)
	}
	return item, nil
}

// SetSlot overwrites slot's contents.
func (d *DataInventory) SetSlot(slot int, item ItemStack) error {
	d.slots[slot] = item
	return nil
}

// ScreenKind identifies the kind of overlay inventory a player has open.
type ScreenKind int

const (
	ScreenNone ScreenKind = iota
	ScreenChest
	ScreenFurnace
	ScreenCraftingTable
	ScreenAnvil
)

// Screen layers an overlay inventory on top of a player's base inventory
// while it's open.
type Screen struct {
	Kind      ScreenKind
	Inventory *DataInventory
}

// SlotCount returns how many slots kind's own overlay inventory occupies,
// before the base inventory's hotbar/upper regions begin in a ContainerClick
// packet's slot numbering.
func (k ScreenKind) SlotCount() int {
	switch k {
	case ScreenChest:
		return 27
	case ScreenFurnace:
		return 3
	case ScreenCraftingTable:
		return 10
	case ScreenAnvil:
		return 3
	default:
		return 0
	}
}
