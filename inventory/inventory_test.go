package inventory

import (
	"testing"

	"github.com/oriumgames/wyvern/component"
	"github.com/stretchr/testify/require"
)

func TestDataInventoryMissingSlotFails(t *testing.T) {
	inv := NewDataInventory()
	_, err := inv.GetSlot(5)
	require.Error(t, err)
}

func TestDataInventorySetGetRoundTrip(t *testing.T) {
	inv := NewDataInventory()
	stone := NewItemStack(component.MinecraftId("stone"))
	require.NoError(t, inv.SetSlot(0, stone))

	got, err := inv.GetSlot(0)
	require.NoError(t, err)
	require.Equal(t, component.MinecraftId("stone"), got.Kind())
	require.EqualValues(t, 1, got.Count())
}

func TestItemStackWithCount(t *testing.T) {
	stack := NewItemStack(component.MinecraftId("dirt")).WithCount(12)
	require.EqualValues(t, 12, stack.Count())
}

func TestAirIsAir(t *testing.T) {
	require.True(t, Air().IsAir())
	require.False(t, NewItemStack(component.MinecraftId("stone")).IsAir())
}
