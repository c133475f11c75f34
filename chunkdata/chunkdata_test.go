package chunkdata

import (
	"testing"

	"github.com/oriumgames/wyvern/component"
	"github.com/stretchr/testify/require"
)

func TestBlockCountTracksNonAirEntries(t *testing.T) {
	s := NewSection()
	require.True(t, s.IsEmpty())

	require.NoError(t, s.SetBlockAt(1, 2, 3, 5, nil))
	require.EqualValues(t, 1, s.BlockCount)

	require.NoError(t, s.SetBlockAt(1, 2, 3, 0, nil))
	require.EqualValues(t, 0, s.BlockCount)
	require.True(t, s.IsEmpty())
}

func TestSectionRoundTrip(t *testing.T) {
	s := NewSection()
	require.NoError(t, s.SetBlockAt(4, 5, 6, 42, map[string]any{"k": "v"}))

	id, nbt, err := s.GetBlockAt(4, 5, 6)
	require.NoError(t, err)
	require.EqualValues(t, 42, id)
	require.Equal(t, "v", nbt["k"])
}

func TestPackedRoundTrip(t *testing.T) {
	s := NewSection()
	require.NoError(t, s.SetBlockAt(0, 0, 0, 100, nil))
	require.NoError(t, s.SetBlockAt(15, 15, 15, 200, nil))

	packed := s.Packed()
	s2 := NewSection()
	s2.LoadPacked(packed)

	id, _, err := s2.GetBlockAt(0, 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 100, id)

	id, _, err = s2.GetBlockAt(15, 15, 15)
	require.NoError(t, err)
	require.EqualValues(t, 200, id)
	require.EqualValues(t, 2, s2.BlockCount)
}

func TestStateTableRoundTrip(t *testing.T) {
	table := NewStateTable()
	stone := BlockState{Name: component.MinecraftId("stone")}
	id := table.Register(stone)
	require.NotEqual(t, int32(0), id) // air already holds 0

	got, err := table.State(id)
	require.NoError(t, err)
	require.Equal(t, stone, got)
}

func TestBlockStateWithPropertyReplacesInPlace(t *testing.T) {
	s := BlockState{Name: component.MinecraftId("oak_stairs")}
	s = s.WithProperty("facing", "north")
	s = s.WithProperty("facing", "south")

	require.Len(t, s.Properties, 1)
	require.Equal(t, "south", s.Properties[0].Value)
}

func TestChunkSetGetBlockAcrossSections(t *testing.T) {
	c := NewChunk(0, 0, -4, 19)
	resolve := func(name component.Id) (component.Id, bool) { return component.Id{}, false }

	require.NoError(t, c.SetBlock(1, -50, 1, 7, nil, component.MinecraftId("stone"), resolve))
	id, _, err := c.GetBlock(1, -50, 1)
	require.NoError(t, err)
	require.EqualValues(t, 7, id)
}

func TestChunkOutOfRangeYFails(t *testing.T) {
	c := NewChunk(0, 0, 0, 15)
	resolve := func(name component.Id) (component.Id, bool) { return component.Id{}, false }
	err := c.SetBlock(0, 10000, 0, 1, nil, component.MinecraftId("stone"), resolve)
	require.Error(t, err)
}
