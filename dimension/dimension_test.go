package dimension

import (
	"testing"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
	"github.com/stretchr/testify/require"
)

func testDimension() Handle {
	genCalls := 0
	return Spawn(Config{
		ID:          component.MinecraftId("overworld"),
		MinSection:  -4,
		MaxSection:  19,
		ChunkMax:    vecmath.ChunkPos{X: 32, Z: 32},
		StateTable:  chunkdata.NewStateTable(),
		EntityAlloc: &actor.Counter{},
		Generator: func(c *chunkdata.Chunk, x, z int32) {
			genCalls++
		},
	})
}

func TestSetBlockRoundTrip(t *testing.T) {
	d := testDimension()
	pos := vecmath.Vec3I{X: 1, Y: 5, Z: 1}
	stone := chunkdata.BlockState{Name: component.MinecraftId("stone")}

	require.NoError(t, d.SetBlock(pos, stone, nil))

	got, err := d.GetBlock(pos)
	require.NoError(t, err)
	require.Equal(t, stone, got)
}

func TestSetBlockOutsideChunkMaxIsDropped(t *testing.T) {
	d := testDimension()
	pos := vecmath.Vec3I{X: 16 * 1000, Y: 5, Z: 0}
	stone := chunkdata.BlockState{Name: component.MinecraftId("stone")}

	require.NoError(t, d.SetBlock(pos, stone, nil))

	got, err := d.GetBlock(pos)
	require.NoError(t, err)
	require.Equal(t, chunkdata.Air, got)
}

func TestSpawnEntityUniqueUUID(t *testing.T) {
	d := testDimension()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, _, err := d.SpawnEntity(component.MinecraftId("zombie"), false)
		require.NoError(t, err)
		require.False(t, seen[id.String()])
		seen[id.String()] = true
	}
}

func TestChunkSnapshotGeneratesOnce(t *testing.T) {
	d := testDimension()
	pos := vecmath.ChunkPos{X: 3, Z: 3}

	c1, err := d.ChunkSnapshot(pos)
	require.NoError(t, err)
	c2, err := d.ChunkSnapshot(pos)
	require.NoError(t, err)
	require.Same(t, c1, c2)
}
