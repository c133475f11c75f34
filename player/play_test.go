package player

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
)

func TestReadBlockPosRoundTrip(t *testing.T) {
	want := vecmath.Vec3I{X: 123, Y: 45, Z: -678}
	packed := int64(uint64(want.X&0x3FFFFFF)<<38 | uint64(want.Z&0x3FFFFFF)<<12 | uint64(want.Y&0xFFF))

	buf := &bytes.Buffer{}
	writeInt64(buf, packed)
	got, err := readBlockPos(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func testDimensionForPlay() dimension.Handle {
	return dimension.Spawn(dimension.Config{
		ID:          component.MinecraftId("overworld"),
		MinSection:  -4,
		MaxSection:  19,
		ChunkMax:    vecmath.ChunkPos{X: 32, Z: 32},
		StateTable:  chunkdata.NewStateTable(),
		EntityAlloc: &actor.Counter{},
	})
}

func TestApplyMoveGatedByTeleportSync(t *testing.T) {
	dim := testDimensionForPlay()
	id, entityID, err := dim.SpawnEntity(component.MinecraftId("player"), true)
	require.NoError(t, err)

	c := &Connection{
		selfDim: dim,
		joined:  true,
		assoc:   newAssociatedData(id, "steve", entityID, 10),
	}
	c.assoc.teleportSyncSent = 1
	c.assoc.teleportSyncReceived = 0

	c.applyMove(vecmath.Vec3F{X: 5, Y: 5, Z: 5})

	comps, err := dim.Components(id)
	require.NoError(t, err)
	require.Equal(t, vecmath.Vec3F{}, component.GetOr(comps, dimension.CompPosition, vecmath.Vec3F{}))

	c.assoc.teleportSyncReceived = 1
	c.applyMove(vecmath.Vec3F{X: 5, Y: 5, Z: 5})

	comps, err = dim.Components(id)
	require.NoError(t, err)
	require.Equal(t, vecmath.Vec3F{X: 5, Y: 5, Z: 5}, component.GetOr(comps, dimension.CompPosition, vecmath.Vec3F{}))
}

func TestHandleAcceptTeleportationRecordsAcknowledgedID(t *testing.T) {
	c := &Connection{assoc: newAssociatedData(uuid.New(), "steve", 1, 10)}
	c.assoc.teleportSyncSent = 3

	buf := &bytes.Buffer{}
	_ = writeUVarInt(buf, 2)
	c.handleAcceptTeleportation(bytes.NewReader(buf.Bytes()))
	require.Equal(t, int32(2), c.assoc.teleportSyncReceived)

	buf = &bytes.Buffer{}
	_ = writeUVarInt(buf, 3)
	c.handleAcceptTeleportation(bytes.NewReader(buf.Bytes()))
	require.Equal(t, int32(3), c.assoc.teleportSyncReceived)
}
