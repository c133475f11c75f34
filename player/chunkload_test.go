package player

import (
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
)

func testDimensionForChunkload() dimension.Handle {
	return dimension.Spawn(dimension.Config{
		ID:          component.MinecraftId("overworld"),
		MinSection:  -4,
		MaxSection:  19,
		ChunkMax:    vecmath.ChunkPos{X: 32, Z: 32},
		StateTable:  chunkdata.NewStateTable(),
		EntityAlloc: &actor.Counter{},
	})
}

func TestNextChunkCandidateSkipsLoadedAndPrefersNearest(t *testing.T) {
	c := &Connection{assoc: newAssociatedData(uuid.New(), "steve", 1, 2)}
	c.assoc.loadedChunks[vecmath.ChunkPos{X: 0, Z: 0}] = struct{}{}

	got, ok := c.nextChunkCandidate(vecmath.ChunkPos{X: 0, Z: 0})
	require.True(t, ok)
	require.NotEqual(t, vecmath.ChunkPos{X: 0, Z: 0}, got)
	require.Equal(t, int32(1), vecmath.IsqrtDistance(got.X, got.Z))
}

func TestNextChunkCandidateExhausted(t *testing.T) {
	c := &Connection{assoc: newAssociatedData(uuid.New(), "steve", 1, 0)}
	c.assoc.loadedChunks[vecmath.ChunkPos{X: 0, Z: 0}] = struct{}{}

	_, ok := c.nextChunkCandidate(vecmath.ChunkPos{X: 0, Z: 0})
	require.False(t, ok)
}

func TestStreamChunksSendsOneChunkPerTick(t *testing.T) {
	dim := testDimensionForChunkload()
	id, entityID, err := dim.SpawnEntity(component.MinecraftId("player"), true)
	require.NoError(t, err)

	conn1, conn2 := net.Pipe()
	defer conn1.Close()
	defer conn2.Close()

	c := &Connection{
		conn:    conn1,
		framer:  NewFramer(),
		joined:  true,
		selfDim: dim,
		assoc:   newAssociatedData(id, "steve", entityID, 3),
	}

	done := make(chan struct{})
	go func() {
		reader := NewFramer()
		_, _ = reader.ReadFrame(conn2)
		close(done)
	}()

	c.streamChunks()
	<-done
	require.Len(t, c.assoc.loadedChunks, 1)
}
