package player

import (
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/vecmath"
)

func testJoinDimension(id component.Id) dimension.Handle {
	return dimension.Spawn(dimension.Config{
		ID:          id,
		MinSection:  -4,
		MaxSection:  19,
		ChunkMax:    vecmath.ChunkPos{X: 32, Z: 32},
		StateTable:  chunkdata.NewStateTable(),
		EntityAlloc: &actor.Counter{},
	})
}

func TestConnectToNewDimensionUsesEventOverride(t *testing.T) {
	overworld := testJoinDimension(component.MinecraftId("overworld"))
	nether := testJoinDimension(component.MinecraftId("nether"))

	bus := event.NewBus(nil)
	event.AddHandler(bus, func(e *event.PlayerJoinEvent) error {
		id := component.MinecraftId("nether")
		e.Dimension = &id
		return nil
	})

	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	c := &Connection{
		conn:           serverSide,
		framer:         NewFramer(),
		components:     component.NewMap(),
		lastComponents: component.NewMap(),
		events:         bus,
		log:            logrus.NewEntry(logrus.New()),
		pendingName:    "steve",
		resolveDim: func(override *component.Id) (dimension.Handle, error) {
			if override != nil && *override == component.MinecraftId("nether") {
				return nether, nil
			}
			return overworld, nil
		},
		renderDistance: 8,
	}
	c.self = Handle{inner: actor.Spawn(1, func() {}, func(message) {})}

	reader := NewFramer()
	go func() {
		_, _ = reader.ReadFrame(clientSide)
		_, _ = reader.ReadFrame(clientSide)
		_, _ = reader.ReadFrame(clientSide)
	}()

	c.connectToNewDimension()

	require.True(t, c.joined)
	_, err := nether.Components(c.assoc.uuid)
	require.NoError(t, err, "event override should have routed the join to the nether dimension")
	_, err = overworld.Components(c.assoc.uuid)
	require.Error(t, err, "the default dimension should never have received this entity")
	require.Equal(t, int32(8), c.assoc.renderDistance)
}
