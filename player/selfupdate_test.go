package player

import (
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

func testSelfUpdateConnection(t *testing.T) (*Connection, net.Conn) {
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { serverSide.Close(); clientSide.Close() })
	c := &Connection{
		conn:           serverSide,
		framer:         NewFramer(),
		components:     component.NewMap(),
		lastComponents: component.NewMap(),
	}
	return c, clientSide
}

func drainOneFrame(t *testing.T, conn net.Conn) {
	t.Helper()
	reader := NewFramer()
	_, err := reader.ReadFrame(conn)
	require.NoError(t, err)
}

func TestApplySelfUpdateSendsPacketOnlyForChangedComponents(t *testing.T) {
	c, client := testSelfUpdateConnection(t)
	component.Set(c.components, CompHealth, float32(20))

	done := make(chan struct{})
	go func() {
		drainOneFrame(t, client)
		close(done)
	}()

	c.applySelfUpdate()
	<-done

	// Re-running with no further changes must send nothing: WriteFrame would
	// block forever on the unread pipe if it tried.
	c.applySelfUpdate()
}

func TestResolvePendingTeleportIncrementsSyncSent(t *testing.T) {
	c, client := testSelfUpdateConnection(t)
	c.assoc = newAssociatedData(uuid.New(), "steve", 1, 10)
	c.RequestTeleport(vecmath.Vec3F{X: 1, Y: 2, Z: 3})

	done := make(chan struct{})
	go func() {
		drainOneFrame(t, client)
		close(done)
	}()

	c.resolvePendingTeleport()
	<-done

	require.Equal(t, int32(1), c.assoc.teleportSyncSent)
	require.Nil(t, c.assoc.pendingTeleport)
}

func TestResolvePendingTeleportNoopWithoutPending(t *testing.T) {
	c, _ := testSelfUpdateConnection(t)
	c.assoc = newAssociatedData(uuid.New(), "steve", 1, 10)
	c.resolvePendingTeleport()
	require.Equal(t, int32(0), c.assoc.teleportSyncSent)
}
