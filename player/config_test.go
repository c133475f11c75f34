package player

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/registry"
)

func TestBeginConfigEndsWithFinishConfiguration(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	c := &Connection{
		conn:       serverSide,
		framer:     NewFramer(),
		registries: registry.NewBuilder().AddDefaults().Build(),
	}

	var frames [][]byte
	readDone := make(chan struct{})
	go func() {
		reader := NewFramer()
		for i := 0; i < len(registry.AllKinds)+2; i++ {
			frame, err := reader.ReadFrame(clientSide)
			if err != nil {
				break
			}
			frames = append(frames, frame)
		}
		close(readDone)
	}()

	c.beginConfig()
	<-readDone

	require.Len(t, frames, len(registry.AllKinds)+2)

	last := frames[len(frames)-1]
	id, err := readUVarInt(bytes.NewReader(last))
	require.NoError(t, err)
	require.Equal(t, int32(packetFinishConfigOut), id)
}

func TestBeginConfigPushesResourcePackBeforeFinish(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	defer clientSide.Close()

	c := &Connection{
		conn:         serverSide,
		framer:       NewFramer(),
		resourcePack: &ResourcePackRequest{URL: "https://example.com/pack.zip", Hash: "abc", Forced: true},
	}

	var frames [][]byte
	readDone := make(chan struct{})
	go func() {
		reader := NewFramer()
		for i := 0; i < 3; i++ {
			frame, err := reader.ReadFrame(clientSide)
			if err != nil {
				break
			}
			frames = append(frames, frame)
		}
		close(readDone)
	}()

	c.beginConfig()
	<-readDone

	require.Len(t, frames, 3)
	resourcePackID, err := readUVarInt(bytes.NewReader(frames[1]))
	require.NoError(t, err)
	require.Equal(t, int32(packetResourcePackPush), resourcePackID)

	finishID, err := readUVarInt(bytes.NewReader(frames[2]))
	require.NoError(t, err)
	require.Equal(t, int32(packetFinishConfigOut), finishID)
}
