package player

import (
	"bytes"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testConnection(t *testing.T) (*Connection, net.Conn) {
	serverSide, clientSide := net.Pipe()
	t.Cleanup(func() { serverSide.Close(); clientSide.Close() })
	return &Connection{
		conn:   serverSide,
		framer: NewFramer(),
		log:    logrus.NewEntry(logrus.New()),
	}, clientSide
}

func TestHandshakeToStatus(t *testing.T) {
	c, _ := testConnection(t)
	buf := &bytes.Buffer{}
	_ = writeUVarInt(buf, 769)
	writeString(buf, "localhost")
	buf.Write([]byte{0x63, 0xDD})
	_ = writeUVarInt(buf, 1)

	c.handleHandshakePacket(packetHandshake, bytes.NewReader(buf.Bytes()))
	require.Equal(t, StageStatus, c.stage)
}

func TestHandshakeToLogin(t *testing.T) {
	c, _ := testConnection(t)
	buf := &bytes.Buffer{}
	_ = writeUVarInt(buf, 769)
	writeString(buf, "localhost")
	buf.Write([]byte{0x63, 0xDD})
	_ = writeUVarInt(buf, 2)

	c.handleHandshakePacket(packetHandshake, bytes.NewReader(buf.Bytes()))
	require.Equal(t, StageLogin, c.stage)
}

func TestHandleStatusRequestRespondsWithStatusResponse(t *testing.T) {
	c, client := testConnection(t)
	reader := NewFramer()
	done := make(chan []byte)
	go func() {
		frame, err := reader.ReadFrame(client)
		require.NoError(t, err)
		done <- frame
	}()

	c.handleStatusPacket(packetStatusRequest, bytes.NewReader(nil))
	frame := <-done
	id, err := readUVarInt(bytes.NewReader(frame))
	require.NoError(t, err)
	require.Equal(t, int32(packetStatusResponse), id)
}

func TestHandleConfigClientInformationClampsRenderDistance(t *testing.T) {
	c, _ := testConnection(t)
	c.renderDistance = 10

	buf := &bytes.Buffer{}
	writeString(buf, "en_us")
	buf.WriteByte(4)
	c.handleClientInformation(bytes.NewReader(buf.Bytes()))

	require.Equal(t, int32(4), c.renderDistance)
}

func TestHandleConfigClientInformationIgnoresLargerViewDistance(t *testing.T) {
	c, _ := testConnection(t)
	c.renderDistance = 6

	buf := &bytes.Buffer{}
	writeString(buf, "en_us")
	buf.WriteByte(20)
	c.handleClientInformation(bytes.NewReader(buf.Bytes()))

	require.Equal(t, int32(6), c.renderDistance)
}
