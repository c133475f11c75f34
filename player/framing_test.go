package player

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripUncompressed(t *testing.T) {
	f := NewFramer()
	var buf bytes.Buffer
	payload := []byte("hello world")

	require.NoError(t, f.WriteFrame(&buf, payload))
	got, err := f.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameRoundTripCompressedLargePayload(t *testing.T) {
	f := NewFramer()
	f.EnableCompression()
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte("x"), 500)

	require.NoError(t, f.WriteFrame(&buf, payload))
	got, err := f.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameRoundTripCompressedSmallPayloadStaysUncompressed(t *testing.T) {
	f := NewFramer()
	f.EnableCompression()
	var buf bytes.Buffer
	payload := []byte("tiny")

	require.NoError(t, f.WriteFrame(&buf, payload))
	got, err := f.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFrameRoundTripEncrypted(t *testing.T) {
	key := bytes.Repeat([]byte{0x01}, 16)
	fw := NewFramer()
	require.NoError(t, fw.EnableEncryption(key))
	fr := NewFramer()
	require.NoError(t, fr.EnableEncryption(key))

	var buf bytes.Buffer
	payload := []byte("secret handshake")
	require.NoError(t, fw.WriteFrame(&buf, payload))

	got, err := fr.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, 127, 128, 300, 2097151, -1, -2147483648} {
		var buf bytes.Buffer
		require.NoError(t, writeUVarInt(&buf, v))
		require.Equal(t, uvarIntSize(v), buf.Len())
		got, err := readUVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}
