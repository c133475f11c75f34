package actor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type echoMsg struct {
	value int
	reply chan int
}

func TestCallRoundTrip(t *testing.T) {
	h := Spawn(8, nil, func(m echoMsg) {
		m.reply <- m.value * 2
	})

	reply := NewReply[int]()
	got, err := Call(h, echoMsg{value: 21, reply: reply}, reply)
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestCallAfterStopFails(t *testing.T) {
	h := Spawn(8, nil, func(m echoMsg) {
		m.reply <- m.value
	})
	h.Stop()

	reply := NewReply[int]()
	_, err := Call(h, echoMsg{value: 1, reply: reply}, reply)
	require.ErrorIs(t, err, DoesNotExist)
}

func TestWeakHandleUpgrade(t *testing.T) {
	h := Spawn(8, nil, func(m echoMsg) {
		m.reply <- m.value
	})
	weak := h.Weak()
	strong := weak.Upgrade()

	reply := NewReply[int]()
	got, err := Call(strong, echoMsg{value: 7, reply: reply}, reply)
	require.NoError(t, err)
	require.Equal(t, 7, got)
}

func TestCounterIsMonotoneAndZeroBased(t *testing.T) {
	var c Counter
	require.Equal(t, uint32(0), c.Next())
	require.Equal(t, uint32(1), c.Next())
	require.Equal(t, uint32(2), c.Next())
}
