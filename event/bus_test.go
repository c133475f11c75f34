package event

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/component"
)

func TestDispatchSyncRunsHandlersInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)
	var order []int

	AddHandler(bus, func(e ChatEvent) error {
		order = append(order, 1)
		return nil
	})
	AddHandler(bus, func(e ChatEvent) error {
		order = append(order, 2)
		return nil
	})

	DispatchSync(bus, ChatEvent{Message: "hi"})

	require.Equal(t, []int{1, 2}, order)
}

func TestDispatchSyncOnlyFiresHandlersForTheDispatchedType(t *testing.T) {
	bus := NewBus(nil)
	chatFired := false
	commandFired := false

	AddHandler(bus, func(e ChatEvent) error {
		chatFired = true
		return nil
	})
	AddHandler(bus, func(e PlayerCommandEvent) error {
		commandFired = true
		return nil
	})

	DispatchSync(bus, ChatEvent{Message: "hi"})

	require.True(t, chatFired)
	require.False(t, commandFired)
}

func TestDispatchSyncHandlerErrorDoesNotStopLaterHandlers(t *testing.T) {
	bus := NewBus(nil)
	ranSecond := false

	AddHandler(bus, func(e ChatEvent) error {
		return errors.New("boom")
	})
	AddHandler(bus, func(e ChatEvent) error {
		ranSecond = true
		return nil
	})

	require.NotPanics(t, func() {
		DispatchSync(bus, ChatEvent{Message: "hi"})
	})
	require.True(t, ranSecond)
}

func TestDispatchRunsHandlersAsynchronously(t *testing.T) {
	bus := NewBus(nil)
	var wg sync.WaitGroup
	wg.Add(1)
	release := make(chan struct{})

	AddHandler(bus, func(e ChatEvent) error {
		defer wg.Done()
		<-release
		return nil
	})

	returned := make(chan struct{})
	go func() {
		Dispatch(bus, ChatEvent{Message: "hi"})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch waited for its handler")
	}
	close(release)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPlayerJoinEventOverrideRequiresPointerDispatch(t *testing.T) {
	bus := NewBus(nil)
	nether := component.MinecraftId("nether")
	AddHandler(bus, func(e *PlayerJoinEvent) error {
		e.Dimension = &nether
		return nil
	})

	join := &PlayerJoinEvent{Player: PlayerRef{Username: "steve"}}
	DispatchSync(bus, join)

	require.NotNil(t, join.Dimension)
	require.Equal(t, nether, *join.Dimension)
}

func TestPlayerJoinEventByValueDispatchCannotBeObservedByCaller(t *testing.T) {
	bus := NewBus(nil)
	nether := component.MinecraftId("nether")
	AddHandler(bus, func(e PlayerJoinEvent) error {
		e.Dimension = &nether
		return nil
	})

	join := PlayerJoinEvent{Player: PlayerRef{Username: "steve"}}
	DispatchSync(bus, join)

	require.Nil(t, join.Dimension, "a by-value handler can only mutate its own copy")
}
