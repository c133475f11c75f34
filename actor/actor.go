package actor

import (
	"sync/atomic"
	"time"
)

// burstLimit bounds how many inbound messages a single event-loop pass
// drains before it checks its tick timer and yields, so one busy actor
// cannot starve the scheduler.
const burstLimit = 512

// Handle is a strong, cloneable reference to a running actor's mailbox.
// Holding a Handle keeps the actor reachable; callers that only need a
// non-owning reference should call Weak instead.
type Handle[M any] struct {
	mailbox *mailbox[M]
}

// WeakHandle is a non-owning reference to an actor's mailbox. Upgrading a
// WeakHandle never fails, even after the actor has exited; a Send or Call
// through the upgraded Handle then fails with ErrActorDoesNotExist.
type WeakHandle[M any] struct {
	mailbox *mailbox[M]
}

type mailbox[M any] struct {
	in     chan M
	closed atomic.Bool
	done   chan struct{}
}

// TickInterval is the actor event loop's periodic tick period (spec: "≥ 50
// ms since the last tick").
const TickInterval = 50 * time.Millisecond

// Spawn starts a new actor goroutine and returns a Handle to it. onMessage
// is invoked once per inbound message, in send order. If onTick is non-nil
// it is invoked whenever TickInterval has elapsed since the loop last ran
// it, interleaved between message bursts.
func Spawn[M any](bufSize int, onTick func(), onMessage func(M)) Handle[M] {
	mb := &mailbox[M]{in: make(chan M, bufSize), done: make(chan struct{})}
	go runLoop(mb, onMessage, onTick)
	return Handle[M]{mailbox: mb}
}

func runLoop[M any](mb *mailbox[M], onMessage func(M), onTick func()) {
	defer close(mb.done)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	if onTick != nil {
		ticker = time.NewTicker(TickInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		drained := 0
		for drained < burstLimit {
			select {
			case msg, ok := <-mb.in:
				if !ok {
					return
				}
				onMessage(msg)
				drained++
				continue
			default:
			}
			break
		}

		if onTick == nil {
			msg, ok := <-mb.in
			if !ok {
				return
			}
			onMessage(msg)
			continue
		}

		select {
		case msg, ok := <-mb.in:
			if !ok {
				return
			}
			onMessage(msg)
		case <-tickC:
			onTick()
		}
	}
}

// Send enqueues a message without waiting for a reply. Returns
// ErrActorDoesNotExist if the actor has exited.
func (h Handle[M]) Send(msg M) error {
	return send(h.mailbox, msg)
}

// Weak produces a non-owning WeakHandle.
func (h Handle[M]) Weak() WeakHandle[M] {
	return WeakHandle[M]{mailbox: h.mailbox}
}

// Stop closes the actor's mailbox, causing its loop to exit after draining
// pending messages.
func (h Handle[M]) Stop() {
	if h.mailbox.closed.CompareAndSwap(false, true) {
		close(h.mailbox.in)
	}
}

// Upgrade attempts to recover a strong Handle from a WeakHandle. It never
// fails by itself (the mailbox struct always exists); liveness is only
// observed when a Send/Call is attempted against a closed mailbox.
func (w WeakHandle[M]) Upgrade() Handle[M] {
	return Handle[M]{mailbox: w.mailbox}
}

func send[M any](mb *mailbox[M], msg M) (err error) {
	defer func() {
		if recover() != nil {
			err = DoesNotExist
		}
	}()
	select {
	case <-mb.done:
		return DoesNotExist
	default:
	}
	select {
	case mb.in <- msg:
		return nil
	case <-mb.done:
		return DoesNotExist
	}
}

// Call sends req (already carrying its reply channel, by convention field
// name Reply) and blocks until a reply arrives or the actor dies. Allocate
// the reply channel with NewReply, embed it in req, and pass it here too.
func Call[M any, R any](h Handle[M], req M, reply chan R) (R, error) {
	if err := send(h.mailbox, req); err != nil {
		var zero R
		return zero, err
	}
	select {
	case resp := <-reply:
		return resp, nil
	case <-h.mailbox.done:
		var zero R
		return zero, DoesNotExist
	}
}

// NewReply allocates the one-shot reply channel a Call-style message
// embeds.
func NewReply[R any]() chan R {
	return make(chan R, 1)
}

// Counter is a process-wide monotone allocator, used for the entity-id
// allocator. It uses atomic increment per the concurrency model: no locks
// on actor-owned state, but this counter is genuinely shared across actors.
type Counter struct {
	value atomic.Uint32
}

// Next returns the next value, starting at 0.
func (c *Counter) Next() uint32 {
	return c.value.Add(1) - 1
}
