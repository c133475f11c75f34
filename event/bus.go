// Package event implements the typed multi-handler dispatch bus: handlers
// are registered at build time. Dispatch fires each handler on its own
// background goroutine, so a slow handler can't stall the dispatcher;
// DispatchSync runs them in order on the caller's goroutine.
package event

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler processes an event value of type T and may fail; failures are
// logged and discarded rather than propagated, per spec.md §7's
// propagation policy for event handlers.
type Handler[T any] func(T) error

// Bus is an event-kind-indexed map of handler lists. The key is the
// event's reflect.Type, standing in for the source's per-kind macro
// expansion.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]func(any)
	log      *logrus.Entry
}

// NewBus returns an empty Bus. log may be nil, in which case
// logrus.StandardLogger() is used.
func NewBus(log *logrus.Entry) *Bus {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{handlers: make(map[reflect.Type][]func(any)), log: log}
}

// AddHandler registers h to run whenever an event of type T is dispatched.
func AddHandler[T any](b *Bus, h Handler[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := reflect.TypeOf((*T)(nil)).Elem()
	wrapped := func(v any) {
		event, ok := v.(T)
		if !ok {
			return
		}
		if err := h(event); err != nil {
			b.log.WithError(err).WithField("event", t.Name()).Warn("event handler failed")
		}
	}
	b.handlers[t] = append(b.handlers[t], wrapped)
}

// Dispatch fires every registered handler for T's concrete type, each on
// its own goroutine, and returns immediately without waiting for them.
func Dispatch[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.RLock()
	handlers := append([]func(any){}, b.handlers[t]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		go h(event)
	}
}

// DispatchSync fires every registered handler for T's concrete type
// synchronously, in registration order, waiting for all to complete before
// returning. Used where handler ordering or completion matters to the
// caller (e.g. connect_to_new_dimension's join handshake).
func DispatchSync[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.RLock()
	handlers := append([]func(any){}, b.handlers[t]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}
