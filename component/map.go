package component

import (
	"reflect"

	"github.com/oriumgames/wyvern/actor"
)

// ComponentType is a typed key: an Id carrying a phantom type tag. Equality
// between two ComponentType values of the same T is by Id only.
type ComponentType[T any] struct {
	id Id
}

// NewComponentType builds a typed key over id.
func NewComponentType[T any](id Id) ComponentType[T] {
	return ComponentType[T]{id: id}
}

// Id returns the key's underlying Id.
func (c ComponentType[T]) Id() Id {
	return c.id
}

type entry struct {
	value any
	typ   reflect.Type
}

// Map is the heterogeneous, type-indexed property map attached to every
// entity, block, item, and player. The concrete type stored under a key is
// always the type of the ComponentType that produced it; a Get with a
// mismatched type parameter fails with ErrComponentNotFound rather than
// misinterpreting the stored value.
type Map struct {
	entries map[Id]entry
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{entries: make(map[Id]entry)}
}

// Clone returns a shallow copy: entries are copied, values are not deep
// copied (matching the source's clone-the-box-not-the-payload semantics).
func (m *Map) Clone() *Map {
	out := NewMap()
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}

// Contains reports whether id is present, regardless of type.
func (m *Map) Contains(id Id) bool {
	_, ok := m.entries[id]
	return ok
}

// ContainsType reports whether key's id is present and holds a T.
func ContainsType[T any](m *Map, key ComponentType[T]) bool {
	e, ok := m.entries[key.id]
	if !ok {
		return false
	}
	_, ok = e.value.(T)
	return ok
}

// Keys returns every id present in m, in no particular order.
func (m *Map) Keys() []Id {
	out := make([]Id, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Remove deletes id from m, if present.
func (m *Map) Remove(id Id) {
	delete(m.entries, id)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Set inserts or overwrites key's value. O(1) expected.
func Set[T any](m *Map, key ComponentType[T], v T) {
	m.entries[key.id] = entry{value: v, typ: reflect.TypeOf(v)}
}

// With is the builder form of Set: it mutates and returns m, so callers can
// chain component.With(component.With(m, a, 1), b, "x").
func With[T any](m *Map, key ComponentType[T], v T) *Map {
	Set(m, key, v)
	return m
}

// Get returns a copy of the value stored under key. Fails with
// ErrComponentNotFound if absent, or if the stored type tag doesn't match T.
func Get[T any](m *Map, key ComponentType[T]) (T, error) {
	var zero T
	e, ok := m.entries[key.id]
	if !ok {
		return zero, actor.NewError(actor.ErrComponentNotFound, "no component %s", key.id)
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, actor.NewError(actor.ErrComponentNotFound, "component %s has wrong type", key.id)
	}
	return v, nil
}

// GetOr returns the stored value or fallback if absent/mismatched.
func GetOr[T any](m *Map, key ComponentType[T], fallback T) T {
	v, err := Get(m, key)
	if err != nil {
		return fallback
	}
	return v
}

// typeOfAny is a free-function helper since reflect.TypeOf needs no type
// parameter but entry.typ is populated from generic Set call sites too.
func typeOfAny(v any) reflect.Type {
	return reflect.TypeOf(v)
}

// equal compares two erased values using the concrete type's equality.
// Values of different concrete types are always unequal.
func (e entry) equal(other entry) bool {
	if e.typ != other.typ {
		return false
	}
	return reflect.DeepEqual(e.value, other.value)
}
