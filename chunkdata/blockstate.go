// Package chunkdata implements the paletted voxel storage the dimension
// engine builds on: block states, 16x16x16 sections, and the chunk stack
// of sections at a fixed (x,z).
package chunkdata

import (
	"sort"
	"strings"
	"sync"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/component"
)

// Property is a single (key, value) block-state property pair.
type Property struct {
	Key   string
	Value string
}

// BlockState is a block name plus an ordered list of properties.
type BlockState struct {
	Name       component.Id
	Properties []Property
}

// WithProperty returns a copy of s with key set to value, replacing an
// existing entry in place if key is already present.
func (s BlockState) WithProperty(key, value string) BlockState {
	props := make([]Property, len(s.Properties))
	copy(props, s.Properties)
	for i, p := range props {
		if p.Key == key {
			props[i].Value = value
			return BlockState{Name: s.Name, Properties: props}
		}
	}
	props = append(props, Property{Key: key, Value: value})
	return BlockState{Name: s.Name, Properties: props}
}

// canonicalKey returns a stable string key: name plus properties sorted by
// key, used both for the state table's lookup map and for equality.
func (s BlockState) canonicalKey() string {
	sorted := make([]Property, len(s.Properties))
	copy(sorted, s.Properties)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(s.Name.String())
	for _, p := range sorted {
		b.WriteByte(';')
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// Air is the default, empty block state: protocol id 0 in every StateTable.
var Air = BlockState{Name: component.MinecraftId("air")}

// StateTable is the global (name, sorted properties) <-> numeric protocol
// id table. A fresh table always registers Air as id 0.
type StateTable struct {
	mu      sync.RWMutex
	byKey   map[string]int32
	byId    []BlockState
	keyById []string
}

// NewStateTable returns a table with only Air registered.
func NewStateTable() *StateTable {
	t := &StateTable{byKey: make(map[string]int32)}
	t.Register(Air)
	return t
}

// Register assigns state a stable protocol id if it doesn't already have
// one, and returns that id.
func (t *StateTable) Register(state BlockState) int32 {
	key := state.canonicalKey()

	t.mu.RLock()
	if id, ok := t.byKey[key]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byKey[key]; ok {
		return id
	}
	id := int32(len(t.byId))
	t.byKey[key] = id
	t.byId = append(t.byId, state)
	t.keyById = append(t.keyById, key)
	return id
}

// Id looks up state's protocol id without registering it.
func (t *StateTable) Id(state BlockState) (int32, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byKey[state.canonicalKey()]
	return id, ok
}

// State reconstructs the BlockState for a protocol id.
func (t *StateTable) State(id int32) (BlockState, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || int(id) >= len(t.byId) {
		return BlockState{}, actor.NewError(actor.ErrIndexOutOfBounds, "no block state with id %d", id)
	}
	return t.byId[id], nil
}
