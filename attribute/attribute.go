// Package attribute implements the typed attribute-id -> f64 map rendered
// into a single outbound UpdateAttributes packet.
package attribute

// Id is a protocol-level attribute id. Values are carried over from the
// original source's wire ids, which spec.md's behavior description leaves
// implicit.
type Id uint32

const (
	AttackSpeed Id = 0x04
	MaxHealth   Id = 0x10
	FollowRange Id = 0x0A
)

// Entry is a single attribute's base value, used when rendering the
// UpdateAttributes packet payload.
type Entry struct {
	ID    Id
	Value float64
}

// Container is a typed map from attribute id to f64, only rendering
// entries that are actually present.
type Container struct {
	values map[Id]float64
}

// NewContainer returns an empty attribute container.
func NewContainer() *Container {
	return &Container{values: make(map[Id]float64)}
}

// Set assigns id's value.
func (c *Container) Set(id Id, value float64) {
	c.values[id] = value
}

// Get returns id's value and whether it's present.
func (c *Container) Get(id Id) (float64, bool) {
	v, ok := c.values[id]
	return v, ok
}

// Entries renders every present attribute as a packet-ready Entry list, in
// a stable order (AttackSpeed, MaxHealth, FollowRange) so the emitted
// UpdateAttributes packet is deterministic across calls.
func (c *Container) Entries() []Entry {
	var out []Entry
	for _, id := range []Id{AttackSpeed, MaxHealth, FollowRange} {
		if v, ok := c.values[id]; ok {
			out = append(out, Entry{ID: id, Value: v})
		}
	}
	return out
}
