// Package registry holds the immutable vanilla registry snapshot (biomes,
// damage types, wolf/painting/cat/pig/chicken/frog variants, dimension
// types) built once at server start and cloned cheaply by reference.
package registry

import "github.com/oriumgames/wyvern/component"

// Entry is one registry entry: an id plus its opaque NBT-shaped payload.
type Entry struct {
	ID      component.Id
	Payload map[string]any
}

// Kind names one of the registries the Config substage serializes as a
// RegistryData packet.
type Kind string

const (
	Biome             Kind = "worldgen/biome"
	DamageType        Kind = "damage_type"
	WolfVariant       Kind = "wolf_variant"
	PaintingVariant   Kind = "painting_variant"
	DimensionType     Kind = "dimension_type"
	CatVariant        Kind = "cat_variant"
	PigVariant        Kind = "pig_variant"
	CowVariant        Kind = "cow_variant"
	ChickenVariant    Kind = "chicken_variant"
	FrogVariant       Kind = "frog_variant"
	WolfSoundVariant  Kind = "wolf_sound_variant"
)

// AllKinds is the ordered set of registries the Config substage sends,
// grounded on the original source's server/registries.rs.
var AllKinds = []Kind{
	Biome, DamageType, WolfVariant, PaintingVariant, DimensionType,
	CatVariant, PigVariant, CowVariant, ChickenVariant, FrogVariant,
	WolfSoundVariant,
}

// Container is the immutable registry snapshot. Once built it is treated
// as read-only and shared by reference across every connection actor.
type Container struct {
	entries map[Kind][]Entry
}

// Builder assembles a Container before the server starts.
type Builder struct {
	entries map[Kind][]Entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{entries: make(map[Kind][]Entry)}
}

// Add registers entry under kind.
func (b *Builder) Add(kind Kind, entry Entry) *Builder {
	b.entries[kind] = append(b.entries[kind], entry)
	return b
}

// AddDefaults populates every registry in AllKinds with the vanilla
// baseline entries, supplemented from the original source's
// RegistryContainerBuilder::add_defaults (spec.md names the registries a
// Config substage sends, but not how the default set is assembled).
func (b *Builder) AddDefaults() *Builder {
	b.Add(DimensionType, Entry{ID: component.MinecraftId("overworld"), Payload: map[string]any{
		"has_skylight":     uint8(1),
		"has_ceiling":      uint8(0),
		"ultrawarm":        uint8(0),
		"natural":          uint8(1),
		"coordinate_scale": float64(1),
		"min_y":            int32(-64),
		"height":           int32(384),
		"logical_height":   int32(384),
	}})
	b.Add(Biome, Entry{ID: component.MinecraftId("plains"), Payload: map[string]any{
		"has_precipitation": uint8(1),
		"temperature":       float32(0.8),
		"downfall":          float32(0.4),
	}})
	b.Add(DamageType, Entry{ID: component.MinecraftId("generic"), Payload: map[string]any{
		"message_id":  "generic",
		"scaling":     "when_caused_by_living_non_player",
		"exhaustion":  float32(0),
	}})
	b.Add(WolfVariant, Entry{ID: component.MinecraftId("pale"), Payload: map[string]any{}})
	b.Add(PaintingVariant, Entry{ID: component.MinecraftId("kebab"), Payload: map[string]any{
		"width": int32(1), "height": int32(1),
	}})
	b.Add(CatVariant, Entry{ID: component.MinecraftId("tabby"), Payload: map[string]any{}})
	b.Add(PigVariant, Entry{ID: component.MinecraftId("temperate"), Payload: map[string]any{}})
	b.Add(CowVariant, Entry{ID: component.MinecraftId("temperate"), Payload: map[string]any{}})
	b.Add(ChickenVariant, Entry{ID: component.MinecraftId("temperate"), Payload: map[string]any{}})
	b.Add(FrogVariant, Entry{ID: component.MinecraftId("temperate"), Payload: map[string]any{}})
	b.Add(WolfSoundVariant, Entry{ID: component.MinecraftId("classic"), Payload: map[string]any{}})
	return b
}

// Build finalizes the Builder into an immutable Container.
func (b *Builder) Build() *Container {
	out := make(map[Kind][]Entry, len(b.entries))
	for k, v := range b.entries {
		out[k] = append([]Entry{}, v...)
	}
	return &Container{entries: out}
}

// Entries returns kind's registered entries.
func (c *Container) Entries(kind Kind) []Entry {
	return c.entries[kind]
}
