// Package dimension implements the Dimension actor: chunk storage, entity
// registry, lazy chunk initialization via a generator callback, and the
// per-tick physics/patch-broadcast work.
package dimension

import (
	"github.com/google/uuid"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

// Required entity components, present on every EntityData.
var (
	CompEntityType       = component.NewComponentType[component.Id](component.MinecraftId("entity_type"))
	CompUUID             = component.NewComponentType[uuid.UUID](component.MinecraftId("uuid"))
	CompEntityID         = component.NewComponentType[int32](component.MinecraftId("entity_id"))
	CompPosition         = component.NewComponentType[vecmath.Vec3F](component.MinecraftId("position"))
	CompDirection        = component.NewComponentType[vecmath.Vec2F](component.MinecraftId("direction"))
	CompVelocity         = component.NewComponentType[vecmath.Vec3F](component.MinecraftId("velocity"))
	CompPlayerControlled = component.NewComponentType[bool](component.MinecraftId("player_controlled"))
	CompPhysicsEnabled   = component.NewComponentType[bool](component.MinecraftId("physics_enabled"))
	CompGravityEnabled   = component.NewComponentType[bool](component.MinecraftId("gravity_enabled"))
)

// EntityData is the per-entity state an actor message operates on: the
// live component map plus the snapshot taken at the end of the previous
// tick, which patch computation diffs against.
type EntityData struct {
	LastComponents *component.Map
	Components     *component.Map
}

// NewEntityData builds an EntityData with the required components
// populated and LastComponents equal to an empty map, so the first tick's
// patch reports every required component as added.
func NewEntityData(entityType component.Id, id uuid.UUID, entityID int32, playerControlled bool) *EntityData {
	m := component.NewMap()
	component.Set(m, CompEntityType, entityType)
	component.Set(m, CompUUID, id)
	component.Set(m, CompEntityID, entityID)
	component.Set(m, CompPosition, vecmath.Vec3F{})
	component.Set(m, CompDirection, vecmath.Vec2F{})
	component.Set(m, CompVelocity, vecmath.Vec3F{})
	component.Set(m, CompPlayerControlled, playerControlled)
	return &EntityData{
		LastComponents: component.NewMap(),
		Components:     m,
	}
}
