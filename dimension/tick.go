package dimension

import (
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

// equipmentNamespace tags the component ids auto_apply_entity_properties
// treats as "equipment": any component key under this namespace triggers
// an equipment broadcast when it changes.
const equipmentNamespace = "wyvern_equipment"

// IsEquipmentComponent reports whether id belongs to the equipment
// namespace, used by both the tick loop (to decide what to broadcast) and
// callers that set equipment components.
func IsEquipmentComponent(id component.Id) bool {
	return id.Namespace == equipmentNamespace
}

// physicsDamping is the per-tick velocity damping factor applied
// regardless of collision, per spec.md §4.7.
const physicsDamping = 0.9

// gravityAcceleration is subtracted from velocity.y each tick when
// gravity_enabled is set.
const gravityAcceleration = 0.08

// maxCollisionRetries bounds the halve-and-retry loop when a physics step
// would enter a non-air block.
const maxCollisionRetries = 10

func (d *Dimension) tick() {
	d.autoApplyEntityProperties()
	d.propagateEntityPackets()
}

// autoApplyEntityProperties steps every physics-enabled entity's position
// by its velocity, retrying with halved velocity up to 10 times if a step
// would land inside a non-air block, applies gravity, dampens velocity by
// 0.9x, and broadcasts any changed equipment components.
func (d *Dimension) autoApplyEntityProperties() {
	for _, e := range d.entities {
		physicsEnabled := component.GetOr(e.Components, CompPhysicsEnabled, false)
		if physicsEnabled {
			pos := component.GetOr(e.Components, CompPosition, vecmath.Vec3F{})
			vel := component.GetOr(e.Components, CompVelocity, vecmath.Vec3F{})

			step := vel
			for attempt := 0; attempt < maxCollisionRetries; attempt++ {
				candidate := vecmath.Vec3F{X: pos.X + step.X, Y: pos.Y + step.Y, Z: pos.Z + step.Z}
				if d.isPassable(candidate) {
					pos = candidate
					break
				}
				step = vecmath.Vec3F{X: step.X / 2, Y: step.Y / 2, Z: step.Z / 2}
			}

			if component.GetOr(e.Components, CompGravityEnabled, false) {
				vel.Y -= gravityAcceleration
			}
			vel = vecmath.Vec3F{X: vel.X * physicsDamping, Y: vel.Y * physicsDamping, Z: vel.Z * physicsDamping}

			component.Set(e.Components, CompPosition, pos)
			component.Set(e.Components, CompVelocity, vel)
		}

		d.broadcastEquipmentIfChanged(e)
	}
}

// isPassable reports whether the block at the given floating-point
// position is air. Fractional coordinates are floored to the containing
// block.
func (d *Dimension) isPassable(pos vecmath.Vec3F) bool {
	block := vecmath.Vec3I{X: floorF(pos.X), Y: floorF(pos.Y), Z: floorF(pos.Z)}
	state, err := d.getBlock(block)
	if err != nil {
		return true
	}
	return state.Name == component.MinecraftId("air")
}

func floorF(v float64) int32 {
	i := int32(v)
	if v < float64(i) {
		i--
	}
	return i
}

func (d *Dimension) broadcastEquipmentIfChanged(e *EntityData) {
	patch := component.ComputePatch(e.LastComponents, e.Components)
	equip := component.Patch{Added: make(map[component.Id]any)}
	for id, v := range patch.Added {
		if IsEquipmentComponent(id) {
			equip.Added[id] = v
		}
	}
	for _, id := range patch.Removed {
		if IsEquipmentComponent(id) {
			equip.Removed = append(equip.Removed, id)
		}
	}
	if equip.IsEmpty() {
		return
	}
	entityID := component.GetOr(e.Components, CompEntityID, int32(0))
	for _, p := range d.players {
		go func(sink Broadcaster) { sink.SendEquipmentUpdate(entityID, equip) }(p.sink)
	}
}

// propagateEntityPackets computes each entity's patch since the last tick
// and, if position or direction changed, broadcasts an
// EntityPositionSync+RotateHead pair to every connected player in this
// dimension excluding the entity's own owner (for player entities), then
// snapshots the current components as the new baseline.
func (d *Dimension) propagateEntityPackets() {
	for id, e := range d.entities {
		patch := component.ComputePatch(e.LastComponents, e.Components)
		_, posChanged := patch.Added[CompPosition.Id()]
		_, dirChanged := patch.Added[CompDirection.Id()]

		if posChanged || dirChanged {
			pos := component.GetOr(e.Components, CompPosition, vecmath.Vec3F{})
			dir := component.GetOr(e.Components, CompDirection, vecmath.Vec2F{})
			entityID := component.GetOr(e.Components, CompEntityID, int32(0))

			for playerID, p := range d.players {
				if playerID == id {
					continue
				}
				go func(sink Broadcaster) { sink.SendEntityPositionSync(entityID, pos, dir) }(p.sink)
			}
		}

		e.LastComponents = e.Components.Clone()
	}
}
