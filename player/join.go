package player

import (
	"github.com/oriumgames/wyvern/attribute"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/vecmath"
)

const packetJoinGame = 0x2B
const packetGameEvent = 0x22

// connectToNewDimension runs the join handshake: dispatch PlayerJoinEvent
// synchronously so handlers can redirect the player before anything is
// spawned, resolve and spawn the player's entity in the chosen dimension,
// register this connection as its broadcaster, seed the player's own
// components, and transition to the Play stage. Grounded on the original
// source's connect_to_new_dimension: event dispatch happens before any
// entity or packet work, so a handler's override is authoritative.
func (c *Connection) connectToNewDimension() {
	joinEvent := &event.PlayerJoinEvent{Player: event.PlayerRef{UUID: c.pendingUUID, Username: c.pendingName}}
	if c.events != nil {
		// Dispatched by pointer, unlike every other play-stage event: a
		// handler mutates joinEvent.Dimension in place to redirect the join,
		// which a by-value Dispatch couldn't observe.
		event.DispatchSync(c.events, joinEvent)
	}
	override := joinEvent.Dimension

	if c.resolveDim == nil {
		c.log.Error("no dimension resolver configured, dropping connection")
		c.conn.Close()
		return
	}
	dim, err := c.resolveDim(override)
	if err != nil {
		c.log.WithError(err).Error("failed to resolve join dimension")
		c.conn.Close()
		return
	}

	id, entityID, err := dim.SpawnEntity(component.MinecraftId("player"), true)
	if err != nil {
		c.log.WithError(err).Error("failed to spawn player entity")
		c.conn.Close()
		return
	}

	c.assoc = newAssociatedData(id, c.pendingName, entityID, c.renderDistance)
	c.selfDim = dim
	c.joined = true
	c.stage = StagePlay
	_ = dim.JoinPlayer(id, c.pendingName, c.self)

	component.Set(c.components, CompUsername, c.pendingName)
	component.Set(c.components, CompGameMode, GamemodeSurvival)
	component.Set(c.components, CompHealth, float32(20))
	component.Set(c.components, compAttributes, defaultAttributeContainer())

	c.write(encodeJoinGame(entityID))
	c.write(encodeGameEvent(13, 0)) // WaitForChunks, per spec.md's join-handshake gate

	spawnPos := vecmath.Vec3F{}
	if comps, err := dim.Components(id); err == nil {
		spawnPos = component.GetOr(comps, dimension.CompPosition, vecmath.Vec3F{})
	}
	c.write(encodeSynchronizePosition(spawnPos, 0))

	// Broadcast this player's info to everyone already in the dimension,
	// then replay every other player and entity already present back to
	// this connection, per spec.md §4.6's connect_to_new_dimension steps
	// (b)-(d). This player's own entity was already spawned above, so it's
	// excluded from both replay loops.
	_ = dim.BroadcastPlayerInfo(id, c.pendingName)

	if others, err := dim.Players(); err == nil {
		for _, p := range others {
			if p.UUID == id {
				continue
			}
			c.write(encodePlayerInfoUpdate(p.UUID, p.Username, true))
		}
	}

	if entities, err := dim.Entities(); err == nil {
		for _, e := range entities {
			if e.UUID == id {
				continue
			}
			c.write(encodeAddEntity(e.EntityID, e.EntityType, e.UUID, e.Pos, e.Dir))
		}
	}
}

func defaultAttributeContainer() *attribute.Container {
	container := attribute.NewContainer()
	container.Set(attribute.MaxHealth, 20)
	container.Set(attribute.AttackSpeed, 4)
	container.Set(attribute.FollowRange, 32)
	return container
}

func encodeJoinGame(entityID int32) []byte {
	buf := newPacket(packetJoinGame)
	writeInt32(buf, entityID)
	return buf.Bytes()
}

func encodeGameEvent(eventID int32, value float32) []byte {
	buf := newPacket(packetGameEvent)
	buf.WriteByte(byte(eventID))
	writeFloat32(buf, value)
	return buf.Bytes()
}
