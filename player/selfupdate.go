package player

import (
	"fmt"
	"math"

	"github.com/oriumgames/wyvern/attribute"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

var (
	compAttributes = component.NewComponentType[*attribute.Container](component.MinecraftId("attributes"))

	compSidebarPresent = component.NewComponentType[bool](component.MinecraftId("sidebar_present"))
	compSidebarName    = component.NewComponentType[string](component.MinecraftId("sidebar_name"))
	compSidebarLines   = component.NewComponentType[[]string](component.MinecraftId("sidebar_lines"))
	compWorldBorder    = component.NewComponentType[WorldBorder](component.MinecraftId("world_border"))
	compExperience     = component.NewComponentType[Experience](component.MinecraftId("experience"))
)

// WorldBorder is the component driving a player's own SetBorder* packets,
// grounded on the original source's update_world_border.
type WorldBorder struct {
	Size             float64
	CenterX, CenterZ float64
	WarningDelay     int32
	WarningDistance  int32
}

// Experience is the component driving SetExperience, grounded on the
// original source's update_stats/calculate_total_experience.
type Experience struct {
	Progress float32
	Level    int32
}

// applySelfUpdate diffs the player's own component map against the
// snapshot taken at the end of the previous tick and emits exactly the
// packets needed to bring the client's view in sync: gamemode, health,
// attributes, a pending teleport, and (if present) sidebar/world_border/
// experience components. Anything unchanged this tick produces no packet,
// matching the original source's patch-driven self-update rather than
// resending full state every tick.
func (c *Connection) applySelfUpdate() {
	patch := component.ComputePatch(c.lastComponents, c.components)
	if !patch.IsEmpty() {
		if gm, ok := patch.Added[CompGameMode.Id()]; ok {
			if v, ok := gm.(int32); ok {
				_ = c.framer.WriteFrame(c.conn, encodeGameMode(v))
			}
		}
		if hv, ok := patch.Added[CompHealth.Id()]; ok {
			if v, ok := hv.(float32); ok {
				_ = c.framer.WriteFrame(c.conn, encodeSetHealth(v))
			}
		}
		if av, ok := patch.Added[compAttributes.Id()]; ok {
			if container, ok := av.(*attribute.Container); ok {
				_ = c.framer.WriteFrame(c.conn, encodeUpdateAttributes(container))
			}
		}
		if _, ok := patch.Added[compSidebarPresent.Id()]; ok {
			c.applySidebarPresence()
		}
		for _, id := range patch.Removed {
			if id == compSidebarPresent.Id() {
				c.applySidebarPresence()
			}
		}
		if _, ok := patch.Added[compSidebarLines.Id()]; ok {
			c.applySidebarLines()
		}
		if wb, ok := patch.Added[compWorldBorder.Id()]; ok {
			if border, ok := wb.(WorldBorder); ok {
				c.applyWorldBorder(border)
			}
		}
		if xp, ok := patch.Added[compExperience.Id()]; ok {
			if exp, ok := xp.(Experience); ok {
				c.applyExperience(exp)
			}
		}
	}

	c.resolvePendingTeleport()
	c.resolvePendingVelocity()

	c.lastComponents = c.components.Clone()
}

// applySidebarPresence creates or removes the sidebar's single fixed
// objective and, when creating it, sets it as the active display objective,
// per the original source's update_sidebar.
func (c *Connection) applySidebarPresence() {
	if !component.GetOr(c.components, compSidebarPresent, false) {
		_ = c.framer.WriteFrame(c.conn, encodeSetObjectiveRemove(sidebarObjectiveName))
		return
	}
	name := component.GetOr(c.components, compSidebarName, "Untitled Objective")
	_ = c.framer.WriteFrame(c.conn, encodeSetObjectiveCreate(sidebarObjectiveName, name))
	_ = c.framer.WriteFrame(c.conn, encodeSetDisplayObjective(sidebarObjectiveName))
}

// applySidebarLines renders the sidebar's line list as descending-score
// entries, one SetScore per line, so the client orders them top-to-bottom in
// insertion order; a present-but-empty change still updates the objective's
// display name.
func (c *Connection) applySidebarLines() {
	if !component.GetOr(c.components, compSidebarPresent, false) {
		return
	}
	lines := component.GetOr(c.components, compSidebarLines, []string{})
	for i, line := range lines {
		score := int32(math.MaxInt32) - int32(i)
		_ = c.framer.WriteFrame(c.conn, encodeSetScore(fmt.Sprintf("line_%d", i), sidebarObjectiveName, score, line))
	}
	name := component.GetOr(c.components, compSidebarName, "Untitled Objective")
	_ = c.framer.WriteFrame(c.conn, encodeSetObjectiveUpdate(sidebarObjectiveName, name))
}

func (c *Connection) applyWorldBorder(border WorldBorder) {
	_ = c.framer.WriteFrame(c.conn, encodeSetBorderSize(border.Size))
	_ = c.framer.WriteFrame(c.conn, encodeSetBorderCenter(border.CenterX, border.CenterZ))
	_ = c.framer.WriteFrame(c.conn, encodeSetBorderWarningDelay(border.WarningDelay))
	_ = c.framer.WriteFrame(c.conn, encodeSetBorderWarningDistance(border.WarningDistance))
}

func (c *Connection) applyExperience(exp Experience) {
	total := int32(calculateTotalExperience(exp.Level, exp.Progress))
	_ = c.framer.WriteFrame(c.conn, encodeSetExperience(exp.Progress, exp.Level, total))
}

// calculateTotalExperience ports the original source's piecewise
// experience-required/total-experience formula: the points needed to reach
// level, plus the fraction of the next level's requirement progress
// represents.
func calculateTotalExperience(level int32, progress float32) float32 {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	l := float64(level)

	var required float64
	switch {
	case level <= 15:
		required = 2*l + 7
	case level <= 30:
		required = 5*l - 38
	default:
		required = 9*l - 158
	}

	var total float64
	switch {
	case level <= 16:
		total = l*l + 6*l
	case level <= 31:
		total = 2.5*l*l - 40.5*l + 360
	default:
		total = 4.5*l*l - 162.5*l + 2220
	}

	return float32(total + float64(progress)*required)
}

// resolvePendingTeleport sends a PlayerPositionSync (with a fresh teleport
// id) for any teleport the connection has queued via RequestTeleport, then
// waits for the matching AcceptTeleportation before trusting client-sent
// MovePlayer packets again, per spec.md §4.6's
// "teleport_sync_sent > teleport_sync_received" gate.
func (c *Connection) resolvePendingTeleport() {
	if c.assoc == nil || c.assoc.pendingTeleport == nil {
		return
	}
	target := *c.assoc.pendingTeleport
	c.assoc.teleportSyncSent++
	_ = c.framer.WriteFrame(c.conn, encodeSynchronizePosition(target, c.assoc.teleportSyncSent))
	c.assoc.pendingTeleport = nil
}

// RequestTeleport queues target to be sent as the next
// SynchronizePlayerPosition on this connection's next tick.
func (c *Connection) RequestTeleport(target vecmath.Vec3F) {
	c.assoc.pendingTeleport = &target
}

// resolvePendingVelocity mirrors resolvePendingTeleport for the
// teleport_velocity component, sharing the same teleport-sync id sequence
// since both are acknowledged by the same AcceptTeleportation packet.
func (c *Connection) resolvePendingVelocity() {
	if c.assoc == nil || c.assoc.pendingVelocity == nil {
		return
	}
	vel := *c.assoc.pendingVelocity
	c.assoc.teleportSyncSent++
	_ = c.framer.WriteFrame(c.conn, encodeSynchronizeVelocity(vel, c.assoc.teleportSyncSent))
	c.assoc.pendingVelocity = nil
}

// RequestVelocitySync queues vel to be sent as the next
// SynchronizePlayerVelocity on this connection's next tick.
func (c *Connection) RequestVelocitySync(vel vecmath.Vec3F) {
	c.assoc.pendingVelocity = &vel
}

func encodeGameMode(mode int32) []byte {
	buf := newPacket(packetPlayerAbilities)
	_ = writeUVarInt(buf, mode)
	return buf.Bytes()
}

func encodeSetHealth(health float32) []byte {
	buf := newPacket(packetSetHealth)
	writeFloat32(buf, health)
	return buf.Bytes()
}

func encodeUpdateAttributes(container *attribute.Container) []byte {
	buf := newPacket(packetUpdateAttributes)
	entries := container.Entries()
	_ = writeUVarInt(buf, int32(len(entries)))
	for _, e := range entries {
		_ = writeUVarInt(buf, int32(e.ID))
		writeFloat64(buf, e.Value)
	}
	return buf.Bytes()
}

func encodeSynchronizePosition(pos vecmath.Vec3F, teleportID int32) []byte {
	buf := newPacket(packetSynchronizePosition)
	writeFloat64(buf, pos.X)
	writeFloat64(buf, pos.Y)
	writeFloat64(buf, pos.Z)
	_ = writeUVarInt(buf, teleportID)
	return buf.Bytes()
}
