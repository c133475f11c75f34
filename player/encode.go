package player

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/google/uuid"

	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

// Packet ids for the outbound packets the connection actor emits on its
// own (as opposed to simple passthrough responses built inline in the
// stage handlers). These are placeholders for protocol=769 ("1.21.4")
// slots; spec.md §6 only names the packets by purpose, not their numeric
// ids, so the exact values are this module's own assignment.
const (
	packetKeepAlive           = 0x26
	packetEntityPositionSync  = 0x30
	packetRotateHead          = 0x49
	packetSetEquipment        = 0x60
	packetBlockUpdate         = 0x09
	packetUpdateAttributes    = 0x7B
	packetPlayerAbilities     = 0x3E
	packetSynchronizePosition = 0x41
	packetSetHealth           = 0x61

	packetAddEntity         = 0x01
	packetAnimation         = 0x02
	packetBlockChangedAck   = 0x05
	packetPlayerInfoUpdate  = 0x3F
	packetSynchronizeVelocity = 0x42

	packetSetObjective             = 0x4B
	packetSetDisplayObjective      = 0x4C
	packetSetScore                 = 0x4D
	packetSetBorderSize            = 0x4E
	packetSetBorderCenter          = 0x4F
	packetSetBorderWarningDelay    = 0x50
	packetSetBorderWarningDistance = 0x51
	packetSetExperience            = 0x52
)

// sidebarObjectiveName is the single fixed objective wyvern's sidebar
// components render into, mirroring the original source's "wyvern_objective".
const sidebarObjectiveName = "wyvern_objective"

func newPacket(id int32) *bytes.Buffer {
	buf := new(bytes.Buffer)
	_ = writeUVarInt(buf, id)
	return buf
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	buf.Write(tmp[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	writeInt64(buf, int64(math.Float64bits(v)))
}

func writeFloat32(buf *bytes.Buffer, v float32) {
	writeInt32(buf, int32(math.Float32bits(v)))
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	_ = writeUVarInt(buf, int32(len(s)))
	buf.WriteString(s)
}

func writeUUIDBytes(buf *bytes.Buffer, id uuid.UUID) {
	buf.Write(id[:])
}

// encodeKeepAlive builds a KeepAlive packet carrying an arbitrary
// identifying payload (here, the send-time millisecond timestamp), echoed
// back by the client on the next play-stage KeepAlive it sends.
func encodeKeepAlive(payload int64) []byte {
	buf := newPacket(packetKeepAlive)
	writeInt64(buf, payload)
	return buf.Bytes()
}

// encodeEntityPositionSync renders the position/rotation pair the
// dimension's tick loop broadcasts when an entity's position or direction
// component changes.
func encodeEntityPositionSync(entityID int32, pos vecmath.Vec3F, dir vecmath.Vec2F) []byte {
	buf := newPacket(packetEntityPositionSync)
	_ = writeUVarInt(buf, entityID)
	writeFloat64(buf, pos.X)
	writeFloat64(buf, pos.Y)
	writeFloat64(buf, pos.Z)
	writeFloat32(buf, dir.X)
	writeFloat32(buf, dir.Y)
	return buf.Bytes()
}

// encodeEquipmentUpdate renders only the equipment-namespaced slots that
// changed this tick, per dimension.broadcastEquipmentIfChanged.
func encodeEquipmentUpdate(entityID int32, patch component.Patch) []byte {
	buf := newPacket(packetSetEquipment)
	_ = writeUVarInt(buf, entityID)
	_ = writeUVarInt(buf, int32(len(patch.Added)))
	for id := range patch.Added {
		writeString(buf, id.String())
	}
	return buf.Bytes()
}

// encodeBlockUpdate renders a single BlockUpdate packet.
func encodeBlockUpdate(pos vecmath.Vec3I, protocolID int32) []byte {
	buf := newPacket(packetBlockUpdate)
	writeInt64(buf, encodeBlockPos(pos))
	_ = writeUVarInt(buf, protocolID)
	return buf.Bytes()
}

// encodeBlockPos packs a block position into the protocol's single-int64
// position encoding (26 bits x, 26 bits z, 12 bits y).
func encodeBlockPos(pos vecmath.Vec3I) int64 {
	x := int64(pos.X) & 0x3FFFFFF
	z := int64(pos.Z) & 0x3FFFFFF
	y := int64(pos.Y) & 0xFFF
	return (x << 38) | (z << 12) | y
}

// encodeBlockChangedAck acknowledges a PlayerAction/UseItemOn packet's own
// sequence number, per spec.md §4.6's "always ack" rule.
func encodeBlockChangedAck(sequence int32) []byte {
	buf := newPacket(packetBlockChangedAck)
	_ = writeUVarInt(buf, sequence)
	return buf.Bytes()
}

// encodePlayerInfoUpdate renders an AddPlayer(+Listed) entry for a single
// player, used both to broadcast a newly-joined player to the dimension and
// to replay existing players to a newly-joined connection.
func encodePlayerInfoUpdate(id uuid.UUID, username string, listed bool) []byte {
	buf := newPacket(packetPlayerInfoUpdate)
	writeUUIDBytes(buf, id)
	writeString(buf, username)
	writeBool(buf, listed)
	return buf.Bytes()
}

// encodeAddEntity spawns a non-owned entity on the receiving client.
func encodeAddEntity(entityID int32, entityType component.Id, id uuid.UUID, pos vecmath.Vec3F, dir vecmath.Vec2F) []byte {
	buf := newPacket(packetAddEntity)
	_ = writeUVarInt(buf, entityID)
	writeUUIDBytes(buf, id)
	writeString(buf, entityType.String())
	writeFloat64(buf, pos.X)
	writeFloat64(buf, pos.Y)
	writeFloat64(buf, pos.Z)
	writeFloat32(buf, dir.X)
	writeFloat32(buf, dir.Y)
	return buf.Bytes()
}

// encodeAnimation renders a Swing broadcast for entityID.
func encodeAnimation(entityID int32, hand int32) []byte {
	buf := newPacket(packetAnimation)
	_ = writeUVarInt(buf, entityID)
	_ = writeUVarInt(buf, hand)
	return buf.Bytes()
}

// encodeSynchronizeVelocity is update_velocity's packet: a teleport-sync id
// carrying only a velocity vector, mirroring encodeSynchronizePosition's
// position-only sibling.
func encodeSynchronizeVelocity(vel vecmath.Vec3F, teleportID int32) []byte {
	buf := newPacket(packetSynchronizeVelocity)
	writeFloat64(buf, vel.X)
	writeFloat64(buf, vel.Y)
	writeFloat64(buf, vel.Z)
	_ = writeUVarInt(buf, teleportID)
	return buf.Bytes()
}

// encodeSetObjectiveCreate/Remove/Update render the sidebar's SetObjective
// action variants.
func encodeSetObjectiveCreate(name, displayName string) []byte {
	buf := newPacket(packetSetObjective)
	writeString(buf, name)
	buf.WriteByte(0) // action: create
	writeString(buf, displayName)
	_ = writeUVarInt(buf, 0) // kind: integer
	return buf.Bytes()
}

func encodeSetObjectiveRemove(name string) []byte {
	buf := newPacket(packetSetObjective)
	writeString(buf, name)
	buf.WriteByte(1) // action: remove
	return buf.Bytes()
}

func encodeSetObjectiveUpdate(name, displayName string) []byte {
	buf := newPacket(packetSetObjective)
	writeString(buf, name)
	buf.WriteByte(2) // action: update
	writeString(buf, displayName)
	_ = writeUVarInt(buf, 0)
	return buf.Bytes()
}

func encodeSetDisplayObjective(name string) []byte {
	buf := newPacket(packetSetDisplayObjective)
	_ = writeUVarInt(buf, 1) // slot: sidebar
	writeString(buf, name)
	return buf.Bytes()
}

func encodeSetScore(entityName, objectiveName string, value int32, displayName string) []byte {
	buf := newPacket(packetSetScore)
	writeString(buf, entityName)
	writeString(buf, objectiveName)
	_ = writeUVarInt(buf, value)
	writeBool(buf, true)
	writeString(buf, displayName)
	return buf.Bytes()
}

func encodeSetBorderSize(diameter float64) []byte {
	buf := newPacket(packetSetBorderSize)
	writeFloat64(buf, diameter)
	return buf.Bytes()
}

func encodeSetBorderCenter(x, z float64) []byte {
	buf := newPacket(packetSetBorderCenter)
	writeFloat64(buf, x)
	writeFloat64(buf, z)
	return buf.Bytes()
}

func encodeSetBorderWarningDelay(seconds int32) []byte {
	buf := newPacket(packetSetBorderWarningDelay)
	_ = writeUVarInt(buf, seconds)
	return buf.Bytes()
}

func encodeSetBorderWarningDistance(blocks int32) []byte {
	buf := newPacket(packetSetBorderWarningDistance)
	_ = writeUVarInt(buf, blocks)
	return buf.Bytes()
}

func encodeSetExperience(progress float32, level int32, total int32) []byte {
	buf := newPacket(packetSetExperience)
	writeFloat32(buf, progress)
	_ = writeUVarInt(buf, level)
	_ = writeUVarInt(buf, total)
	return buf.Bytes()
}
