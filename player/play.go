package player

import (
	"bytes"

	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/inventory"
	"github.com/oriumgames/wyvern/vecmath"
)

// Play-stage serverbound packet ids, per spec.md §4.6's dispatch table.
const (
	packetConfirmTeleportation = 0x00
	packetChatCommand          = 0x04
	packetChat                 = 0x07
	packetContainerClose       = 0x12
	packetContainerClick       = 0x11
	packetPlayerAction         = 0x22
	packetSwapItems            = 0x24 // SwapItemsInHand
	packetSetCarriedItem       = 0x33
	packetMovePlayerPos        = 0x1A
	packetMovePlayerPosRot     = 0x1B
	packetMovePlayerRot        = 0x1C
	packetPlayerCommand        = 0x25 // sneak/sprint toggles, unused beyond acceptance
	packetSetCreativeModeSlot  = 0x36
	packetSwingArm             = 0x3C
	packetUseItemOn            = 0x3F
	packetUseItem              = 0x40
	packetInteract             = 0x17
	packetPlayPingRequest      = 0x27

	packetPlayPongResponse = 0x35
)

// Digging actions carried by PlayerAction, mirroring the vanilla action enum.
const (
	diggingStart  int32 = 0
	diggingCancel int32 = 1
	diggingFinish int32 = 2
	dropItem      int32 = 3
	dropItemStack int32 = 4
)

// Block faces carried by UseItemOn, mirroring the vanilla BlockFace enum.
const (
	blockFaceDown int32 = iota
	blockFaceUp
	blockFaceNorth
	blockFaceSouth
	blockFaceWest
	blockFaceEast
)

// blockFaceOffset returns the unit offset from the clicked block to the
// position a new block is placed at for the given face.
func blockFaceOffset(face int32) vecmath.Vec3I {
	switch face {
	case blockFaceDown:
		return vecmath.Vec3I{Y: -1}
	case blockFaceUp:
		return vecmath.Vec3I{Y: 1}
	case blockFaceNorth:
		return vecmath.Vec3I{Z: -1}
	case blockFaceSouth:
		return vecmath.Vec3I{Z: 1}
	case blockFaceWest:
		return vecmath.Vec3I{X: -1}
	case blockFaceEast:
		return vecmath.Vec3I{X: 1}
	default:
		return vecmath.Vec3I{}
	}
}

func (c *Connection) handlePlayPacket(id int32, r *bytes.Reader) {
	switch id {
	case packetConfirmTeleportation:
		c.handleAcceptTeleportation(r)
	case packetChatCommand:
		c.handleChatCommand(r)
	case packetChat:
		c.handleChat(r)
	case packetPlayerAction:
		c.handlePlayerAction(r)
	case packetSwapItems:
		c.handleSwapItems()
	case packetSetCarriedItem:
		c.handleSetCarriedItem(r)
	case packetMovePlayerPos:
		c.handleMovePlayerPos(r)
	case packetMovePlayerPosRot:
		c.handleMovePlayerPosRot(r)
	case packetMovePlayerRot:
		c.handleMovePlayerRot(r)
	case packetSetCreativeModeSlot:
		c.handleSetCreativeModeSlot(r)
	case packetSwingArm:
		c.handleSwingArm(r)
	case packetUseItem:
		c.handleUseItem(r)
	case packetUseItemOn:
		c.handleUseItemOn(r)
	case packetInteract:
		c.handleInteract(r)
	case packetContainerClick:
		c.handleContainerClick(r)
	case packetContainerClose:
		c.handleContainerClose(r)
	case packetPlayPingRequest:
		c.handlePlayPingRequest(r)
	default:
		// Unhandled packets (client settings toggles, plugin messages,
		// movement-only-rotation edge cases not listed above) are accepted
		// and discarded rather than dropping the connection.
	}
}

func (c *Connection) playerRef() event.PlayerRef {
	return event.PlayerRef{UUID: c.assoc.uuid, Username: c.assoc.username}
}

// handleAcceptTeleportation implements spec.md §4.6's AcceptTeleportation
// rule: id=0 is the sentinel that kicks off connect_to_new_dimension; any
// other id except -1 (the client's "no pending teleport" value) is recorded
// as acknowledged; chunk streaming always runs afterward regardless of
// which branch fired.
func (c *Connection) handleAcceptTeleportation(r *bytes.Reader) {
	id, err := readUVarInt(r)
	if err != nil {
		return
	}
	if id == 0 {
		c.connectToNewDimension()
	} else if id != -1 {
		c.assoc.teleportSyncReceived = id
	}
	c.streamChunks()
}

func (c *Connection) handleChatCommand(r *bytes.Reader) {
	cmd, err := readString(r)
	if err != nil {
		return
	}
	if c.events != nil {
		event.Dispatch(c.events, event.PlayerCommandEvent{Player: c.playerRef(), Command: cmd})
	}
}

func (c *Connection) handleChat(r *bytes.Reader) {
	msg, err := readString(r)
	if err != nil {
		return
	}
	if c.events != nil {
		event.Dispatch(c.events, event.ChatEvent{Player: c.playerRef(), Message: msg})
	}
}

// handlePlayerAction implements spec.md §4.6's PlayerAction dispatch:
// StartedDigging instant-breaks only in Creative, FinishedDigging breaks
// everywhere else, DropItem/DropItemStack clear the held slot, and every
// action is always acknowledged with BlockChangedAck regardless of branch.
func (c *Connection) handlePlayerAction(r *bytes.Reader) {
	action, err := readUVarInt(r)
	if err != nil {
		return
	}
	pos, err := readBlockPos(r)
	if err != nil {
		return
	}
	if _, err := r.ReadByte(); err != nil { // face, unused for digging/dropping
		return
	}
	sequence, err := readUVarInt(r)
	if err != nil {
		return
	}
	defer c.write(encodeBlockChangedAck(sequence))

	if c.events == nil {
		return
	}
	gamemode := component.GetOr(c.components, CompGameMode, GamemodeSurvival)
	switch action {
	case diggingStart:
		event.Dispatch(c.events, event.StartBreakBlockEvent{Player: c.playerRef(), Pos: pos})
		if gamemode == GamemodeCreative {
			c.breakBlock(pos)
		}
	case diggingCancel:
		event.Dispatch(c.events, event.StopBreakBlockEvent{Player: c.playerRef(), Pos: pos})
	case diggingFinish:
		if gamemode != GamemodeCreative {
			c.breakBlock(pos)
		}
	case dropItem, dropItemStack:
		c.dropHeldItem()
	}
}

// breakBlock reads the block at pos, raises BreakBlockEvent with its
// identity, then replaces it with air.
func (c *Connection) breakBlock(pos vecmath.Vec3I) {
	block, _ := c.selfDim.GetBlock(pos)
	event.Dispatch(c.events, event.BreakBlockEvent{Player: c.playerRef(), Pos: pos, Block: block.Name})
	_ = c.selfDim.SetBlock(pos, chunkdata.Air, nil)
}

// dropHeldItem clears the held slot and raises DropItemEvent, per
// spec.md §4.6's DropItem/DropItemStack rule.
func (c *Connection) dropHeldItem() {
	slot := c.hotbarSlot()
	_ = c.assoc.inventory.SetSlot(slot, inventory.Air())
	event.Dispatch(c.events, event.DropItemEvent{Player: c.playerRef(), Slot: slot})
}

func (c *Connection) handleSwapItems() {
	if c.events != nil {
		event.Dispatch(c.events, event.SwapHandsEvent{Player: c.playerRef()})
	}
	c.assoc.cursorItem, _ = c.assoc.inventory.GetSlot(c.hotbarSlot())
}

// handleSetCarriedItem maps the client's 0-8 hotbar index to the base
// inventory's absolute slot numbering (hotbar occupies slots 36-44), per
// spec.md §4.6.
func (c *Connection) handleSetCarriedItem(r *bytes.Reader) {
	slot, err := readInt32(r)
	if err != nil {
		return
	}
	c.assoc.heldSlot = int16(slot) + 36
	if c.events != nil {
		event.Dispatch(c.events, event.ChangeHeldSlotEvent{Player: c.playerRef(), Slot: c.assoc.heldSlot})
	}
}

func (c *Connection) hotbarSlot() int {
	return int(c.assoc.heldSlot)
}

// handleMovePlayerPos and its PosRot/Rot siblings all gate on the same
// teleport-sync rule: a client's movement packets are only trusted once
// teleport_sync_received has caught up to teleport_sync_sent.
func (c *Connection) handleMovePlayerPos(r *bytes.Reader) {
	x, err1 := readFloat64(r)
	y, err2 := readFloat64(r)
	z, err3 := readFloat64(r)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	c.applyMove(vecmath.Vec3F{X: x, Y: y, Z: z})
}

func (c *Connection) handleMovePlayerPosRot(r *bytes.Reader) {
	x, err1 := readFloat64(r)
	y, err2 := readFloat64(r)
	z, err3 := readFloat64(r)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	if _, err := readFloat32(r); err != nil { // yaw
		return
	}
	if _, err := readFloat32(r); err != nil { // pitch
		return
	}
	c.applyMove(vecmath.Vec3F{X: x, Y: y, Z: z})
}

func (c *Connection) handleMovePlayerRot(r *bytes.Reader) {
	// Rotation-only movement never changes position; nothing to gate.
}

func (c *Connection) applyMove(to vecmath.Vec3F) {
	if !c.joined || c.assoc.teleportSyncReceived != c.assoc.teleportSyncSent {
		return
	}
	comps, err := c.selfDim.Components(c.assoc.uuid)
	if err != nil {
		return
	}
	from := component.GetOr(comps, dimension.CompPosition, vecmath.Vec3F{})
	_ = c.selfDim.MutateComponents(c.assoc.uuid, func(m *component.Map) {
		component.Set(m, dimension.CompPosition, to)
	})
	if c.events != nil {
		event.Dispatch(c.events, event.PlayerMoveEvent{Player: c.playerRef(), From: from, To: to})
	}
}

func (c *Connection) handleSetCreativeModeSlot(r *bytes.Reader) {
	slot, err := readInt32(r)
	if err != nil {
		return
	}
	item, err := readItemStack(r)
	if err != nil {
		return
	}
	_ = c.assoc.inventory.SetSlot(int(slot), item)
}

// readItemStack decodes a presence flag followed, if present, by the item's
// id; wyvern's simplified item wire shape carries no count or NBT on the
// wire itself (count lives in the component map ItemStack carries).
func readItemStack(r *bytes.Reader) (inventory.ItemStack, error) {
	present, err := readBool(r)
	if err != nil {
		return inventory.ItemStack{}, err
	}
	if !present {
		return inventory.Air(), nil
	}
	name, err := readString(r)
	if err != nil {
		return inventory.ItemStack{}, err
	}
	return inventory.NewItemStack(component.ParseId(name)), nil
}

// handleSwingArm broadcasts the animation to every other player in the
// dimension, per spec.md §4.6's Swing rule.
func (c *Connection) handleSwingArm(r *bytes.Reader) {
	hand, err := readUVarInt(r)
	if err != nil {
		return
	}
	if !c.joined {
		return
	}
	_ = c.selfDim.BroadcastAnimation(c.assoc.entityID, c.assoc.uuid, hand)
}

func (c *Connection) handleUseItem(r *bytes.Reader) {
	if c.events != nil {
		event.Dispatch(c.events, event.RightClickEvent{Player: c.playerRef()})
	}
}

// handleUseItemOn implements spec.md §4.6's UseItemOn rule: compute the
// adjacent placement position from the clicked face, place the held item's
// block there, decrement (or clear) the held stack, and always ack with
// BlockChangedAck. A held air slot raises RightClickEvent instead.
func (c *Connection) handleUseItemOn(r *bytes.Reader) {
	_, _ = readUVarInt(r) // hand
	target, err := readBlockPos(r)
	if err != nil {
		return
	}
	face, err := readUVarInt(r)
	if err != nil {
		return
	}
	if _, err := readFloat32(r); err != nil { // cursor x
		return
	}
	if _, err := readFloat32(r); err != nil { // cursor y
		return
	}
	if _, err := readFloat32(r); err != nil { // cursor z
		return
	}
	if _, err := readBool(r); err != nil { // inside block
		return
	}
	sequence, err := readUVarInt(r)
	if err != nil {
		return
	}
	defer c.write(encodeBlockChangedAck(sequence))

	held, err := c.assoc.inventory.GetSlot(c.hotbarSlot())
	if err != nil || held.IsAir() {
		if c.events != nil {
			event.Dispatch(c.events, event.RightClickEvent{Player: c.playerRef()})
		}
		return
	}

	offset := blockFaceOffset(face)
	placePos := vecmath.Vec3I{X: target.X + offset.X, Y: target.Y + offset.Y, Z: target.Z + offset.Z}

	_ = c.selfDim.SetBlock(placePos, chunkdata.BlockState{Name: held.Kind()}, nil)
	if held.Count() <= 1 {
		_ = c.assoc.inventory.SetSlot(c.hotbarSlot(), inventory.Air())
	} else {
		_ = c.assoc.inventory.SetSlot(c.hotbarSlot(), held.WithCount(held.Count()-1))
	}

	if c.events != nil {
		event.Dispatch(c.events, event.PlaceBlockEvent{Player: c.playerRef(), Pos: placePos, Block: held.Kind()})
	}
}

func (c *Connection) handleInteract(r *bytes.Reader) {
	entityID, err := readUVarInt(r)
	if err != nil {
		return
	}
	action, err := readUVarInt(r)
	if err != nil || action != 1 { // 1 == Attack
		return
	}
	if c.events != nil {
		event.Dispatch(c.events, event.PlayerAttackEntityEvent{Attacker: c.playerRef(), Target: entityID})
	}
}

// handleContainerClick implements spec.md §4.6's ContainerClick rule: set
// cursor_item from the packet, then route each changed slot into the base
// inventory's hotbar (36+i) / upper (9+i) regions or the open screen's own
// inventory, depending on which slot group the index falls in.
func (c *Connection) handleContainerClick(r *bytes.Reader) {
	if _, err := readInt32(r); err != nil { // window id
		return
	}
	count, err := readUVarInt(r)
	if err != nil {
		return
	}

	type changedSlot struct {
		slot int
		item inventory.ItemStack
	}
	changed := make([]changedSlot, 0, count)
	for i := int32(0); i < count; i++ {
		slot, err := readInt32(r)
		if err != nil {
			return
		}
		item, err := readItemStack(r)
		if err != nil {
			return
		}
		changed = append(changed, changedSlot{slot: int(slot), item: item})
	}
	cursor, err := readItemStack(r)
	if err != nil {
		return
	}
	c.assoc.cursorItem = cursor

	screen := c.assoc.screen
	for _, cs := range changed {
		if screen == nil {
			_ = c.assoc.inventory.SetSlot(cs.slot, cs.item)
			continue
		}
		screenSlots := screen.Kind.SlotCount()
		if cs.slot < screenSlots {
			_ = screen.Inventory.SetSlot(cs.slot, cs.item)
			continue
		}
		baseSlot := cs.slot - screenSlots
		if baseSlot < 27 {
			_ = c.assoc.inventory.SetSlot(9+baseSlot, cs.item)
		} else {
			_ = c.assoc.inventory.SetSlot(36+(baseSlot-27), cs.item)
		}
	}
}

func (c *Connection) handleContainerClose(r *bytes.Reader) {
	c.assoc.screen = nil
}

func (c *Connection) handlePlayPingRequest(r *bytes.Reader) {
	payload, err := readInt64(r)
	if err != nil {
		return
	}
	c.write(encodePlayPongResponse(payload))
}

func encodePlayPongResponse(payload int64) []byte {
	buf := newPacket(packetPlayPongResponse)
	writeInt64(buf, payload)
	return buf.Bytes()
}

func readBlockPos(r *bytes.Reader) (vecmath.Vec3I, error) {
	v, err := readInt64(r)
	if err != nil {
		return vecmath.Vec3I{}, err
	}
	x := int32(v >> 38)
	y := int32(v << 52 >> 52)
	z := int32(v << 26 >> 38)
	return vecmath.Vec3I{X: x, Y: y, Z: z}, nil
}
