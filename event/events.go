package event

import (
	"github.com/google/uuid"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

// PlayerRef is the minimal identity an event carries for the player that
// triggered it; handler code resolves it back to a live connection via the
// server's connection registry.
type PlayerRef struct {
	UUID     uuid.UUID
	Username string
}

// PlayerCommandEvent fires on a ChatCommand packet.
type PlayerCommandEvent struct {
	Player  PlayerRef
	Command string
}

// ChatEvent fires on a Chat packet.
type ChatEvent struct {
	Player  PlayerRef
	Message string
}

// StartBreakBlockEvent fires when a player begins digging a block.
type StartBreakBlockEvent struct {
	Player PlayerRef
	Pos    vecmath.Vec3I
}

// StopBreakBlockEvent fires when a player cancels digging before it
// finishes. Present in the original event catalog though spec.md's
// deterministic play-stage rule list doesn't individually call it out.
type StopBreakBlockEvent struct {
	Player PlayerRef
	Pos    vecmath.Vec3I
}

// BreakBlockEvent fires when a block is actually removed by digging.
type BreakBlockEvent struct {
	Player PlayerRef
	Pos    vecmath.Vec3I
	Block  component.Id
}

// DropItemEvent fires on DropItem/DropItemStack.
type DropItemEvent struct {
	Player PlayerRef
	Slot   int
}

// SwapHandsEvent fires on SwapItems.
type SwapHandsEvent struct {
	Player PlayerRef
}

// ChangeHeldSlotEvent fires on SetCarriedItem.
type ChangeHeldSlotEvent struct {
	Player PlayerRef
	Slot   int16
}

// RightClickEvent fires on UseItem (mainhand) or a non-placing UseItemOn.
type RightClickEvent struct {
	Player PlayerRef
}

// PlaceBlockEvent fires when UseItemOn results in a block placement.
type PlaceBlockEvent struct {
	Player PlayerRef
	Pos    vecmath.Vec3I
	Block  component.Id
}

// PlayerAttackPlayerEvent describes one player attacking another. The
// play-stage Interact handler does not raise it; an attack on a player
// entity raises PlayerAttackEntityEvent.
type PlayerAttackPlayerEvent struct {
	Attacker PlayerRef
	Target   PlayerRef
}

// PlayerAttackEntityEvent fires when Interact(Attack) targets any entity,
// player or not; Target is the entity id from the packet.
type PlayerAttackEntityEvent struct {
	Attacker PlayerRef
	Target   int32
}

// PlayerMoveEvent fires on any accepted MovePlayerPos/PosRot/Rot.
type PlayerMoveEvent struct {
	Player PlayerRef
	From   vecmath.Vec3F
	To     vecmath.Vec3F
}

// PlayerJoinEvent fires at the start of connect_to_new_dimension; handlers
// set Dimension to route the player somewhere other than the server
// default.
type PlayerJoinEvent struct {
	Player    PlayerRef
	Dimension *component.Id
}
