package player

import (
	"crypto/rsa"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/event"
	"github.com/oriumgames/wyvern/inventory"
	"github.com/oriumgames/wyvern/registry"
	"github.com/oriumgames/wyvern/vecmath"
)

// Required player components, mirroring dimension's entity component set
// plus the player-only additions.
var (
	CompUsername = component.NewComponentType[string](component.MinecraftId("username"))
	CompGameMode = component.NewComponentType[int32](component.MinecraftId("game_mode"))
	CompHealth   = component.NewComponentType[float32](component.MinecraftId("health"))
)

// Gamemode values carried by CompGameMode, mirroring the original source's
// Gamemode enum ordering (Survival=0, Creative=1, Adventure=2, Spectator=3).
const (
	GamemodeSurvival  int32 = 0
	GamemodeCreative  int32 = 1
	GamemodeAdventure int32 = 2
	GamemodeSpectator int32 = 3
)

// DefaultDimensionProvider resolves which dimension a newly-joining player
// lands in, after event.PlayerJoinEvent handlers have had a chance to
// override it via the event's Dimension field.
type DefaultDimensionProvider func(override *component.Id) (dimension.Handle, error)

// associatedData is everything a connection tracks about its player that
// isn't itself a component: loaded-chunk bookkeeping, the open-screen
// overlay, teleport sequencing, and the render-distance setting, grounded
// on the original source's ConnectionData struct.
type associatedData struct {
	entityID       int32
	uuid           uuid.UUID
	username       string
	renderDistance int32

	loadedChunks map[vecmath.ChunkPos]struct{}
	lastCenter   vecmath.ChunkPos

	inventory  *inventory.DataInventory
	screen     *inventory.Screen
	windowID   int32
	heldSlot   int16
	cursorItem inventory.ItemStack

	// teleportSyncSent/teleportSyncReceived implement the
	// accept-teleportation gate: a MovePlayer packet is only trusted once
	// the client has acknowledged every teleport sync sent to it.
	teleportSyncSent     int32
	teleportSyncReceived int32
	// pendingTeleport is an explicit optional, resolving spec.md §9's
	// "teleport sentinel" open question: no f64::MIN magic triple, a nil
	// pointer means "no teleport in flight".
	pendingTeleport *vecmath.Vec3F
	// pendingVelocity mirrors pendingTeleport for the teleport_velocity
	// component: a nil pointer means no velocity sync is queued.
	pendingVelocity *vecmath.Vec3F

	lastKeepAlive time.Time
}

func newAssociatedData(id uuid.UUID, username string, entityID int32, renderDistance int32) *associatedData {
	return &associatedData{
		uuid:           id,
		username:       username,
		entityID:       entityID,
		renderDistance: renderDistance,
		loadedChunks:   make(map[vecmath.ChunkPos]struct{}),
		inventory:      inventory.NewFilledDataInventory(46, inventory.Air),
		cursorItem:     inventory.Air(),
	}
}

// Connection is the per-player actor: it owns the socket, the protocol
// stage, the player's component map, and the bookkeeping in associatedData.
// It is reachable only through its Handle, and is the concrete type that
// satisfies dimension.Broadcaster.
type Connection struct {
	conn   net.Conn
	framer *Framer
	stage  Stage

	components     *component.Map
	lastComponents *component.Map
	assoc          *associatedData

	registries *registry.Container
	events     *event.Bus
	log        *logrus.Entry

	// selfDim holds the most recent dimension handle the connection joined,
	// kept strong since the player's presence is what keeps the dimension
	// worth ticking; the dimension in turn only stores a Broadcaster, not a
	// reference back that would keep the connection alive.
	selfDim dimension.Handle
	joined  bool
	self    Handle

	keypair        *rsa.PrivateKey
	onlineMode     bool
	verifyToken    []byte
	pendingName    string
	pendingUUID    uuid.UUID
	entityAlloc    *actor.Counter
	resolveDim     DefaultDimensionProvider
	renderDistance int32
	resourcePack   *ResourcePackRequest
}

// message is the connection actor's inbound message union.
type message interface {
	handle(c *Connection)
}

// Handle is the external reference to a running connection actor.
type Handle struct {
	inner actor.Handle[message]
}

// Config bundles what a newly-accepted socket needs to start its actor.
type Config struct {
	Conn       net.Conn
	Registries *registry.Container
	Events     *event.Bus
	Log        *logrus.Entry

	// Keypair is the server's RSA keypair used for the Login substage's
	// encryption key exchange. Required when OnlineMode is set.
	Keypair *rsa.PrivateKey
	// OnlineMode, when true, requires the client to complete the Mojang
	// session-server verification round trip before Login completes.
	OnlineMode bool
	// EntityAlloc is the server-wide entity id allocator, shared across all
	// connections and dimensions.
	EntityAlloc *actor.Counter
	// ResolveDimension picks the dimension a newly-joined player enters.
	ResolveDimension DefaultDimensionProvider
	// RenderDistance is the chunk-streaming radius for this connection.
	RenderDistance int32
	// ResourcePack, if non-nil, is pushed during the Config substage.
	ResourcePack *ResourcePackRequest
}

// Spawn starts a connection actor reading raw bytes have already begun
// arriving on cfg.Conn's handshake; the caller is responsible for handing
// off the accepted net.Conn immediately after accept.
func Spawn(cfg Config) Handle {
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	rd := cfg.RenderDistance
	if rd <= 0 {
		rd = 10
	}
	c := &Connection{
		conn:           cfg.Conn,
		framer:         NewFramer(),
		stage:          StageHandshake,
		components:     component.NewMap(),
		lastComponents: component.NewMap(),
		registries:     cfg.Registries,
		events:         cfg.Events,
		log:            log,
		keypair:        cfg.Keypair,
		onlineMode:     cfg.OnlineMode,
		entityAlloc:    cfg.EntityAlloc,
		resolveDim:     cfg.ResolveDimension,
		renderDistance: rd,
		resourcePack:   cfg.ResourcePack,
	}
	h := actor.Spawn(64, func() { c.tick() }, func(m message) { m.handle(c) })
	handle := Handle{inner: h}
	c.self = handle
	go c.readLoop(handle)
	return handle
}

// tick runs the keep-alive and chunk-streaming work once per actor tick.
func (c *Connection) tick() {
	if c.stage != StagePlay {
		return
	}
	c.streamChunks()
	c.sendKeepAliveIfDue()
	c.applySelfUpdate()
}

func (c *Connection) sendKeepAliveIfDue() {
	if c.assoc == nil {
		return
	}
	if time.Since(c.assoc.lastKeepAlive) < 15*time.Second {
		return
	}
	c.assoc.lastKeepAlive = time.Now()
	_ = c.framer.WriteFrame(c.conn, encodeKeepAlive(time.Now().UnixMilli()))
}

// --- dimension.Broadcaster implementation ---

type sendEntityPositionSyncMsg struct {
	entityID int32
	pos      vecmath.Vec3F
	dir      vecmath.Vec2F
}

func (m sendEntityPositionSyncMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodeEntityPositionSync(m.entityID, m.pos, m.dir))
}

// SendEntityPositionSync implements dimension.Broadcaster.
func (h Handle) SendEntityPositionSync(entityID int32, pos vecmath.Vec3F, dir vecmath.Vec2F) {
	_ = h.inner.Send(sendEntityPositionSyncMsg{entityID: entityID, pos: pos, dir: dir})
}

type sendEquipmentUpdateMsg struct {
	entityID int32
	patch    component.Patch
}

func (m sendEquipmentUpdateMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodeEquipmentUpdate(m.entityID, m.patch))
}

// SendEquipmentUpdate implements dimension.Broadcaster.
func (h Handle) SendEquipmentUpdate(entityID int32, patch component.Patch) {
	_ = h.inner.Send(sendEquipmentUpdateMsg{entityID: entityID, patch: patch})
}

type sendBlockUpdateMsg struct {
	pos        vecmath.Vec3I
	protocolID int32
}

func (m sendBlockUpdateMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodeBlockUpdate(m.pos, m.protocolID))
}

// SendBlockUpdate implements dimension.Broadcaster.
func (h Handle) SendBlockUpdate(pos vecmath.Vec3I, protocolID int32) {
	_ = h.inner.Send(sendBlockUpdateMsg{pos: pos, protocolID: protocolID})
}

type sendPlayerInfoUpdateMsg struct {
	id       uuid.UUID
	username string
}

func (m sendPlayerInfoUpdateMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodePlayerInfoUpdate(m.id, m.username, true))
}

// SendPlayerInfoUpdate implements dimension.Broadcaster.
func (h Handle) SendPlayerInfoUpdate(id uuid.UUID, username string) {
	_ = h.inner.Send(sendPlayerInfoUpdateMsg{id: id, username: username})
}

type sendAddEntityMsg struct {
	entityID   int32
	entityType component.Id
	id         uuid.UUID
	pos        vecmath.Vec3F
	dir        vecmath.Vec2F
}

func (m sendAddEntityMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodeAddEntity(m.entityID, m.entityType, m.id, m.pos, m.dir))
}

// SendAddEntity implements dimension.Broadcaster.
func (h Handle) SendAddEntity(entityID int32, entityType component.Id, id uuid.UUID, pos vecmath.Vec3F, dir vecmath.Vec2F) {
	_ = h.inner.Send(sendAddEntityMsg{entityID: entityID, entityType: entityType, id: id, pos: pos, dir: dir})
}

type sendAnimationMsg struct {
	entityID int32
	hand     int32
}

func (m sendAnimationMsg) handle(c *Connection) {
	_ = c.framer.WriteFrame(c.conn, encodeAnimation(m.entityID, m.hand))
}

// SendAnimation implements dimension.Broadcaster.
func (h Handle) SendAnimation(entityID int32, hand int32) {
	_ = h.inner.Send(sendAnimationMsg{entityID: entityID, hand: hand})
}

// PlayerCommandEvent and friends are dispatched from the play-stage packet
// handlers, not here; see play.go.

// Stop closes the connection actor's mailbox, terminating the actor. It does
// not close the socket; the read loop closes it when its own read fails.
func (h Handle) Stop() {
	h.inner.Stop()
}
