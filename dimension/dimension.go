package dimension

import (
	"github.com/google/uuid"
	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

// Generator populates a freshly-initialized chunk's starting blocks.
type Generator func(chunk *chunkdata.Chunk, chunkX, chunkZ int32)

// Broadcaster is the per-player outbound sink a Dimension drives. It is
// implemented by the player package's Connection; defined here (rather than
// imported) to avoid a dimension<->player import cycle, matching spec.md
// §9's "Cyclic ownership" note that both sides of a cyclic relationship
// should be weak references into the other's actor.
type Broadcaster interface {
	// SendEntityPositionSync delivers an EntityPositionSync+RotateHead pair
	// for the given entity; a player entity's own connection is skipped by
	// the caller.
	SendEntityPositionSync(entityID int32, pos vecmath.Vec3F, dir vecmath.Vec2F)
	// SendEquipmentUpdate delivers equipment-slot changes for entityID.
	SendEquipmentUpdate(entityID int32, patch component.Patch)
	// SendBlockUpdate delivers a single block change.
	SendBlockUpdate(pos vecmath.Vec3I, protocolID int32)
	// SendPlayerInfoUpdate delivers an AddPlayer(+Listed) entry for a
	// single player, used both to broadcast a newly-joined player to the
	// rest of the dimension and to replay existing players to it.
	SendPlayerInfoUpdate(id uuid.UUID, username string)
	// SendAddEntity spawns a non-owned entity on the receiving connection,
	// used to replay a dimension's existing population to a newly-joined
	// player.
	SendAddEntity(entityID int32, entityType component.Id, id uuid.UUID, pos vecmath.Vec3F, dir vecmath.Vec2F)
	// SendAnimation delivers a Swing/animation packet for entityID.
	SendAnimation(entityID int32, hand int32)
}

type playerSink struct {
	uuid     uuid.UUID
	username string
	sink     Broadcaster
}

// Dimension owns a chunk map, an entity map, the chunk generator, and the
// tick loop. It is reachable only through its Handle.
type Dimension struct {
	id          component.Id
	minSection  int32
	maxSection  int32
	chunkMax    vecmath.ChunkPos
	generator   Generator
	stateTable  *chunkdata.StateTable
	entityAlloc *actor.Counter

	chunks   map[vecmath.ChunkPos]*chunkdata.Chunk
	entities map[uuid.UUID]*EntityData
	players  map[uuid.UUID]playerSink

	resolveBlockEntity chunkdata.BlockEntityResolver
}

// Config configures a new Dimension.
type Config struct {
	ID          component.Id
	MinSection  int32
	MaxSection  int32
	ChunkMax    vecmath.ChunkPos
	Generator   Generator
	StateTable  *chunkdata.StateTable
	EntityAlloc *actor.Counter
	// ResolveBlockEntity maps a block name to its block-entity type, if
	// any. Nil means no blocks carry block entities.
	ResolveBlockEntity chunkdata.BlockEntityResolver
}

func newState(cfg Config) *Dimension {
	resolve := cfg.ResolveBlockEntity
	if resolve == nil {
		resolve = func(component.Id) (component.Id, bool) { return component.Id{}, false }
	}
	return &Dimension{
		id:                 cfg.ID,
		minSection:         cfg.MinSection,
		maxSection:         cfg.MaxSection,
		chunkMax:           cfg.ChunkMax,
		generator:          cfg.Generator,
		stateTable:         cfg.StateTable,
		entityAlloc:        cfg.EntityAlloc,
		chunks:             make(map[vecmath.ChunkPos]*chunkdata.Chunk),
		entities:           make(map[uuid.UUID]*EntityData),
		players:            make(map[uuid.UUID]playerSink),
		resolveBlockEntity: resolve,
	}
}

// message is the actor's internal message union; each variant implements
// handle against the owning goroutine's exclusive state.
type message interface {
	handle(d *Dimension)
}

// Handle is the cloneable reference external callers use to talk to a
// running Dimension actor.
type Handle struct {
	inner actor.Handle[message]
}

// Spawn starts a Dimension actor and returns a Handle to it.
func Spawn(cfg Config) Handle {
	d := newState(cfg)
	h := actor.Spawn(256, func() { d.tick() }, func(m message) { m.handle(d) })
	return Handle{inner: h}
}

// Weak returns a non-owning reference.
func (h Handle) Weak() WeakHandle {
	return WeakHandle{inner: h.inner.Weak()}
}

// WeakHandle is Handle's non-owning counterpart, suitable for storing
// inside another actor (e.g. a player connection's "current dimension")
// without keeping the dimension alive past its own lifetime.
type WeakHandle struct {
	inner actor.WeakHandle[message]
}

// Upgrade recovers a strong Handle.
func (w WeakHandle) Upgrade() Handle {
	return Handle{inner: w.inner.Upgrade()}
}

// --- set/get block ---

type setBlockMsg struct {
	pos     vecmath.Vec3I
	state   chunkdata.BlockState
	nbt     map[string]any
	reply   chan error
}

func (m setBlockMsg) handle(d *Dimension) {
	m.reply <- d.setBlock(m.pos, m.state, m.nbt)
}

// SetBlock mutates the block at pos to state, initializing its chunk if
// absent and within chunkMax, then broadcasts a BlockUpdate to every
// connected player in this dimension. Edge cases: y outside
// [minSection*16, (maxSection+1)*16) is silently dropped; chunk coordinates
// outside chunkMax are dropped.
func (h Handle) SetBlock(pos vecmath.Vec3I, state chunkdata.BlockState, nbt map[string]any) error {
	reply := make(chan error, 1)
	if err := h.inner.Send(setBlockMsg{pos: pos, state: state, nbt: nbt, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

type getBlockMsg struct {
	pos   vecmath.Vec3I
	reply chan getBlockResult
}

type getBlockResult struct {
	state chunkdata.BlockState
	err   error
}

func (m getBlockMsg) handle(d *Dimension) {
	state, err := d.getBlock(m.pos)
	m.reply <- getBlockResult{state: state, err: err}
}

// GetBlock reads the block state at pos. Out-of-height positions return
// Air, never an error.
func (h Handle) GetBlock(pos vecmath.Vec3I) (chunkdata.BlockState, error) {
	reply := make(chan getBlockResult, 1)
	if err := h.inner.Send(getBlockMsg{pos: pos, reply: reply}); err != nil {
		return chunkdata.BlockState{}, err
	}
	res := <-reply
	return res.state, res.err
}

func (d *Dimension) setBlock(pos vecmath.Vec3I, state chunkdata.BlockState, nbt map[string]any) error {
	chunkPos, localX, localZ := vecmath.ToChunkPos(pos.X, pos.Z)
	if !d.withinChunkMax(chunkPos) {
		return nil
	}
	minY := d.minSection * 16
	maxY := (d.maxSection + 1) * 16
	if pos.Y < minY || pos.Y >= maxY {
		return nil
	}

	chunk := d.chunkOrInit(chunkPos)
	id := d.stateTable.Register(state)
	if err := chunk.SetBlock(localX, pos.Y, localZ, id, nbt, state.Name, d.resolveBlockEntity); err != nil {
		return err
	}

	d.broadcastBlockUpdate(pos, id)
	return nil
}

func (d *Dimension) getBlock(pos vecmath.Vec3I) (chunkdata.BlockState, error) {
	chunkPos, localX, localZ := vecmath.ToChunkPos(pos.X, pos.Z)
	if !d.withinChunkMax(chunkPos) {
		return chunkdata.Air, nil
	}
	minY := d.minSection * 16
	maxY := (d.maxSection + 1) * 16
	if pos.Y < minY || pos.Y >= maxY {
		return chunkdata.Air, nil
	}

	chunk, ok := d.chunks[chunkPos]
	if !ok {
		return chunkdata.Air, nil
	}
	id, _, err := chunk.GetBlock(localX, pos.Y, localZ)
	if err != nil {
		return chunkdata.Air, nil
	}
	state, err := d.stateTable.State(id)
	if err != nil {
		return chunkdata.Air, nil
	}
	return state, nil
}

// withinChunkMax implements the symmetric bound resolving spec.md's noted
// open question (the original source checked only an upper bound).
func (d *Dimension) withinChunkMax(pos vecmath.ChunkPos) bool {
	return abs32(pos.X) <= d.chunkMax.X && abs32(pos.Z) <= d.chunkMax.Z
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// chunkOrInit returns the chunk at pos, running the generator exactly once
// on first touch if it doesn't exist yet.
func (d *Dimension) chunkOrInit(pos vecmath.ChunkPos) *chunkdata.Chunk {
	if c, ok := d.chunks[pos]; ok {
		return c
	}
	c := chunkdata.NewChunk(pos.X, pos.Z, d.minSection, d.maxSection)
	if d.generator != nil {
		d.generator(c, pos.X, pos.Z)
	}
	d.chunks[pos] = c
	return c
}

// broadcastBlockUpdate fans a block change out to every connected player in
// this dimension as a fire-and-forget background task per spec.md §5:
// arrival order relative to other packets from this dimension is not
// guaranteed.
func (d *Dimension) broadcastBlockUpdate(pos vecmath.Vec3I, protocolID int32) {
	for _, p := range d.players {
		go func(sink Broadcaster) { sink.SendBlockUpdate(pos, protocolID) }(p.sink)
	}
}
