package dimension

import (
	"github.com/google/uuid"
	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
)

type spawnEntityMsg struct {
	entityType        component.Id
	playerControlled  bool
	reply             chan spawnEntityResult
}

type spawnEntityResult struct {
	id     uuid.UUID
	entity int32
}

func (m spawnEntityMsg) handle(d *Dimension) {
	m.reply <- d.spawnEntity(m.entityType, m.playerControlled)
}

// SpawnEntity creates a new EntityData with a fresh UUID (retried until
// unique within this dimension) and a fresh entity id from the shared
// allocator, returning both.
func (h Handle) SpawnEntity(entityType component.Id, playerControlled bool) (uuid.UUID, int32, error) {
	reply := make(chan spawnEntityResult, 1)
	if err := h.inner.Send(spawnEntityMsg{entityType: entityType, playerControlled: playerControlled, reply: reply}); err != nil {
		return uuid.UUID{}, 0, err
	}
	res := <-reply
	return res.id, res.entity, nil
}

func (d *Dimension) spawnEntity(entityType component.Id, playerControlled bool) spawnEntityResult {
	var id uuid.UUID
	for {
		id = uuid.New()
		if _, exists := d.entities[id]; !exists {
			break
		}
	}
	entityID := int32(d.entityAlloc.Next())
	d.entities[id] = NewEntityData(entityType, id, entityID, playerControlled)
	return spawnEntityResult{id: id, entity: entityID}
}

type removeEntityMsg struct {
	id    uuid.UUID
	reply chan error
}

func (m removeEntityMsg) handle(d *Dimension) {
	delete(d.entities, m.id)
	delete(d.players, m.id)
	m.reply <- nil
}

// RemoveEntity destroys the entity with the given uuid, if present.
func (h Handle) RemoveEntity(id uuid.UUID) error {
	reply := make(chan error, 1)
	if err := h.inner.Send(removeEntityMsg{id: id, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

type getComponentsMsg struct {
	id    uuid.UUID
	reply chan getComponentsResult
}

type getComponentsResult struct {
	components *component.Map
	err        error
}

func (m getComponentsMsg) handle(d *Dimension) {
	e, ok := d.entities[m.id]
	if !ok {
		m.reply <- getComponentsResult{err: actor.NewError(actor.ErrIndexOutOfBounds, "no entity %s", m.id)}
		return
	}
	m.reply <- getComponentsResult{components: e.Components.Clone()}
}

// Components returns a snapshot of the entity's current component map.
func (h Handle) Components(id uuid.UUID) (*component.Map, error) {
	reply := make(chan getComponentsResult, 1)
	if err := h.inner.Send(getComponentsMsg{id: id, reply: reply}); err != nil {
		return nil, err
	}
	res := <-reply
	return res.components, res.err
}

type setComponentsMsg struct {
	id    uuid.UUID
	apply func(*component.Map)
	reply chan error
}

func (m setComponentsMsg) handle(d *Dimension) {
	e, ok := d.entities[m.id]
	if !ok {
		m.reply <- actor.NewError(actor.ErrIndexOutOfBounds, "no entity %s", m.id)
		return
	}
	m.apply(e.Components)
	m.reply <- nil
}

// MutateComponents runs apply against the entity's live component map from
// inside the dimension's own goroutine, so concurrent callers never race on
// it.
func (h Handle) MutateComponents(id uuid.UUID, apply func(*component.Map)) error {
	reply := make(chan error, 1)
	if err := h.inner.Send(setComponentsMsg{id: id, apply: apply, reply: reply}); err != nil {
		return err
	}
	return <-reply
}

type joinPlayerMsg struct {
	id       uuid.UUID
	username string
	sink     Broadcaster
	reply    chan struct{}
}

func (m joinPlayerMsg) handle(d *Dimension) {
	d.players[m.id] = playerSink{uuid: m.id, username: m.username, sink: m.sink}
	m.reply <- struct{}{}
}

// JoinPlayer registers sink as the per-tick broadcast target for the player
// entity uuid, so it starts receiving position-sync and equipment updates.
func (h Handle) JoinPlayer(id uuid.UUID, username string, sink Broadcaster) error {
	reply := make(chan struct{}, 1)
	if err := h.inner.Send(joinPlayerMsg{id: id, username: username, sink: sink, reply: reply}); err != nil {
		return err
	}
	<-reply
	return nil
}

type leavePlayerMsg struct {
	id    uuid.UUID
	reply chan struct{}
}

func (m leavePlayerMsg) handle(d *Dimension) {
	delete(d.players, m.id)
	m.reply <- struct{}{}
}

// LeavePlayer unregisters uuid's broadcast sink, without removing its
// entity (callers remove the entity separately via RemoveEntity).
func (h Handle) LeavePlayer(id uuid.UUID) error {
	reply := make(chan struct{}, 1)
	if err := h.inner.Send(leavePlayerMsg{id: id, reply: reply}); err != nil {
		return err
	}
	<-reply
	return nil
}

type chunkSnapshotMsg struct {
	pos   vecmath.ChunkPos
	reply chan chunkSnapshotResult
}

type chunkSnapshotResult struct {
	chunk *chunkdata.Chunk
	err   error
}

func (m chunkSnapshotMsg) handle(d *Dimension) {
	if !d.withinChunkMax(m.pos) {
		m.reply <- chunkSnapshotResult{err: actor.NewError(actor.ErrIndexOutOfBounds, "chunk %v outside chunk_max", m.pos)}
		return
	}
	m.reply <- chunkSnapshotResult{chunk: d.chunkOrInit(m.pos)}
}

// ChunkSnapshot returns the chunk at pos, lazily generating it on first
// touch if it's within bounds. The per-tick chunk-streaming algorithm in
// the player package calls this to render a LevelChunkWithLight payload.
func (h Handle) ChunkSnapshot(pos vecmath.ChunkPos) (*chunkdata.Chunk, error) {
	reply := make(chan chunkSnapshotResult, 1)
	if err := h.inner.Send(chunkSnapshotMsg{pos: pos, reply: reply}); err != nil {
		return nil, err
	}
	res := <-reply
	return res.chunk, res.err
}

// PlayerInfo is a lightweight snapshot of one connected player's identity,
// used by the join handshake to replay existing players to a newly-joined
// connection.
type PlayerInfo struct {
	UUID     uuid.UUID
	Username string
}

type playersMsg struct {
	reply chan []PlayerInfo
}

func (m playersMsg) handle(d *Dimension) {
	out := make([]PlayerInfo, 0, len(d.players))
	for _, p := range d.players {
		out = append(out, PlayerInfo{UUID: p.uuid, Username: p.username})
	}
	m.reply <- out
}

// Players returns a snapshot of every player currently joined to this
// dimension.
func (h Handle) Players() ([]PlayerInfo, error) {
	reply := make(chan []PlayerInfo, 1)
	if err := h.inner.Send(playersMsg{reply: reply}); err != nil {
		return nil, err
	}
	return <-reply, nil
}

// EntityInfo is a lightweight snapshot of one entity's identity and
// transform, used by the join handshake to spawn every existing entity for
// a newly-joined connection.
type EntityInfo struct {
	UUID       uuid.UUID
	EntityID   int32
	EntityType component.Id
	Pos        vecmath.Vec3F
	Dir        vecmath.Vec2F
}

type entitiesMsg struct {
	reply chan []EntityInfo
}

func (m entitiesMsg) handle(d *Dimension) {
	out := make([]EntityInfo, 0, len(d.entities))
	for id, e := range d.entities {
		out = append(out, EntityInfo{
			UUID:       id,
			EntityID:   component.GetOr(e.Components, CompEntityID, int32(0)),
			EntityType: component.GetOr(e.Components, CompEntityType, component.Id{}),
			Pos:        component.GetOr(e.Components, CompPosition, vecmath.Vec3F{}),
			Dir:        component.GetOr(e.Components, CompDirection, vecmath.Vec2F{}),
		})
	}
	m.reply <- out
}

// Entities returns a snapshot of every entity currently in this dimension,
// players included.
func (h Handle) Entities() ([]EntityInfo, error) {
	reply := make(chan []EntityInfo, 1)
	if err := h.inner.Send(entitiesMsg{reply: reply}); err != nil {
		return nil, err
	}
	return <-reply, nil
}

type broadcastPlayerInfoMsg struct {
	id       uuid.UUID
	username string
	reply    chan struct{}
}

func (m broadcastPlayerInfoMsg) handle(d *Dimension) {
	for _, p := range d.players {
		go func(sink Broadcaster) { sink.SendPlayerInfoUpdate(m.id, m.username) }(p.sink)
	}
	m.reply <- struct{}{}
}

// BroadcastPlayerInfo fans an AddPlayer(+Listed) entry for id/username out
// to every player currently joined to this dimension, per the join
// handshake's "broadcast this player's info" step.
func (h Handle) BroadcastPlayerInfo(id uuid.UUID, username string) error {
	reply := make(chan struct{}, 1)
	if err := h.inner.Send(broadcastPlayerInfoMsg{id: id, username: username, reply: reply}); err != nil {
		return err
	}
	<-reply
	return nil
}

type broadcastAnimationMsg struct {
	entityID int32
	exclude  uuid.UUID
	hand     int32
	reply    chan struct{}
}

func (m broadcastAnimationMsg) handle(d *Dimension) {
	for id, p := range d.players {
		if id == m.exclude {
			continue
		}
		go func(sink Broadcaster) { sink.SendAnimation(m.entityID, m.hand) }(p.sink)
	}
	m.reply <- struct{}{}
}

// BroadcastAnimation fans a Swing animation for entityID out to every other
// player in this dimension, excluding the swinging player itself.
func (h Handle) BroadcastAnimation(entityID int32, exclude uuid.UUID, hand int32) error {
	reply := make(chan struct{}, 1)
	if err := h.inner.Send(broadcastAnimationMsg{entityID: entityID, exclude: exclude, hand: hand, reply: reply}); err != nil {
		return err
	}
	<-reply
	return nil
}
