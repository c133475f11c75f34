package player

import (
	"math"
	"sort"

	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
)

// streamChunks runs the per-tick chunk-streaming algorithm: recompute the
// center chunk from the player's live position, trim any loaded chunk that
// has drifted past render_distance/2 + 2 (L1 distance), then send at most
// one new chunk to the client, picking the nearest unsent candidate by
// isqrt distance. Sending only one chunk per tick bounds a single tick's
// outbound bandwidth regardless of how far the player just teleported.
func (c *Connection) streamChunks() {
	if !c.joined {
		return
	}

	comps, err := c.selfDim.Components(c.assoc.uuid)
	if err != nil {
		return
	}
	position := component.GetOr(comps, dimension.CompPosition, vecmath.Vec3F{})
	center, _, _ := vecmath.ToChunkPos(floorF64(position.X), floorF64(position.Z))
	c.assoc.lastCenter = center

	trimDist := c.assoc.renderDistance/2 + 2
	for pos := range c.assoc.loadedChunks {
		if vecmath.L1Distance(pos, center) > trimDist {
			delete(c.assoc.loadedChunks, pos)
		}
	}

	candidate, found := c.nextChunkCandidate(center)
	if !found {
		return
	}

	chunk, err := c.selfDim.ChunkSnapshot(candidate)
	if err != nil {
		// Outside chunk_max: mark it loaded anyway so streamChunks doesn't
		// retry it every tick forever.
		c.assoc.loadedChunks[candidate] = struct{}{}
		return
	}

	_ = c.framer.WriteFrame(c.conn, encodeChunkPacket(candidate, chunk))
	c.assoc.loadedChunks[candidate] = struct{}{}
}

// nextChunkCandidate returns the nearest not-yet-loaded chunk within
// render_distance of center, sorted by isqrt distance, or found=false if
// every chunk in range is already loaded.
func (c *Connection) nextChunkCandidate(center vecmath.ChunkPos) (vecmath.ChunkPos, bool) {
	rd := c.assoc.renderDistance
	var candidates []vecmath.ChunkPos
	for dx := -rd; dx <= rd; dx++ {
		for dz := -rd; dz <= rd; dz++ {
			p := vecmath.ChunkPos{X: center.X + dx, Z: center.Z + dz}
			if _, ok := c.assoc.loadedChunks[p]; ok {
				continue
			}
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return vecmath.ChunkPos{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di := vecmath.IsqrtDistance(candidates[i].X-center.X, candidates[i].Z-center.Z)
		dj := vecmath.IsqrtDistance(candidates[j].X-center.X, candidates[j].Z-center.Z)
		return di < dj
	})
	return candidates[0], true
}

func floorF64(v float64) int32 {
	return int32(math.Floor(v))
}

const packetLevelChunk = 0x2C

// encodeChunkPacket renders a full chunk as a single LevelChunkWithLight-
// shaped packet: chunk coordinates, then each section's block count and
// packed palette indices, then the sparse block-entity list. Lighting data
// is out of scope (spec.md names no lighting engine), so no light arrays
// are emitted; vanilla clients re-request light from neighbors as needed.
func encodeChunkPacket(pos vecmath.ChunkPos, chunk *chunkdata.Chunk) []byte {
	buf := newPacket(packetLevelChunk)
	writeInt32(buf, pos.X)
	writeInt32(buf, pos.Z)

	_ = writeUVarInt(buf, int32(len(chunk.Sections)))
	for _, section := range chunk.Sections {
		if section == nil {
			writeInt32(buf, 0)
			_ = writeUVarInt(buf, 0)
			continue
		}
		var count int32
		if section.BlockCount > 0 {
			count = int32(section.BlockCount)
		}
		writeInt32(buf, count)
		packed := section.Packed()
		_ = writeUVarInt(buf, int32(len(packed)))
		for _, v := range packed {
			writeInt64(buf, v)
		}
	}

	_ = writeUVarInt(buf, int32(len(chunk.BlockEntities)))
	for blockPos, entityType := range chunk.BlockEntities {
		writeInt32(buf, int32(blockPos.X))
		writeInt32(buf, int32(blockPos.Y))
		writeInt32(buf, int32(blockPos.Z))
		writeString(buf, entityType.String())
	}

	return buf.Bytes()
}
