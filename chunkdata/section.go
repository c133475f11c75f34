package chunkdata

import "github.com/oriumgames/wyvern/actor"

// blocksPerSection is 16*16*16.
const blocksPerSection = 4096

// sectionBitsPerBlock is the fixed width the original RawDataArray packs
// block indices at: wide enough to address every vanilla block state
// without re-palettizing per section whenever a new state is registered.
const sectionBitsPerBlock = 15

// Section is a 16x16x16 slice of a chunk. Blocks are stored unpacked for
// O(1) get/set; Packed renders the 15-bits-per-entry wire form on demand
// via the shared bit-packing algorithm.
type Section struct {
	blocks     [blocksPerSection]int32
	BlockCount int16
	// Metadata is the sparse per-block NBT overlay, keyed by the same
	// y*256+z*16+x index as blocks.
	Metadata map[int]map[string]any
}

// NewSection returns an all-air section.
func NewSection() *Section {
	return &Section{Metadata: make(map[int]map[string]any)}
}

func blockIndex(x, y, z int32) (int, error) {
	if x < 0 || x > 15 || y < 0 || y > 15 || z < 0 || z > 15 {
		return 0, actor.NewError(actor.ErrIndexOutOfBounds, "local position (%d,%d,%d) outside section", x, y, z)
	}
	return int(y*256 + z*16 + x), nil
}

// SetBlockAt sets the block at local (x,y,z) to protocolID, adjusting
// BlockCount on a zero<->nonzero transition, and records nbt metadata if
// present (or clears it if nil).
func (s *Section) SetBlockAt(x, y, z int32, protocolID int32, nbt map[string]any) error {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return err
	}
	old := s.blocks[idx]
	if old == 0 && protocolID != 0 {
		s.BlockCount++
	} else if old != 0 && protocolID == 0 {
		s.BlockCount--
	}
	s.blocks[idx] = protocolID

	if nbt != nil {
		s.Metadata[idx] = nbt
	} else {
		delete(s.Metadata, idx)
	}
	return nil
}

// GetBlockAt returns the protocol id and optional nbt overlay at local
// (x,y,z).
func (s *Section) GetBlockAt(x, y, z int32) (protocolID int32, nbt map[string]any, err error) {
	idx, err := blockIndex(x, y, z)
	if err != nil {
		return 0, nil, err
	}
	return s.blocks[idx], s.Metadata[idx], nil
}

// IsEmpty reports whether the section contains only air.
func (s *Section) IsEmpty() bool {
	return s.BlockCount == 0
}

// Packed renders the section's block indices as the fixed
// 15-bits-per-entry packed wire form.
func (s *Section) Packed() []int64 {
	return EncodeIndices(s.blocks[:], sectionBitsPerBlock)
}

// LoadPacked replaces s's blocks from a packed 15-bit wire form and
// recomputes BlockCount. Used when hydrating a section received over the
// wire or from a generator that already produced packed data.
func (s *Section) LoadPacked(data []int64) {
	decoded := DecodeIndices(data, sectionBitsPerBlock, blocksPerSection)
	var count int16
	for i, v := range decoded {
		s.blocks[i] = v
		if v != 0 {
			count++
		}
	}
	s.BlockCount = count
}
