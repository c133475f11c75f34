package chunkdata

import (
	"github.com/oriumgames/wyvern/actor"
	"github.com/oriumgames/wyvern/component"
)

// BlockPos is a local-to-chunk block position, x/z in [0,16) and y absolute.
type BlockPos struct {
	X, Y, Z int16
}

// Chunk is a vertical stack of sections at a fixed (x,z), spanning
// min_section..max_section inclusive, with a sparse block-entity map.
type Chunk struct {
	X, Z        int32
	MinSection  int32
	MaxSection  int32
	Sections    []*Section
	BlockEntities map[BlockPos]component.Id
}

// NewChunk allocates a chunk with every section pre-filled as empty air,
// spanning [minSection, maxSection] inclusive.
func NewChunk(x, z, minSection, maxSection int32) *Chunk {
	count := int(maxSection-minSection) + 1
	sections := make([]*Section, count)
	for i := range sections {
		sections[i] = NewSection()
	}
	return &Chunk{
		X: x, Z: z,
		MinSection: minSection, MaxSection: maxSection,
		Sections:      sections,
		BlockEntities: make(map[BlockPos]component.Id),
	}
}

// sectionIndex converts an absolute section-y (world-y / 16, floored) to
// an index into Sections.
func (c *Chunk) sectionIndex(sectionY int32) (int, error) {
	idx := sectionY - c.MinSection
	if idx < 0 || int(idx) >= len(c.Sections) {
		return 0, actor.NewError(actor.ErrIndexOutOfBounds, "section y %d outside [%d,%d]", sectionY, c.MinSection, c.MaxSection)
	}
	return int(idx), nil
}

// Section returns the section containing absolute section-y sectionY.
func (c *Chunk) Section(sectionY int32) (*Section, error) {
	idx, err := c.sectionIndex(sectionY)
	if err != nil {
		return nil, err
	}
	return c.Sections[idx], nil
}

// BlockEntityResolver returns the block-entity type id a block name maps to
// and true, or false if the block carries no block entity. Populated by the
// dimension layer's block-entity registry; chunkdata only stores the
// result, it doesn't decide it.
type BlockEntityResolver func(name component.Id) (component.Id, bool)

// SetBlock sets the block at local chunk position (x, absoluteY, z) on the
// appropriate section, and updates the block-entity sparse map according to
// resolve.
func (c *Chunk) SetBlock(x, absoluteY, z int32, protocolID int32, nbt map[string]any, name component.Id, resolve BlockEntityResolver) error {
	sectionY := floorDivSection(absoluteY)
	section, err := c.Section(sectionY)
	if err != nil {
		return err
	}
	localY := absoluteY - sectionY*16
	if err := section.SetBlockAt(x, localY, z, protocolID, nbt); err != nil {
		return err
	}

	pos := BlockPos{X: int16(x), Y: int16(absoluteY), Z: int16(z)}
	if beType, ok := resolve(name); ok {
		c.BlockEntities[pos] = beType
	} else {
		delete(c.BlockEntities, pos)
	}
	return nil
}

// GetBlock returns the protocol id and nbt overlay at local chunk position
// (x, absoluteY, z).
func (c *Chunk) GetBlock(x, absoluteY, z int32) (protocolID int32, nbt map[string]any, err error) {
	sectionY := floorDivSection(absoluteY)
	section, err := c.Section(sectionY)
	if err != nil {
		return 0, nil, err
	}
	localY := absoluteY - sectionY*16
	return section.GetBlockAt(x, localY, z)
}

func floorDivSection(y int32) int32 {
	if y >= 0 {
		return y / 16
	}
	q := y / 16
	if y%16 != 0 {
		q--
	}
	return q
}
