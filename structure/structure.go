// Package structure implements the serializable multi-block-palette
// structure format: size, a flat block list referencing a shared palette,
// and a data version, plus the StructureSplitter utility for placing
// structures too large for a single region.
package structure

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Block is one entry in a Structure's block list: a position, an index
// into Palette, and an optional NBT payload (for block entities).
type Block struct {
	Pos          vecmath.Vec3I
	PaletteIndex int32
	NBT          map[string]any
}

// Structure is the codec's in-memory form.
type Structure struct {
	Size        vecmath.Vec3I
	Blocks      []Block
	Palette     []chunkdata.BlockState
	DataVersion int32
}

// wireStructure mirrors the NBT map-codec layout from spec.md §6:
// size(3 int32), blocks(list of {pos,state,nbt}), palette(list of
// BlockState compound), entities(unit/empty), DataVersion(int32).
type wireStructure struct {
	Size        [3]int32         `nbt:"size"`
	Blocks      []wireBlock       `nbt:"blocks"`
	Palette     []wireBlockState  `nbt:"palette"`
	Entities    []map[string]any  `nbt:"entities"`
	DataVersion int32             `nbt:"DataVersion"`
}

type wireBlock struct {
	Pos   [3]int32       `nbt:"pos"`
	State int32          `nbt:"state"`
	NBT   map[string]any `nbt:"nbt,omitempty"`
}

type wireBlockState struct {
	Name       string            `nbt:"Name"`
	Properties map[string]string `nbt:"Properties,omitempty"`
}

// Encode renders s as binary NBT.
func Encode(s *Structure) ([]byte, error) {
	w := wireStructure{
		Size:        [3]int32{s.Size.X, s.Size.Y, s.Size.Z},
		DataVersion: s.DataVersion,
	}
	for _, b := range s.Blocks {
		w.Blocks = append(w.Blocks, wireBlock{
			Pos:   [3]int32{b.Pos.X, b.Pos.Y, b.Pos.Z},
			State: b.PaletteIndex,
			NBT:   b.NBT,
		})
	}
	for _, p := range s.Palette {
		props := make(map[string]string, len(p.Properties))
		for _, prop := range p.Properties {
			props[prop.Key] = prop.Value
		}
		w.Palette = append(w.Palette, wireBlockState{Name: p.Name.String(), Properties: props})
	}

	var nbtBuf bytes.Buffer
	if err := nbt.NewEncoder(&nbtBuf).Encode(w); err != nil {
		return nil, err
	}

	// The structure file format leaves its physical on-disk compression
	// unspecified; zstd matches the teacher's world-save codec choice.
	zw, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer zw.Close()
	return zw.EncodeAll(nbtBuf.Bytes(), nil), nil
}

// Decode parses zstd-compressed binary NBT, as written by Encode, into a
// Structure. Palette properties are stored as an NBT map, so a state with
// more than one property comes back with its properties in map iteration
// order rather than their original order.
func Decode(data []byte) (*Structure, error) {
	zr, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := zr.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	var w wireStructure
	if err := nbt.NewDecoder(bytes.NewReader(raw)).Decode(&w); err != nil {
		return nil, err
	}

	s := &Structure{
		Size:        vecmath.Vec3I{X: w.Size[0], Y: w.Size[1], Z: w.Size[2]},
		DataVersion: w.DataVersion,
	}
	for _, b := range w.Blocks {
		s.Blocks = append(s.Blocks, Block{
			Pos:          vecmath.Vec3I{X: b.Pos[0], Y: b.Pos[1], Z: b.Pos[2]},
			PaletteIndex: b.State,
			NBT:          b.NBT,
		})
	}
	for _, p := range w.Palette {
		var props []chunkdata.Property
		for k, v := range p.Properties {
			props = append(props, chunkdata.Property{Key: k, Value: v})
		}
		s.Palette = append(s.Palette, chunkdata.BlockState{
			Name:       component.ParseId(p.Name),
			Properties: props,
		})
	}
	return s, nil
}

// Place applies every block in s to dim, shifted by offset.
func Place(s *Structure, dim dimension.Handle, offset vecmath.Vec3I) error {
	for _, b := range s.Blocks {
		if b.PaletteIndex < 0 || int(b.PaletteIndex) >= len(s.Palette) {
			continue
		}
		state := s.Palette[b.PaletteIndex]
		pos := vecmath.Vec3I{X: b.Pos.X + offset.X, Y: b.Pos.Y + offset.Y, Z: b.Pos.Z + offset.Z}
		if err := dim.SetBlock(pos, state, b.NBT); err != nil {
			return err
		}
	}
	return nil
}
