package structure

import (
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
)

// Splitter breaks a Structure too large for one region into chunk-sized
// pieces, each placeable independently. Supplemented from the original
// source's StructureSplitter, which spec.md's distillation of the
// Structure section omits.
type Splitter struct {
	Max vecmath.Vec3I
}

// Split partitions s's blocks into one Structure per Max-sized region,
// keyed by region origin, preserving the full shared palette in each
// piece.
func (sp Splitter) Split(s *Structure) map[vecmath.Vec3I]*Structure {
	regions := make(map[vecmath.Vec3I]*Structure)

	regionOf := func(pos vecmath.Vec3I) vecmath.Vec3I {
		return vecmath.Vec3I{
			X: floorDiv(pos.X, sp.Max.X),
			Y: floorDiv(pos.Y, sp.Max.Y),
			Z: floorDiv(pos.Z, sp.Max.Z),
		}
	}

	for _, b := range s.Blocks {
		key := regionOf(b.Pos)
		piece, ok := regions[key]
		if !ok {
			piece = &Structure{Size: sp.Max, Palette: s.Palette, DataVersion: s.DataVersion}
			regions[key] = piece
		}
		local := Block{
			Pos:          vecmath.Vec3I{X: b.Pos.X - key.X*sp.Max.X, Y: b.Pos.Y - key.Y*sp.Max.Y, Z: b.Pos.Z - key.Z*sp.Max.Z},
			PaletteIndex: b.PaletteIndex,
			NBT:          b.NBT,
		}
		piece.Blocks = append(piece.Blocks, local)
	}

	return regions
}

// PlaceSplit places every piece of a previously-Split structure onto dim,
// offsetting each piece back to its original region origin plus offset.
func (sp Splitter) PlaceSplit(pieces map[vecmath.Vec3I]*Structure, dim dimension.Handle, offset vecmath.Vec3I) error {
	for regionOrigin, piece := range pieces {
		pieceOffset := vecmath.Vec3I{
			X: offset.X + regionOrigin.X*sp.Max.X,
			Y: offset.Y + regionOrigin.Y*sp.Max.Y,
			Z: offset.Z + regionOrigin.Z*sp.Max.Z,
		}
		if err := Place(piece, dim, pieceOffset); err != nil {
			return err
		}
	}
	return nil
}

func floorDiv(a, b int32) int32 {
	if b == 0 {
		return 0
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
