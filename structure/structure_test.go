package structure

import (
	"testing"

	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/vecmath"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := &Structure{
		Size: vecmath.Vec3I{X: 2, Y: 2, Z: 2},
		Palette: []chunkdata.BlockState{
			{Name: component.MinecraftId("air")},
			{Name: component.MinecraftId("stone")},
		},
		Blocks: []Block{
			{Pos: vecmath.Vec3I{X: 0, Y: 0, Z: 0}, PaletteIndex: 1},
		},
		DataVersion: 3953,
	}

	data, err := Encode(s)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, s.Size, decoded.Size)
	require.Equal(t, s.DataVersion, decoded.DataVersion)
	require.Len(t, decoded.Blocks, 1)
	require.Equal(t, s.Blocks[0].Pos, decoded.Blocks[0].Pos)
	require.Len(t, decoded.Palette, 2)
}
