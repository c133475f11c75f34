package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/chunkdata"
	"github.com/oriumgames/wyvern/component"
	"github.com/oriumgames/wyvern/dimension"
	"github.com/oriumgames/wyvern/vecmath"
)

func testDimensionConfig() dimension.Config {
	return dimension.Config{
		MinSection: -4,
		MaxSection: 19,
		ChunkMax:   vecmath.ChunkPos{X: 32, Z: 32},
		StateTable: chunkdata.NewStateTable(),
	}
}

func TestBuilderFirstDimensionBecomesDefault(t *testing.T) {
	s := NewBuilder().
		WithDimension(component.MinecraftId("overworld"), testDimensionConfig()).
		WithDimension(component.MinecraftId("nether"), testDimensionConfig()).
		Build()

	dim, err := s.resolveDimension(nil)
	require.NoError(t, err)

	overworld, ok := s.Dimension(component.MinecraftId("overworld"))
	require.True(t, ok)
	require.Equal(t, overworld, dim)
}

func TestBuilderWithDefaultDimensionOverridesFirstRegistered(t *testing.T) {
	s := NewBuilder().
		WithDimension(component.MinecraftId("overworld"), testDimensionConfig()).
		WithDimension(component.MinecraftId("nether"), testDimensionConfig()).
		WithDefaultDimension(component.MinecraftId("nether")).
		Build()

	dim, err := s.resolveDimension(nil)
	require.NoError(t, err)

	nether, ok := s.Dimension(component.MinecraftId("nether"))
	require.True(t, ok)
	require.Equal(t, nether, dim)
}

func TestResolveDimensionUsesEventOverride(t *testing.T) {
	s := NewBuilder().
		WithDimension(component.MinecraftId("overworld"), testDimensionConfig()).
		WithDimension(component.MinecraftId("nether"), testDimensionConfig()).
		Build()

	override := component.MinecraftId("nether")
	dim, err := s.resolveDimension(&override)
	require.NoError(t, err)

	nether, ok := s.Dimension(component.MinecraftId("nether"))
	require.True(t, ok)
	require.Equal(t, nether, dim)
}

func TestResolveDimensionErrorsForUnregisteredOverride(t *testing.T) {
	s := NewBuilder().
		WithDimension(component.MinecraftId("overworld"), testDimensionConfig()).
		Build()

	override := component.MinecraftId("the_end")
	_, err := s.resolveDimension(&override)
	require.Error(t, err)
}

func TestResourcePackRequestNilWhenUnset(t *testing.T) {
	s := NewBuilder().Build()
	require.Nil(t, s.resourcePackRequest())
}

func TestResourcePackRequestMirrorsConfiguredPack(t *testing.T) {
	s := NewBuilder().
		WithResourcePack(ResourcePack{URL: "https://example.com/pack.zip", Hash: "abc123", Forced: true}).
		Build()

	req := s.resourcePackRequest()
	require.NotNil(t, req)
	require.Equal(t, "https://example.com/pack.zip", req.URL)
	require.Equal(t, "abc123", req.Hash)
	require.True(t, req.Forced)
}
