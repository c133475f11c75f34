package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oriumgames/wyvern/component"
)

func TestBuilderAddAccumulatesEntriesPerKind(t *testing.T) {
	c := NewBuilder().
		Add(Biome, Entry{ID: component.MinecraftId("plains")}).
		Add(Biome, Entry{ID: component.MinecraftId("desert")}).
		Build()

	entries := c.Entries(Biome)
	require.Len(t, entries, 2)
	require.Equal(t, component.MinecraftId("plains"), entries[0].ID)
	require.Equal(t, component.MinecraftId("desert"), entries[1].ID)
}

func TestContainerEntriesEmptyForUnregisteredKind(t *testing.T) {
	c := NewBuilder().Build()
	require.Empty(t, c.Entries(Biome))
}

func TestAddDefaultsPopulatesEveryKind(t *testing.T) {
	c := NewBuilder().AddDefaults().Build()

	for _, kind := range AllKinds {
		require.NotEmptyf(t, c.Entries(kind), "kind %q should have a default entry", kind)
	}
}

func TestBuildSnapshotIsIndependentOfLaterBuilderMutation(t *testing.T) {
	b := NewBuilder().Add(Biome, Entry{ID: component.MinecraftId("plains")})
	c := b.Build()

	b.Add(Biome, Entry{ID: component.MinecraftId("desert")})

	require.Len(t, c.Entries(Biome), 1, "Container snapshot must not see entries added after Build")
}
