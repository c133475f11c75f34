package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	health = NewComponentType[float64](MinecraftId("health"))
	name   = NewComponentType[string](MinecraftId("name"))
)

func TestSetGetRoundTrip(t *testing.T) {
	m := NewMap()
	Set(m, health, 20.0)
	v, err := Get(m, health)
	require.NoError(t, err)
	require.Equal(t, 20.0, v)
}

func TestGetMissingFails(t *testing.T) {
	m := NewMap()
	_, err := Get(m, health)
	require.Error(t, err)
	require.ErrorContains(t, err, "ComponentNotFound")
}

func TestWithBuilderChaining(t *testing.T) {
	m := With(With(NewMap(), health, 20.0), name, "alice")
	h, err := Get(m, health)
	require.NoError(t, err)
	require.Equal(t, 20.0, h)
	n, err := Get(m, name)
	require.NoError(t, err)
	require.Equal(t, "alice", n)
}

func TestPatchAddedAndRemoved(t *testing.T) {
	a := With(NewMap(), health, 20.0)
	b := With(With(NewMap(), health, 18.0), name, "alice")

	patch := ComputePatch(a, b)
	require.Contains(t, patch.Added, health.Id())
	require.Contains(t, patch.Added, name.Id())
	require.Empty(t, patch.Removed)

	patch2 := ComputePatch(b, a)
	require.Contains(t, patch2.Removed, name.Id())
}

func TestPatchOfIdenticalMapsIsEmpty(t *testing.T) {
	a := With(NewMap(), health, 20.0)
	patch := ComputePatch(a, a.Clone())
	require.True(t, patch.IsEmpty())
}

func TestPatchApplyToIdempotence(t *testing.T) {
	a := With(NewMap(), health, 20.0)
	b := With(With(NewMap(), health, 18.0), name, "alice")

	patch := ComputePatch(a, b)
	applied := patch.ApplyTo(a)

	h, err := Get(applied, health)
	require.NoError(t, err)
	require.Equal(t, 18.0, h)
	n, err := Get(applied, name)
	require.NoError(t, err)
	require.Equal(t, "alice", n)
}
