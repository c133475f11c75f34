package attribute

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetReturnsFalseForUnsetAttribute(t *testing.T) {
	c := NewContainer()
	_, ok := c.Get(MaxHealth)
	require.False(t, ok)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	c := NewContainer()
	c.Set(MaxHealth, 20)

	v, ok := c.Get(MaxHealth)
	require.True(t, ok)
	require.Equal(t, float64(20), v)
}

func TestEntriesOnlyIncludesPresentAttributesInStableOrder(t *testing.T) {
	c := NewContainer()
	c.Set(FollowRange, 32)
	c.Set(AttackSpeed, 4)

	entries := c.Entries()
	require.Equal(t, []Entry{
		{ID: AttackSpeed, Value: 4},
		{ID: FollowRange, Value: 32},
	}, entries)
}

func TestEntriesEmptyForFreshContainer(t *testing.T) {
	c := NewContainer()
	require.Empty(t, c.Entries())
}
