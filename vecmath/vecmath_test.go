package vecmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloorDivAndRemEuclidNegative(t *testing.T) {
	require.Equal(t, int32(-1), FloorDiv(-1, 16))
	require.Equal(t, int32(15), RemEuclid(-1, 16))
}

func TestChunkPosInvariantAllX(t *testing.T) {
	for x := int32(-200); x <= 200; x++ {
		pos, local, _ := ToChunkPos(x, 0)
		require.GreaterOrEqual(t, local, int32(0))
		require.Less(t, local, int32(16))
		require.Equal(t, x, pos.X*16+local)
	}
}

func TestIsqrtDistanceOrdering(t *testing.T) {
	require.Equal(t, int32(0), IsqrtDistance(0, 0))
	require.Equal(t, int32(1), IsqrtDistance(1, 0))
	require.Less(t, IsqrtDistance(1, 0), IsqrtDistance(1, 1))
}
