package player

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMojangServerHashKnownVectors(t *testing.T) {
	// Published wiki.vg digest() test vectors: the custom signed-hex SHA-1
	// over an empty server id, collapsed here to just the secret since
	// publicKey is empty for these cases.
	require.Equal(t, "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48", mojangServerHash([]byte("Notch"), nil))
	require.Equal(t, "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1", mojangServerHash([]byte("jeb_"), nil))
	require.Equal(t, "88e16a1019277b15d58faf0541e11910eb756f6", mojangServerHash([]byte("simon"), nil))
}

func TestInsertUUIDDashes(t *testing.T) {
	require.Equal(t,
		"069a79f4-44e9-4726-a5be-fca90e38aaf5",
		insertUUIDDashes("069a79f444e94726a5befca90e38aaf5"))
}

func TestInsertUUIDDashesWrongLengthPassesThrough(t *testing.T) {
	require.Equal(t, "not-a-uuid", insertUUIDDashes("not-a-uuid"))
}
