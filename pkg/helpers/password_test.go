package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CompareHashAndPassword(hash, "hunter22"))
	require.False(t, CompareHashAndPassword(hash, "hunter23"))
	require.False(t, CompareHashAndPassword("not-a-hash", "hunter22"))
}
