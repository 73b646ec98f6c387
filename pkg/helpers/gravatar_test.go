package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGravatarURL(t *testing.T) {
	u := GravatarURL("demo@example.com")
	require.Contains(t, u, "https://www.gravatar.com/avatar/")
	require.Contains(t, u, "s=200")
	require.Contains(t, u, "d=identicon")

	// hash is over the trimmed, lowercased address
	require.Equal(t, u, GravatarURL("  Demo@Example.COM  "))
	require.NotEqual(t, u, GravatarURL("other@example.com"))
}
