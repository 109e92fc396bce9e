package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateActionToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := GenerateActionToken()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err, "token must be URL-safe base64")
		assert.Len(t, raw, actionTokenBytes)

		_, dup := seen[token]
		require.False(t, dup, "tokens must not repeat")
		seen[token] = struct{}{}
	}
}

func TestHashActionToken(t *testing.T) {
	h1 := HashActionToken("some-token")
	h2 := HashActionToken("some-token")
	h3 := HashActionToken("other-token")

	assert.Equal(t, h1, h2, "hash must be deterministic")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64, "hex sha256")
	assert.NotContains(t, h1, "some-token")
}
