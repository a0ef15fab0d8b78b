package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, Length)
	assert.True(t, Valid(tok), "minted token should validate: %q", tok)
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := New()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %q after %d mints", tok, i)
		seen[tok] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("0123abcd"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("0123abc"))    // too short
	assert.False(t, Valid("0123abcde"))  // too long
	assert.False(t, Valid("0123ABCD"))   // uppercase
	assert.False(t, Valid("0123abcg"))   // non-hex
	assert.False(t, Valid("0123abc "))   // whitespace
}
