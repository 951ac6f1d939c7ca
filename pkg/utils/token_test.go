package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetTokenLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		token, err := GenerateResetToken()
		require.NoError(t, err)
		assert.Len(t, token, ResetTokenLength)

		for _, r := range token {
			assert.True(t, strings.ContainsRune(resetTokenAlphabet, r),
				"token %q contains %q outside the alphabet", token, r)
		}
	}
}

func TestGenerateResetTokenExcludesAmbiguousCharacters(t *testing.T) {
	// O, 0, I and 1 look alike in many fonts and must never appear.
	for _, r := range "O0I1" {
		assert.False(t, strings.ContainsRune(resetTokenAlphabet, r))
	}
}

func TestGenerateResetTokenVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		token, err := GenerateResetToken()
		require.NoError(t, err)
		seen[token] = true
	}
	assert.Greater(t, len(seen), 1)
}
