package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const ResetTokenLength = 8

// resetTokenAlphabet deliberately excludes O, 0, I and 1 so tokens can be
// read over the phone without ambiguity.
const resetTokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateResetToken returns a cryptographically random token drawn from
// the unambiguous alphabet.
func GenerateResetToken() (string, error) {
	token := make([]byte, ResetTokenLength)
	max := big.NewInt(int64(len(resetTokenAlphabet)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate reset token: %w", err)
		}
		token[i] = resetTokenAlphabet[n.Int64()]
	}
	return string(token), nil
}
