package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	rawBytes = 4
	// Length of a rendered session token in hex characters.
	Length = rawBytes * 2
)

// New mints a session token: 4 bytes from a cryptographically strong random
// source, rendered as 8 lowercase hex characters. Tokens are never
// client-chosen.
func New() (string, error) {
	var b [rawBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read random bytes failed: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

// Valid reports whether s has the shape of a minted token.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
