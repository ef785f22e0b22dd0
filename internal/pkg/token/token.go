package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes of entropy, rendered as 64 lowercase hex characters.
const tokenBytes = 32

// Generator produces opaque invite tokens.
type Generator interface {
	Generate() (string, error)
}

type randomGenerator struct{}

func NewGenerator() Generator {
	return randomGenerator{}
}

// Generate implements Generator.
func (randomGenerator) Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
