package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateCode returns a random hex string of 2*length characters.
func GenerateCode(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating random code: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
