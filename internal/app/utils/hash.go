package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes calculates the SHA256 hash of a payload.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
