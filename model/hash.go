package model

import (
	"crypto/sha1"
	"encoding/hex"
)

// hashString derives a short opaque ETag value from its input. SHA-1 is
// sufficient here since the value is never treated as a security primitive.
func hashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
