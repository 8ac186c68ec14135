package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateUUID returns a random UUID v4 string. Used for batch job IDs.
func GenerateUUID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// a zeroed ID is still well formed.
		b = make([]byte, 16)
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}

// GenerateShortID returns an 8-hex-character ID for log correlation.
func GenerateShortID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
