package utils // package utils provides small helpers shared across the gateway

import (
	"crypto/rand"   // secure random number generation
	"encoding/hex"  // hex encoding for opaque identifiers
)

// NewSessionID returns an opaque identifier for a booking session. Session
// ids are capability-like: they appear in URLs and must be unguessable, so
// they come from the CSPRNG rather than a counter. 16 bytes -> 32 hex chars.
func NewSessionID() string {
	s, err := randomHex(16)
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible can continue from there.
		panic(err)
	}
	return s
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
