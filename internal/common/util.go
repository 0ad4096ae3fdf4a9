package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns a random hex string built from size random
// bytes, so the result is twice that length. Used for storage keys that
// must be unguessable.
func MakeRandHexString(size int) (string, error) {
	b, err := GenerateRandByteArray(size)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns size cryptographically random bytes.
// The only failure mode is the entropy source.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray zeros the slice in place. Used to drop derived key
// material once a comparison is done. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
