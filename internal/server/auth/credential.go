// Package auth implements the credential and token primitives: salted
// password derivation and RS256 bearer tokens.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/feepo/feepo/internal/common"
)

// Derivation parameters. Changing them invalidates stored credentials.
const (
	SaltLength       = 32
	KDFIterations    = 10000
	DerivedKeyLength = 64
)

// Credential holds the salted, derived form of a password. The plaintext
// is never stored.
type Credential struct {
	Salt []byte
	Hash []byte
}

// HashPassword derives a fresh Credential from a plaintext password using
// PBKDF2-SHA512 with a random per-credential salt. The only failure mode
// is entropy-source exhaustion, which callers should treat as fatal.
func HashPassword(password string) (*Credential, error) {
	salt, err := common.GenerateRandByteArray(SaltLength)
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, KDFIterations, DerivedKeyLength, sha512.New)

	return &Credential{Salt: salt, Hash: hash}, nil
}

// VerifyPassword recomputes the derivation with the stored salt and
// compares in constant time. A wrong password returns false, never an
// error.
func VerifyPassword(password string, credential *Credential) bool {
	if credential == nil {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), credential.Salt, KDFIterations, DerivedKeyLength, sha512.New)
	defer common.WipeByteArray(candidate)

	return subtle.ConstantTimeCompare(candidate, credential.Hash) == 1
}
