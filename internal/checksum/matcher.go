// Package checksum fingerprints stored attachments so a download can be
// verified against the bytes that were originally uploaded.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// Compute returns the hex-encoded SHA-256 digest of data.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verifier compares attachment bytes against the digest recorded at upload.
type Verifier struct {
	expected string
}

func NewVerifier(expected string) *Verifier {
	return &Verifier{expected: expected}
}

// Verify reports whether data hashes to the recorded digest.
func (v *Verifier) Verify(data []byte) (bool, error) {
	if v.expected == "" {
		return false, errors.New("no checksum recorded")
	}
	return Compute(data) == v.expected, nil
}
