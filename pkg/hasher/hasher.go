// Package hasher provides the one-way credential hash used for stored
// passwords. The digest is deterministic (same plaintext, same digest)
// so login can re-hash a submitted password and compare against the
// stored value.
package hasher

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// Digest returns the stored form of a plaintext credential: the base64
// encoding of its SHA-256 hash.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Verify reports whether plaintext hashes to the stored digest. The
// comparison is constant-time.
func Verify(plaintext, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(plaintext)), []byte(digest)) == 1
}
