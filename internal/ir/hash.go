package ir

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint computes the content fingerprint of a unit's literal text:
// the SHA-256 hex digest of the NFC-normalized bytes.
//
// NFC normalization keeps the digest stable when editors re-encode
// combining characters; for ASCII input it is the identity. The digest is
// always 64 lowercase hex characters.
func Fingerprint(text string) string {
	sum := sha256.Sum256(norm.NFC.Bytes([]byte(text)))
	return hex.EncodeToString(sum[:])
}
