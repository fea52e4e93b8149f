package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the lowercase hex SHA-256 of the raw file bytes.
// Identical bytes always hash identically; any byte difference, including
// whitespace or key order, yields a different hash. This is the content
// identity used for duplicate detection.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
