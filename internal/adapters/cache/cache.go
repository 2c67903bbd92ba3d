// Package cache tracks content fingerprints so reindex requests for
// unchanged text become no-ops instead of embedding calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache records fingerprints of already-indexed content.
type Cache interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Forget removes key, forcing the next SeenAndRecord to record anew.
	// Used when an index attempt failed after the fingerprint was recorded.
	Forget(ctx context.Context, key string)

	// Size returns the number of tracked fingerprints.
	Size() int64
}

// Fingerprint derives the cache key for a document's content.
func Fingerprint(docID, text string) string {
	sum := sha256.Sum256([]byte(docID + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
