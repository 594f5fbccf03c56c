package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash computes a SHA-256 hash of data and returns it as a hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// hashKey builds a namespaced cache key by hashing the printed parts.
func hashKey(prefix string, parts ...any) string {
	var buf []byte
	for i, p := range parts {
		if i > 0 {
			buf = append(buf, '|')
		}
		buf = fmt.Appendf(buf, "%v", p)
	}
	return prefix + ":" + Hash(buf)
}
