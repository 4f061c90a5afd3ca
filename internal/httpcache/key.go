package httpcache

import (
	"crypto/sha1"
	"encoding/hex"
)

// Key derives the store key for a request from its method and path. The
// profile's name suffix is appended before hashing. Stores add their own
// namespace.
func Key(method, path, suffix string) string {
	sum := sha1.Sum([]byte(method + " " + path + suffix))
	return hex.EncodeToString(sum[:])
}
