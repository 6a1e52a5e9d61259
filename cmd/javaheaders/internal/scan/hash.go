package scan

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// HashHeader computes the xxHash64 of a header, as a hex string. An empty
// header has an empty digest.
func HashHeader(header string) string {
	if header == "" {
		return ""
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], xxhash.Sum64String(header))
	return hex.EncodeToString(buf[:])
}
