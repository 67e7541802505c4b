// Name derivation for commits made without an explicit name.
//
// The default is a polynomial rolling hash of the text rendered in base 36.
// It is not collision resistant and does not need to be: a collision is
// resolved by the same '#' suffixing used for duplicate explicit names.
// Three alternatives are selectable via Config.HashAlgorithm.
package revlog

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgRolling = 1 // Default, 32-bit rolling hash
	AlgXXHash3 = 2 // Fastest 64-bit
	AlgFNV1a   = 3 // No external dependencies
	AlgBlake2b = 4 // Best distribution
)

// hash derives a version name from text using the specified algorithm.
func hash(text string, alg int) string {
	switch alg {
	case AlgRolling:
		// Over code points, not UTF-16 units.
		var h int32
		for _, r := range text {
			h = h*31 + int32(r)
		}
		m := int64(h)
		if m < 0 {
			m = -m
		}
		return strconv.FormatInt(m, 36)
	case AlgXXHash3:
		return strconv.FormatUint(xxh3.HashString(text), 36)
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write([]byte(text))
		return strconv.FormatUint(h.Sum64(), 36)
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write([]byte(text))
		return strconv.FormatUint(binary.BigEndian.Uint64(h.Sum(nil)), 36)
	default:
		return ""
	}
}
