package syncvalue

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeJsonInteger encodes a signed 64-bit integer as standard base64 of
// its two's-complement 8-byte little-endian representation.
func EncodeJsonInteger(n int64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	return base64.StdEncoding.EncodeToString(buf[:])
}

// DecodeJsonInteger reverses EncodeJsonInteger. Any input that does not
// decode to exactly 8 bytes fails with ErrMalformedEncoding.
func DecodeJsonInteger(s string) (int64, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("decoding $integer %q: %w", s, ErrMalformedEncoding)
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("$integer %q decodes to %d bytes, want 8: %w", s, len(b), ErrMalformedEncoding)
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}
