package synctypes

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeU64Token encodes a 64-bit unsigned integer as standard base64 of
// its 8-byte little-endian representation. JavaScript's number type only
// carries 52 bits of precision, so timestamps and other u64 wire values
// are shipped as this token rather than a bare JSON number (spec §4.A).
func EncodeU64Token(x uint64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	return base64.StdEncoding.EncodeToString(buf[:])
}

// DecodeU64Token reverses EncodeU64Token. Any input that does not decode
// to exactly 8 bytes fails.
func DecodeU64Token(s string) (uint64, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("decoding u64 token %q: %w", s, ErrMalformedToken)
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("u64 token %q decodes to %d bytes, want 8: %w", s, len(b), ErrMalformedToken)
	}
	return binary.LittleEndian.Uint64(b), nil
}

// EncodeTimestamp encodes a Timestamp as its u64 wire token.
func EncodeTimestamp(ts Timestamp) string { return EncodeU64Token(uint64(ts)) }

// DecodeTimestamp decodes a Timestamp from its u64 wire token, rejecting
// values below MinTimestamp.
func DecodeTimestamp(s string) (Timestamp, error) {
	x, err := DecodeU64Token(s)
	if err != nil {
		return 0, err
	}
	ts := Timestamp(x)
	if ts < MinTimestamp {
		return 0, fmt.Errorf("timestamp %d below minimum %d: %w", ts, MinTimestamp, ErrMalformedToken)
	}
	return ts, nil
}
