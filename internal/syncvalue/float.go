package syncvalue

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeJsonFloat encodes an IEEE-754 double as standard base64 of its
// 8-byte little-endian bit representation. This preserves NaN payload and
// the sign of zero, neither of which survive a JSON bare-number round trip.
func EncodeJsonFloat(n float64) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(n))
	return base64.StdEncoding.EncodeToString(buf[:])
}

// DecodeJsonFloat reverses EncodeJsonFloat. Any input that does not decode
// to exactly 8 bytes fails with ErrMalformedEncoding.
func DecodeJsonFloat(s string) (float64, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("decoding $float %q: %w", s, ErrMalformedEncoding)
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("$float %q decodes to %d bytes, want 8: %w", s, len(b), ErrMalformedEncoding)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// isNegativeZero reports whether n is the bit pattern for -0.0, distinct
// from +0.0 under the total-order equality this value model requires.
func isNegativeZero(n float64) bool {
	return math.Signbit(n) && n == 0
}

// isBareEncodable reports whether n must be encoded as a bare JSON number
// (finite, not subnormal-signalling, not negative zero) rather than the
// $float object form. NaN, ±Inf, and -0 are the only values for which this
// is false.
func isBareEncodable(n float64) bool {
	if isNegativeZero(n) {
		return false
	}
	switch {
	case math.IsNaN(n), math.IsInf(n, 0):
		return false
	default:
		return true
	}
}
