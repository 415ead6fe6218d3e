package syncvalue

import (
	"encoding/base64"
	"fmt"
)

// EncodeJsonBytes encodes raw bytes as standard base64.
func EncodeJsonBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeJsonBytes reverses EncodeJsonBytes.
func DecodeJsonBytes(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding $bytes %q: %w", s, ErrMalformedEncoding)
	}
	return b, nil
}
