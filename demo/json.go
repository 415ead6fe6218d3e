package demo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalJSON renders an already-encoded (map[string]any / []any / ...)
// value to bytes, matching the plain json.Marshal every protocol codec
// function expects its caller to apply.
func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON parses a wire frame the way internal/syncvalue.UnmarshalJSON
// does: with UseNumber, so the protocol decoders can detect arbitrary
// precision numeric literals.
func unmarshalJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing frame: %w", err)
	}
	return parsed, nil
}
