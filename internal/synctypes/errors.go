package synctypes

import "errors"

// ErrMalformedSessionId is returned when a SessionId string is not a
// canonical hyphenated UUID.
var ErrMalformedSessionId = errors.New("malformed session id")

// ErrMalformedToken is returned when a u64 wire token (used for
// Timestamp and other 64-bit values) fails to decode to 8 bytes, or a
// decoded Timestamp falls below MinTimestamp.
var ErrMalformedToken = errors.New("malformed token")
