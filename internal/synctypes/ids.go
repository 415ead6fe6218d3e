// Package synctypes defines the session/query identifiers and version
// types shared by the client and server message schemas (spec §3.3).
package synctypes

import (
	"fmt"

	"github.com/google/uuid"
)

// QueryId is an opaque identifier assigned by the client, unique within a
// session.
type QueryId uint32

// QuerySetVersion is a monotonically increasing version of a client's
// active query set.
type QuerySetVersion uint32

// IdentityVersion is a monotonically increasing version of a client's
// authenticated identity.
type IdentityVersion uint32

// SessionRequestSeqNumber uniquely identifies a mutation or action request
// within a session, monotonically increasing.
type SessionRequestSeqNumber uint32

// Timestamp is a 64-bit logical clock value with a minimum sentinel.
type Timestamp uint64

// MinTimestamp is the smallest valid Timestamp.
const MinTimestamp Timestamp = 0

// SessionId is a 128-bit session identifier whose canonical text form is
// the hyphenated UUID representation.
type SessionId struct {
	id uuid.UUID
}

// NewSessionId generates a random SessionId.
func NewSessionId() (SessionId, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return SessionId{}, fmt.Errorf("generating session id: %w", err)
	}
	return SessionId{id: id}, nil
}

// ParseSessionId parses the canonical hyphenated UUID form. Any other
// representation (braced, urn:uuid:, simple hex) is rejected.
func ParseSessionId(s string) (SessionId, error) {
	if len(s) != 36 {
		return SessionId{}, fmt.Errorf("session id %q is not in hyphenated form: %w", s, ErrMalformedSessionId)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionId{}, fmt.Errorf("session id %q: %w: %w", s, err, ErrMalformedSessionId)
	}
	return SessionId{id: id}, nil
}

// String returns the canonical hyphenated form.
func (s SessionId) String() string { return s.id.String() }

// Equal reports whether two SessionIds are the same UUID.
func (s SessionId) Equal(other SessionId) bool { return s.id == other.id }

// StateVersion is the ordered triple (query_set, identity, ts) marking a
// point in the reactive view.
type StateVersion struct {
	QuerySet QuerySetVersion
	Identity IdentityVersion
	Ts       Timestamp
}

// InitialStateVersion is StateVersion::initial() from the original: the
// version before any query set or identity change has been observed.
func InitialStateVersion() StateVersion {
	return StateVersion{QuerySet: 0, Identity: 0, Ts: MinTimestamp}
}

// Compare orders StateVersions lexicographically by (QuerySet, Identity, Ts).
func (v StateVersion) Compare(other StateVersion) int {
	if v.QuerySet != other.QuerySet {
		return cmpUint32(uint32(v.QuerySet), uint32(other.QuerySet))
	}
	if v.Identity != other.Identity {
		return cmpUint32(uint32(v.Identity), uint32(other.Identity))
	}
	return cmpUint64(uint64(v.Ts), uint64(other.Ts))
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
