package protocol

import "fmt"

// Journal is the serialized query journal: a double-option value where
// the JSON field's absence means "unspecified", explicit null means "no
// journal", and a string carries an opaque pagination token (spec §4.C).
// A plain *string decoded from a map[string]any can't distinguish absent
// from null, so this type carries that distinction explicitly.
type Journal struct {
	// present is false when the field was absent from the wire message.
	present bool
	// value is nil for an explicit JSON null, non-nil for a token.
	value *string
}

// OmittedJournal is the zero value: the field was not present on the wire.
var OmittedJournal = Journal{}

// NullJournal represents an explicit JSON null: "no journal value".
func NullJournal() Journal { return Journal{present: true, value: nil} }

// NewJournal wraps a pagination token.
func NewJournal(token string) Journal { return Journal{present: true, value: &token} }

// IsOmitted reports whether the field was absent from the wire message.
func (j Journal) IsOmitted() bool { return !j.present }

// IsNull reports whether the field was explicitly null.
func (j Journal) IsNull() bool { return j.present && j.value == nil }

// Token returns the journal token and true, or "" and false if omitted or null.
func (j Journal) Token() (string, bool) {
	if !j.present || j.value == nil {
		return "", false
	}
	return *j.value, true
}

// decodeJournalField extracts a Journal from a raw decoded map, given the
// field's wire key. The outer map not containing the key means omitted;
// presence with a JSON null means null; presence with a string means a
// token.
func decodeJournalField(m map[string]any, key string) (Journal, error) {
	raw, ok := m[key]
	if !ok {
		return OmittedJournal, nil
	}
	if raw == nil {
		return NullJournal(), nil
	}
	s, ok := raw.(string)
	if !ok {
		return Journal{}, fmt.Errorf("%s: expected string or null, got %T", key, raw)
	}
	return NewJournal(s), nil
}

// encodeJournalField omits the field entirely when omitted, emits null
// when null, and emits the token string otherwise. Callers build the
// field manually instead of relying on struct tags, since encoding/json
// has no native double-option support.
func encodeJournalField(m map[string]any, key string, j Journal) {
	if j.IsOmitted() {
		return
	}
	if j.IsNull() {
		m[key] = nil
		return
	}
	tok, _ := j.Token()
	m[key] = tok
}

// decodeRequiredJournalField parses a single-option journal field that the
// wire format always serializes (never omits): either a JSON null ("no
// journal value") or a string token. Unlike Query's journal, this field
// has no "unspecified" state, so a *string captures it exactly.
func decodeRequiredJournalField(m map[string]any, key string) (*string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	if raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: expected string or null, got %T", key, raw)
	}
	return &s, nil
}

// encodeRequiredJournalField always writes key, as null or a token string.
func encodeRequiredJournalField(m map[string]any, key string, journal *string) {
	if journal == nil {
		m[key] = nil
		return
	}
	m[key] = *journal
}
