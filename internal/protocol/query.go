package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

// Query is a single subscribed query: its identity, the function it
// invokes, the arguments it was called with, and (on reconnect only) the
// pagination journal from its last execution.
type Query struct {
	QueryId synctypes.QueryId
	UdfPath UdfPath
	Args    []syncvalue.Value
	Journal Journal
}

// QuerySetModificationKind discriminates the QuerySetModification union.
type QuerySetModificationKind string

const (
	KindAdd    QuerySetModificationKind = "Add"
	KindRemove QuerySetModificationKind = "Remove"
)

// QuerySetModification is one change to a client's active query set: add
// a new query or remove a previously active one by id.
type QuerySetModification struct {
	Kind    QuerySetModificationKind
	Query   Query // valid when Kind == KindAdd
	QueryId synctypes.QueryId
}

// EncodeQuery renders a Query to its JSON representation.
func EncodeQuery(q Query, parser Parser) (any, error) {
	args := make([]any, len(q.Args))
	for i, a := range q.Args {
		enc, err := syncvalue.Encode(a)
		if err != nil {
			return nil, fmt.Errorf("encoding query %d arg %d: %w", q.QueryId, i, err)
		}
		args[i] = enc
	}
	m := map[string]any{
		"queryId": uint32(q.QueryId),
		"udfPath": q.UdfPath.String(),
		"args":    args,
	}
	encodeJournalField(m, "journal", q.Journal)
	return m, nil
}

func decodeQuery(m map[string]any, parser Parser) (Query, error) {
	queryId, err := decodeUint32Field(m, "queryId")
	if err != nil {
		return Query{}, err
	}
	rawPath, err := decodeStringField(m, "udfPath")
	if err != nil {
		return Query{}, err
	}
	path, err := parser.Parse(rawPath)
	if err != nil {
		return Query{}, fmt.Errorf("parsing udf path %q: %w", rawPath, err)
	}
	rawArgs, ok := m["args"].([]any)
	if !ok {
		return Query{}, fmt.Errorf("args: expected array")
	}
	args := make([]syncvalue.Value, len(rawArgs))
	for i, raw := range rawArgs {
		v, err := syncvalue.Decode(raw)
		if err != nil {
			return Query{}, fmt.Errorf("decoding query arg %d: %w", i, err)
		}
		args[i] = v
	}
	journal, err := decodeJournalField(m, "journal")
	if err != nil {
		return Query{}, err
	}
	return Query{
		QueryId: synctypes.QueryId(queryId),
		UdfPath: path,
		Args:    args,
		Journal: journal,
	}, nil
}

// EncodeQuerySetModification renders a QuerySetModification to JSON.
func EncodeQuerySetModification(m QuerySetModification, parser Parser) (any, error) {
	switch m.Kind {
	case KindAdd:
		encoded, err := EncodeQuery(m.Query, parser)
		if err != nil {
			return nil, err
		}
		out, ok := encoded.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("internal error: EncodeQuery did not return an object")
		}
		out["type"] = string(KindAdd)
		return out, nil
	case KindRemove:
		return map[string]any{
			"type":    string(KindRemove),
			"queryId": uint32(m.QueryId),
		}, nil
	default:
		return nil, fmt.Errorf("encoding QuerySetModification: %w: %q", ErrUnknownVariant, m.Kind)
	}
}

// DecodeQuerySetModification parses a QuerySetModification from decoded JSON.
func DecodeQuerySetModification(raw any, parser Parser) (QuerySetModification, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return QuerySetModification{}, fmt.Errorf("QuerySetModification: expected object")
	}
	tag, err := decodeStringField(m, "type")
	if err != nil {
		return QuerySetModification{}, err
	}
	switch QuerySetModificationKind(tag) {
	case KindAdd:
		q, err := decodeQuery(m, parser)
		if err != nil {
			return QuerySetModification{}, err
		}
		return QuerySetModification{Kind: KindAdd, Query: q}, nil
	case KindRemove:
		queryId, err := decodeUint32Field(m, "queryId")
		if err != nil {
			return QuerySetModification{}, err
		}
		return QuerySetModification{Kind: KindRemove, QueryId: synctypes.QueryId(queryId)}, nil
	default:
		return QuerySetModification{}, fmt.Errorf("QuerySetModification type %q: %w", tag, ErrUnknownVariant)
	}
}

func decodeStringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, raw)
	}
	return s, nil
}

func decodeUint32Field(m map[string]any, key string) (uint32, error) {
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %q: %w", key, err)
		}
		return uint32(n), nil
	case float64:
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("field %q: expected number, got %T", key, raw)
	}
}
