package protocol

import (
	"fmt"

	"github.com/codewiresh/syncwire/internal/synctypes"
)

// ValueCodec encodes and decodes a function result payload of type V to
// and from decoded JSON (any). V is typically syncvalue.Value, but the
// server message schema is generic over it the way the original's
// ServerMessage<V> is, so a test harness can plug in a simpler type.
type ValueCodec[V any] struct {
	Encode func(V) (any, error)
	Decode func(any) (V, error)
}

// FunctionResult is either a successful value or an error message,
// mirroring the Result<V, String> the original uses for mutation and
// action outcomes.
type FunctionResult[V any] struct {
	Ok           bool
	Value        V
	ErrorMessage string
}

// StateModificationKind discriminates the StateModification union.
type StateModificationKind string

// StateModification tag values are camelCase, unlike every other tagged
// union in this package, per the wire format this server implements.
const (
	ModQueryUpdated StateModificationKind = "queryUpdated"
	ModQueryFailed  StateModificationKind = "queryFailed"
	ModQueryRemoved StateModificationKind = "queryRemoved"
)

// StateModification is one change a Transition message applies to a
// query's reactive state.
type StateModification[V any] struct {
	Kind         StateModificationKind
	QueryId      synctypes.QueryId
	Value        V      // QueryUpdated
	ErrorMessage string // QueryFailed
	LogLines     []string
	// Journal is always serialized, as null or a token string: nil means
	// no journal value, a non-nil pointer carries the token (spec.md's
	// single-option journal, distinct from Query's double-option one).
	Journal *string
}

// QueryFailure describes one failed query in a QueriesFailed message.
type QueryFailure struct {
	QueryId  synctypes.QueryId
	Message  string
	LogLines []string
}

// ServerMessageKind discriminates the ServerMessage union.
type ServerMessageKind string

const (
	SrvTransition       ServerMessageKind = "Transition"
	SrvQueriesFailed    ServerMessageKind = "QueriesFailed"
	SrvMutationResponse ServerMessageKind = "MutationResponse"
	SrvActionResponse   ServerMessageKind = "ActionResponse"
	SrvAuthError        ServerMessageKind = "AuthError"
	SrvFatalError       ServerMessageKind = "FatalError"
	SrvPing             ServerMessageKind = "Ping"
)

// ServerMessage is the union of all server-to-client protocol messages.
type ServerMessage[V any] struct {
	Kind ServerMessageKind

	// Transition
	StartVersion  synctypes.StateVersion
	EndVersion    synctypes.StateVersion
	Modifications []StateModification[V]

	// QueriesFailed
	Failures []QueryFailure

	// MutationResponse / ActionResponse
	RequestId synctypes.SessionRequestSeqNumber
	Result    FunctionResult[V]
	Ts        *synctypes.Timestamp
	LogLines  []string

	// AuthError / FatalError
	ErrorMessage string
	BaseVersion  *synctypes.IdentityVersion
}

func encodeStateVersion(v synctypes.StateVersion) any {
	return map[string]any{
		"querySet": uint32(v.QuerySet),
		"identity": uint32(v.Identity),
		"ts":       synctypes.EncodeTimestamp(v.Ts),
	}
}

func decodeStateVersion(raw any) (synctypes.StateVersion, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return synctypes.StateVersion{}, fmt.Errorf("StateVersion: expected object")
	}
	querySet, err := decodeUint32Field(m, "querySet")
	if err != nil {
		return synctypes.StateVersion{}, err
	}
	identity, err := decodeUint32Field(m, "identity")
	if err != nil {
		return synctypes.StateVersion{}, err
	}
	tsRaw, err := decodeStringField(m, "ts")
	if err != nil {
		return synctypes.StateVersion{}, err
	}
	ts, err := synctypes.DecodeTimestamp(tsRaw)
	if err != nil {
		return synctypes.StateVersion{}, err
	}
	return synctypes.StateVersion{
		QuerySet: synctypes.QuerySetVersion(querySet),
		Identity: synctypes.IdentityVersion(identity),
		Ts:       ts,
	}, nil
}

// EncodeStateModification renders a StateModification to JSON using codec
// to encode the success-case value.
func EncodeStateModification[V any](m StateModification[V], codec ValueCodec[V]) (any, error) {
	switch m.Kind {
	case ModQueryUpdated:
		value, err := codec.Encode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding query %d value: %w", m.QueryId, err)
		}
		out := map[string]any{
			"type":     string(ModQueryUpdated),
			"queryId":  uint32(m.QueryId),
			"value":    value,
			"logLines": logLinesOrEmpty(m.LogLines),
		}
		encodeRequiredJournalField(out, "journal", m.Journal)
		return out, nil
	case ModQueryFailed:
		out := map[string]any{
			"type":         string(ModQueryFailed),
			"queryId":      uint32(m.QueryId),
			"errorMessage": m.ErrorMessage,
			"logLines":     logLinesOrEmpty(m.LogLines),
		}
		encodeRequiredJournalField(out, "journal", m.Journal)
		return out, nil
	case ModQueryRemoved:
		return map[string]any{
			"type":    string(ModQueryRemoved),
			"queryId": uint32(m.QueryId),
		}, nil
	default:
		return nil, fmt.Errorf("encoding StateModification: %w: %q", ErrUnknownVariant, m.Kind)
	}
}

// DecodeStateModification parses a StateModification from decoded JSON
// using codec to decode the success-case value.
func DecodeStateModification[V any](raw any, codec ValueCodec[V]) (StateModification[V], error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return StateModification[V]{}, fmt.Errorf("StateModification: expected object")
	}
	tag, err := decodeStringField(m, "type")
	if err != nil {
		return StateModification[V]{}, err
	}
	switch StateModificationKind(tag) {
	case ModQueryUpdated:
		queryId, err := decodeUint32Field(m, "queryId")
		if err != nil {
			return StateModification[V]{}, err
		}
		rawValue, ok := m["value"]
		if !ok {
			return StateModification[V]{}, fmt.Errorf(`missing field "value"`)
		}
		value, err := codec.Decode(rawValue)
		if err != nil {
			return StateModification[V]{}, fmt.Errorf("decoding query %d value: %w", queryId, err)
		}
		logLines, err := decodeLogLines(m)
		if err != nil {
			return StateModification[V]{}, err
		}
		journal, err := decodeRequiredJournalField(m, "journal")
		if err != nil {
			return StateModification[V]{}, err
		}
		return StateModification[V]{
			Kind:     ModQueryUpdated,
			QueryId:  synctypes.QueryId(queryId),
			Value:    value,
			LogLines: logLines,
			Journal:  journal,
		}, nil
	case ModQueryFailed:
		queryId, err := decodeUint32Field(m, "queryId")
		if err != nil {
			return StateModification[V]{}, err
		}
		errMsg, err := decodeStringField(m, "errorMessage")
		if err != nil {
			return StateModification[V]{}, err
		}
		logLines, err := decodeLogLines(m)
		if err != nil {
			return StateModification[V]{}, err
		}
		journal, err := decodeRequiredJournalField(m, "journal")
		if err != nil {
			return StateModification[V]{}, err
		}
		return StateModification[V]{
			Kind:         ModQueryFailed,
			QueryId:      synctypes.QueryId(queryId),
			ErrorMessage: errMsg,
			LogLines:     logLines,
			Journal:      journal,
		}, nil
	case ModQueryRemoved:
		queryId, err := decodeUint32Field(m, "queryId")
		if err != nil {
			return StateModification[V]{}, err
		}
		return StateModification[V]{Kind: ModQueryRemoved, QueryId: synctypes.QueryId(queryId)}, nil
	default:
		return StateModification[V]{}, fmt.Errorf("StateModification type %q: %w", tag, ErrUnknownVariant)
	}
}

// EncodeQueryFailure renders a QueryFailure to JSON.
func EncodeQueryFailure(q QueryFailure) any {
	return map[string]any{
		"queryId":  uint32(q.QueryId),
		"message":  q.Message,
		"logLines": logLinesOrEmpty(q.LogLines),
	}
}

// DecodeQueryFailure parses a QueryFailure from decoded JSON.
func DecodeQueryFailure(raw any) (QueryFailure, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return QueryFailure{}, fmt.Errorf("QueryFailure: expected object")
	}
	queryId, err := decodeUint32Field(m, "queryId")
	if err != nil {
		return QueryFailure{}, err
	}
	message, err := decodeStringField(m, "message")
	if err != nil {
		return QueryFailure{}, err
	}
	logLines, err := decodeLogLines(m)
	if err != nil {
		return QueryFailure{}, err
	}
	return QueryFailure{QueryId: synctypes.QueryId(queryId), Message: message, LogLines: logLines}, nil
}

// EncodeServerMessage renders a ServerMessage to JSON using codec to
// encode success-case payload values. MutationResponse and
// ActionResponse always write both the current requestId field and the
// legacy mutationId/actionId alias.
func EncodeServerMessage[V any](msg ServerMessage[V], codec ValueCodec[V]) (any, error) {
	switch msg.Kind {
	case SrvTransition:
		mods := make([]any, len(msg.Modifications))
		for i, m := range msg.Modifications {
			enc, err := EncodeStateModification(m, codec)
			if err != nil {
				return nil, fmt.Errorf("encoding modification %d: %w", i, err)
			}
			mods[i] = enc
		}
		return map[string]any{
			"type":          string(SrvTransition),
			"startVersion":  encodeStateVersion(msg.StartVersion),
			"endVersion":    encodeStateVersion(msg.EndVersion),
			"modifications": mods,
		}, nil
	case SrvQueriesFailed:
		failures := make([]any, len(msg.Failures))
		for i, f := range msg.Failures {
			failures[i] = EncodeQueryFailure(f)
		}
		return map[string]any{
			"type":     string(SrvQueriesFailed),
			"failures": failures,
		}, nil
	case SrvMutationResponse, SrvActionResponse:
		out := map[string]any{
			"type":      string(msg.Kind),
			"requestId": uint32(msg.RequestId),
			"success":   msg.Result.Ok,
			"logLines":  logLinesOrEmpty(msg.LogLines),
		}
		if msg.Kind == SrvMutationResponse {
			out["mutationId"] = uint32(msg.RequestId)
			if msg.Ts != nil {
				out["ts"] = synctypes.EncodeTimestamp(*msg.Ts)
			}
		} else {
			out["actionId"] = uint32(msg.RequestId)
		}
		if msg.Result.Ok {
			value, err := codec.Encode(msg.Result.Value)
			if err != nil {
				return nil, fmt.Errorf("encoding %s result: %w", msg.Kind, err)
			}
			out["result"] = value
		} else {
			out["result"] = msg.Result.ErrorMessage
		}
		return out, nil
	case SrvAuthError:
		out := map[string]any{
			"type":  string(SrvAuthError),
			"error": msg.ErrorMessage,
		}
		if msg.BaseVersion != nil {
			out["baseVersion"] = uint32(*msg.BaseVersion)
		}
		return out, nil
	case SrvFatalError:
		return map[string]any{
			"type":  string(SrvFatalError),
			"error": msg.ErrorMessage,
		}, nil
	case SrvPing:
		return map[string]any{"type": string(SrvPing)}, nil
	default:
		return nil, fmt.Errorf("encoding ServerMessage: %w: %q", ErrUnknownVariant, msg.Kind)
	}
}

// DecodeServerMessage parses a ServerMessage from decoded JSON using
// codec to decode success-case payload values.
func DecodeServerMessage[V any](raw any, codec ValueCodec[V]) (ServerMessage[V], error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ServerMessage[V]{}, fmt.Errorf("ServerMessage: expected object")
	}
	tag, err := decodeStringField(m, "type")
	if err != nil {
		return ServerMessage[V]{}, err
	}
	switch ServerMessageKind(tag) {
	case SrvTransition:
		startRaw, ok := m["startVersion"]
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf(`missing field "startVersion"`)
		}
		start, err := decodeStateVersion(startRaw)
		if err != nil {
			return ServerMessage[V]{}, err
		}
		endRaw, ok := m["endVersion"]
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf(`missing field "endVersion"`)
		}
		end, err := decodeStateVersion(endRaw)
		if err != nil {
			return ServerMessage[V]{}, err
		}
		rawMods, ok := m["modifications"].([]any)
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf("modifications: expected array")
		}
		mods := make([]StateModification[V], len(rawMods))
		for i, rm := range rawMods {
			mod, err := DecodeStateModification(rm, codec)
			if err != nil {
				return ServerMessage[V]{}, fmt.Errorf("decoding modification %d: %w", i, err)
			}
			mods[i] = mod
		}
		return ServerMessage[V]{Kind: SrvTransition, StartVersion: start, EndVersion: end, Modifications: mods}, nil
	case SrvQueriesFailed:
		rawFailures, ok := m["failures"].([]any)
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf("failures: expected array")
		}
		failures := make([]QueryFailure, len(rawFailures))
		for i, rf := range rawFailures {
			f, err := DecodeQueryFailure(rf)
			if err != nil {
				return ServerMessage[V]{}, fmt.Errorf("decoding failure %d: %w", i, err)
			}
			failures[i] = f
		}
		return ServerMessage[V]{Kind: SrvQueriesFailed, Failures: failures}, nil
	case SrvMutationResponse, SrvActionResponse:
		legacyKey := "mutationId"
		if ServerMessageKind(tag) == SrvActionResponse {
			legacyKey = "actionId"
		}
		requestId, err := decodeRequestId(m, legacyKey)
		if err != nil {
			return ServerMessage[V]{}, err
		}
		success, ok := m["success"].(bool)
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf(`field "success": expected bool`)
		}
		resultRaw, ok := m["result"]
		if !ok {
			return ServerMessage[V]{}, fmt.Errorf(`missing field "result"`)
		}
		var result FunctionResult[V]
		if success {
			value, err := codec.Decode(resultRaw)
			if err != nil {
				return ServerMessage[V]{}, fmt.Errorf("decoding result: %w", err)
			}
			result = FunctionResult[V]{Ok: true, Value: value}
		} else {
			msg, ok := resultRaw.(string)
			if !ok {
				return ServerMessage[V]{}, fmt.Errorf("result: expected string error message")
			}
			result = FunctionResult[V]{Ok: false, ErrorMessage: msg}
		}
		logLines, err := decodeLogLines(m)
		if err != nil {
			return ServerMessage[V]{}, err
		}
		kind := SrvMutationResponse
		var ts *synctypes.Timestamp
		if ServerMessageKind(tag) == SrvActionResponse {
			kind = SrvActionResponse
		} else if tsRaw, ok := m["ts"]; ok && tsRaw != nil {
			s, ok := tsRaw.(string)
			if !ok {
				return ServerMessage[V]{}, fmt.Errorf(`field "ts": expected string`)
			}
			decoded, err := synctypes.DecodeTimestamp(s)
			if err != nil {
				return ServerMessage[V]{}, err
			}
			ts = &decoded
		}
		return ServerMessage[V]{
			Kind:      kind,
			RequestId: requestId,
			Result:    result,
			Ts:        ts,
			LogLines:  logLines,
		}, nil
	case SrvAuthError:
		errMsg, err := decodeStringField(m, "error")
		if err != nil {
			return ServerMessage[V]{}, err
		}
		var baseVersion *synctypes.IdentityVersion
		if raw, ok := m["baseVersion"]; ok && raw != nil {
			v, err := decodeUint32Field(m, "baseVersion")
			if err != nil {
				return ServerMessage[V]{}, err
			}
			iv := synctypes.IdentityVersion(v)
			baseVersion = &iv
		}
		return ServerMessage[V]{Kind: SrvAuthError, ErrorMessage: errMsg, BaseVersion: baseVersion}, nil
	case SrvFatalError:
		errMsg, err := decodeStringField(m, "error")
		if err != nil {
			return ServerMessage[V]{}, err
		}
		return ServerMessage[V]{Kind: SrvFatalError, ErrorMessage: errMsg}, nil
	case SrvPing:
		return ServerMessage[V]{Kind: SrvPing}, nil
	default:
		return ServerMessage[V]{}, fmt.Errorf("ServerMessage type %q: %w", tag, ErrUnknownVariant)
	}
}

func logLinesOrEmpty(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}

func decodeLogLines(m map[string]any) ([]string, error) {
	raw, ok := m["logLines"]
	if !ok {
		return nil, fmt.Errorf(`missing field "logLines"`)
	}
	rawSlice, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf(`field "logLines": expected array`)
	}
	lines := make([]string, len(rawSlice))
	for i, v := range rawSlice {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("logLines[%d]: expected string", i)
		}
		lines[i] = s
	}
	return lines, nil
}
