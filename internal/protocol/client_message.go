package protocol

import (
	"fmt"

	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

// ClientMessageKind discriminates the ClientMessage union.
type ClientMessageKind string

const (
	MsgConnect        ClientMessageKind = "Connect"
	MsgModifyQuerySet ClientMessageKind = "ModifyQuerySet"
	MsgMutation       ClientMessageKind = "Mutation"
	MsgAction         ClientMessageKind = "Action"
	MsgAuthenticate   ClientMessageKind = "Authenticate"
	MsgEvent          ClientMessageKind = "Event"
)

// ClientMessage is the union of all client-to-server protocol messages.
type ClientMessage struct {
	Kind ClientMessageKind

	// Connect
	SessionId       synctypes.SessionId
	ConnectionCount uint32
	LastCloseReason string

	// ModifyQuerySet
	BaseVersion   synctypes.QuerySetVersion
	NewVersion    synctypes.QuerySetVersion
	Modifications []QuerySetModification

	// Mutation / Action
	RequestId synctypes.SessionRequestSeqNumber
	UdfPath   UdfPath
	Args      []syncvalue.Value

	// Authenticate
	IdentityBaseVersion synctypes.IdentityVersion
	Token               AuthenticationToken

	// Event
	EventType string
	Event     syncvalue.Value
}

// EncodeClientMessage renders a ClientMessage to JSON. Mutation and
// Action encode both the current requestId field and the legacy
// mutationId/actionId alias with the same value, matching older clients
// that only understand the legacy name.
func EncodeClientMessage(msg ClientMessage, parser Parser) (any, error) {
	switch msg.Kind {
	case MsgConnect:
		return map[string]any{
			"type":            string(MsgConnect),
			"sessionId":       msg.SessionId.String(),
			"connectionCount": uint32(msg.ConnectionCount),
			"lastCloseReason": msg.LastCloseReason,
		}, nil
	case MsgModifyQuerySet:
		mods := make([]any, len(msg.Modifications))
		for i, m := range msg.Modifications {
			enc, err := EncodeQuerySetModification(m, parser)
			if err != nil {
				return nil, fmt.Errorf("encoding modification %d: %w", i, err)
			}
			mods[i] = enc
		}
		return map[string]any{
			"type":          string(MsgModifyQuerySet),
			"baseVersion":   uint32(msg.BaseVersion),
			"newVersion":    uint32(msg.NewVersion),
			"modifications": mods,
		}, nil
	case MsgMutation, MsgAction:
		args, err := encodeArgs(msg.Args)
		if err != nil {
			return nil, err
		}
		m := map[string]any{
			"type":      string(msg.Kind),
			"requestId": uint32(msg.RequestId),
			"udfPath":   msg.UdfPath.String(),
			"args":      args,
		}
		if msg.Kind == MsgMutation {
			m["mutationId"] = uint32(msg.RequestId)
		} else {
			m["actionId"] = uint32(msg.RequestId)
		}
		return m, nil
	case MsgAuthenticate:
		tok, err := EncodeAuthenticationToken(msg.Token)
		if err != nil {
			return nil, err
		}
		out, ok := tok.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("internal error: EncodeAuthenticationToken did not return an object")
		}
		out["type"] = string(MsgAuthenticate)
		out["baseVersion"] = uint32(msg.IdentityBaseVersion)
		return out, nil
	case MsgEvent:
		event, err := syncvalue.Encode(msg.Event)
		if err != nil {
			return nil, fmt.Errorf("encoding event payload: %w", err)
		}
		return map[string]any{
			"type":      string(MsgEvent),
			"eventType": msg.EventType,
			"event":     event,
		}, nil
	default:
		return nil, fmt.Errorf("encoding ClientMessage: %w: %q", ErrUnknownVariant, msg.Kind)
	}
}

// DecodeClientMessage parses a ClientMessage from decoded JSON.
func DecodeClientMessage(raw any, parser Parser) (ClientMessage, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ClientMessage{}, fmt.Errorf("ClientMessage: expected object")
	}
	tag, err := decodeStringField(m, "type")
	if err != nil {
		return ClientMessage{}, err
	}
	switch ClientMessageKind(tag) {
	case MsgConnect:
		sessionIdRaw, err := decodeStringField(m, "sessionId")
		if err != nil {
			return ClientMessage{}, err
		}
		sessionId, err := synctypes.ParseSessionId(sessionIdRaw)
		if err != nil {
			return ClientMessage{}, err
		}
		connectionCount, err := decodeUint32Field(m, "connectionCount")
		if err != nil {
			return ClientMessage{}, err
		}
		lastCloseReason := "unknown"
		if raw, ok := m["lastCloseReason"]; ok && raw != nil {
			s, ok := raw.(string)
			if !ok {
				return ClientMessage{}, fmt.Errorf("lastCloseReason: expected string")
			}
			lastCloseReason = s
		}
		return ClientMessage{
			Kind:            MsgConnect,
			SessionId:       sessionId,
			ConnectionCount: connectionCount,
			LastCloseReason: lastCloseReason,
		}, nil
	case MsgModifyQuerySet:
		baseVersion, err := decodeUint32Field(m, "baseVersion")
		if err != nil {
			return ClientMessage{}, err
		}
		newVersion, err := decodeUint32Field(m, "newVersion")
		if err != nil {
			return ClientMessage{}, err
		}
		rawMods, ok := m["modifications"].([]any)
		if !ok {
			return ClientMessage{}, fmt.Errorf("modifications: expected array")
		}
		mods := make([]QuerySetModification, len(rawMods))
		for i, rm := range rawMods {
			mod, err := DecodeQuerySetModification(rm, parser)
			if err != nil {
				return ClientMessage{}, fmt.Errorf("decoding modification %d: %w", i, err)
			}
			mods[i] = mod
		}
		return ClientMessage{
			Kind:          MsgModifyQuerySet,
			BaseVersion:   synctypes.QuerySetVersion(baseVersion),
			NewVersion:    synctypes.QuerySetVersion(newVersion),
			Modifications: mods,
		}, nil
	case MsgMutation, MsgAction:
		legacyKey := "mutationId"
		if ClientMessageKind(tag) == MsgAction {
			legacyKey = "actionId"
		}
		requestId, err := decodeRequestId(m, legacyKey)
		if err != nil {
			return ClientMessage{}, err
		}
		rawPath, err := decodeStringField(m, "udfPath")
		if err != nil {
			return ClientMessage{}, err
		}
		path, err := parser.Parse(rawPath)
		if err != nil {
			return ClientMessage{}, fmt.Errorf("parsing udf path %q: %w", rawPath, err)
		}
		args, err := decodeArgs(m)
		if err != nil {
			return ClientMessage{}, err
		}
		kind := MsgMutation
		if ClientMessageKind(tag) == MsgAction {
			kind = MsgAction
		}
		return ClientMessage{
			Kind:      kind,
			RequestId: requestId,
			UdfPath:   path,
			Args:      args,
		}, nil
	case MsgAuthenticate:
		baseVersion, err := decodeUint32Field(m, "baseVersion")
		if err != nil {
			return ClientMessage{}, err
		}
		token, err := DecodeAuthenticationToken(m)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{
			Kind:                MsgAuthenticate,
			IdentityBaseVersion: synctypes.IdentityVersion(baseVersion),
			Token:               token,
		}, nil
	case MsgEvent:
		eventType, err := decodeStringField(m, "eventType")
		if err != nil {
			return ClientMessage{}, err
		}
		eventRaw, ok := m["event"]
		if !ok {
			return ClientMessage{}, fmt.Errorf("missing field %q", "event")
		}
		event, err := syncvalue.Decode(eventRaw)
		if err != nil {
			return ClientMessage{}, fmt.Errorf("decoding event payload: %w", err)
		}
		return ClientMessage{
			Kind:      MsgEvent,
			EventType: eventType,
			Event:     event,
		}, nil
	default:
		return ClientMessage{}, fmt.Errorf("ClientMessage type %q: %w", tag, ErrUnknownVariant)
	}
}

func encodeArgs(args []syncvalue.Value) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		enc, err := syncvalue.Encode(a)
		if err != nil {
			return nil, fmt.Errorf("encoding arg %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

func decodeArgs(m map[string]any) ([]syncvalue.Value, error) {
	rawArgs, ok := m["args"].([]any)
	if !ok {
		return nil, fmt.Errorf("args: expected array")
	}
	args := make([]syncvalue.Value, len(rawArgs))
	for i, raw := range rawArgs {
		v, err := syncvalue.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding arg %d: %w", i, err)
		}
		args[i] = v
	}
	return args, nil
}

// decodeRequestId implements the requestId-wins-over-legacy-alias rule
// shared by Mutation/Action messages and their responses.
func decodeRequestId(m map[string]any, legacyKey string) (synctypes.SessionRequestSeqNumber, error) {
	if _, ok := m["requestId"]; ok {
		id, err := decodeUint32Field(m, "requestId")
		if err != nil {
			return 0, err
		}
		return synctypes.SessionRequestSeqNumber(id), nil
	}
	if _, ok := m[legacyKey]; ok {
		id, err := decodeUint32Field(m, legacyKey)
		if err != nil {
			return 0, err
		}
		return synctypes.SessionRequestSeqNumber(id), nil
	}
	return 0, fmt.Errorf(`neither "requestId" nor %q is set: %w`, legacyKey, ErrMissingRequestId)
}
