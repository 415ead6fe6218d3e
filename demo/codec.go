// Package demo is a reference transport for the sync wire protocol core:
// a single-process WebSocket client/server pair that exchanges
// ClientMessage/ServerMessage values as one JSON text frame per message.
// It is deliberately not a query executor — it scripts a fixed set of
// replies (an empty Transition on Connect, an echoing mutation/action
// result) so the `cw` CLI has something real to dial without pulling a
// reactive query engine, authentication broker, or UDF dispatcher into
// this repo.
package demo

import (
	"fmt"

	"github.com/codewiresh/syncwire/internal/protocol"
	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

// eventValueCodec is the protocol.ValueCodec used for every ServerMessage
// this demo exchanges: function results and query values are plain
// syncvalue.Value payloads, not some richer application type.
var eventValueCodec = protocol.ValueCodec[syncvalue.Value]{
	Encode: syncvalue.Encode,
	Decode: syncvalue.Decode,
}

// encodeClientFrame renders a ClientMessage to the single JSON text frame
// this demo's transport sends over the wire.
func encodeClientFrame(msg protocol.ClientMessage) ([]byte, error) {
	encoded, err := protocol.EncodeClientMessage(msg, protocol.DefaultParser)
	if err != nil {
		return nil, fmt.Errorf("encoding client message: %w", err)
	}
	return marshalJSON(encoded)
}

func decodeClientFrame(raw []byte) (protocol.ClientMessage, error) {
	parsed, err := unmarshalJSON(raw)
	if err != nil {
		return protocol.ClientMessage{}, err
	}
	return protocol.DecodeClientMessage(parsed, protocol.DefaultParser)
}

// EncodeServerMessage renders a ServerMessage to the same canonical wire
// JSON the demo transport sends, for callers (like the `cw connect` demo
// command) that want to display a reply rather than forward it.
func EncodeServerMessage(msg protocol.ServerMessage[syncvalue.Value]) ([]byte, error) {
	return encodeServerFrame(msg)
}

func encodeServerFrame(msg protocol.ServerMessage[syncvalue.Value]) ([]byte, error) {
	encoded, err := protocol.EncodeServerMessage(msg, eventValueCodec)
	if err != nil {
		return nil, fmt.Errorf("encoding server message: %w", err)
	}
	return marshalJSON(encoded)
}

func decodeServerFrame(raw []byte) (protocol.ServerMessage[syncvalue.Value], error) {
	parsed, err := unmarshalJSON(raw)
	if err != nil {
		return protocol.ServerMessage[syncvalue.Value]{}, err
	}
	return protocol.DecodeServerMessage(parsed, eventValueCodec)
}

// pingMessage is the keepalive ServerMessage variant a real server sends
// on idle connections to keep intermediaries from reaping them; this
// demo transport doesn't run an idle timer, but exercises the same
// codec path a production Ping would.
func pingMessage() protocol.ServerMessage[syncvalue.Value] {
	return protocol.ServerMessage[syncvalue.Value]{Kind: protocol.SrvPing}
}

// emptyTransition acknowledges a Connect with a no-op Transition at the
// initial StateVersion, so a freshly dialed demo client observes at least
// one real round trip through the StateVersion/StateModification codec.
func emptyTransition() protocol.ServerMessage[syncvalue.Value] {
	v := synctypes.InitialStateVersion()
	return protocol.ServerMessage[syncvalue.Value]{
		Kind:          protocol.SrvTransition,
		StartVersion:  v,
		EndVersion:    v,
		Modifications: []protocol.StateModification[syncvalue.Value]{},
	}
}
