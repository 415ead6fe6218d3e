package demo

import (
	"testing"

	"github.com/codewiresh/syncwire/internal/protocol"
	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

func TestHandleMessageConnectRepliesWithEmptyTransition(t *testing.T) {
	sessionId, err := synctypes.NewSessionId()
	if err != nil {
		t.Fatalf("NewSessionId: %v", err)
	}
	s := &Server{}
	reply, err := s.handleMessage(protocol.ClientMessage{
		Kind:            protocol.MsgConnect,
		SessionId:       sessionId,
		ConnectionCount: 1,
		LastCloseReason: "unknown",
	})
	if err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if reply == nil || reply.Kind != protocol.SrvTransition {
		t.Fatalf("expected Transition reply, got %+v", reply)
	}
	if reply.StartVersion != synctypes.InitialStateVersion() || reply.EndVersion != synctypes.InitialStateVersion() {
		t.Fatalf("expected initial state version on both ends, got %+v", reply)
	}
}

func TestHandleMessageMutationEchoesArgsAsSuccess(t *testing.T) {
	s := &Server{}
	args := []syncvalue.Value{syncvalue.NewInt64(7), syncvalue.NewString("hi")}
	reply, err := s.handleMessage(protocol.ClientMessage{
		Kind:      protocol.MsgMutation,
		RequestId: 42,
		UdfPath:   "module:fn",
		Args:      args,
	})
	if err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if reply.Kind != protocol.SrvMutationResponse {
		t.Fatalf("expected MutationResponse, got %+v", reply)
	}
	if reply.RequestId != 42 {
		t.Fatalf("expected requestId to echo 42, got %d", reply.RequestId)
	}
	if !reply.Result.Ok {
		t.Fatalf("expected successful result")
	}
	echoed, ok := reply.Result.Value.AsArray()
	if !ok || len(echoed) != 2 {
		t.Fatalf("expected echoed args array, got %+v", reply.Result.Value)
	}
}

func TestHandleMessageEventHasNoReply(t *testing.T) {
	s := &Server{}
	reply, err := s.handleMessage(protocol.ClientMessage{
		Kind:      protocol.MsgEvent,
		EventType: "heartbeat",
		Event:     syncvalue.Null,
	})
	if err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if reply != nil {
		t.Fatalf("expected nil reply for Event, got %+v", reply)
	}
}

func TestEncodeDecodeServerFrameRoundTrips(t *testing.T) {
	msg := pingMessage()
	raw, err := encodeServerFrame(msg)
	if err != nil {
		t.Fatalf("encodeServerFrame: %v", err)
	}
	decoded, err := decodeServerFrame(raw)
	if err != nil {
		t.Fatalf("decodeServerFrame: %v", err)
	}
	if decoded.Kind != protocol.SrvPing {
		t.Fatalf("expected Ping, got %+v", decoded)
	}
}
