package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/codewiresh/syncwire/internal/synctypes"
)

func decodeAny(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return v
}

func TestAuthenticateAdminRoundTripsWithoutImpersonating(t *testing.T) {
	raw := `{"type":"Authenticate","tokenType":"Admin","value":"fakefakefake","baseVersion":0}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.Kind != MsgAuthenticate || msg.Token.Kind != TokenAdmin || msg.Token.Value != "fakefakefake" {
		t.Fatalf("unexpected decode: %+v", msg)
	}
	if msg.Token.ActingAs != nil {
		t.Fatalf("expected nil ActingAs, got %+v", msg.Token.ActingAs)
	}
	encoded, err := EncodeClientMessage(msg, DefaultParser)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	m := encoded.(map[string]any)
	if m["tokenType"] != "Admin" {
		t.Fatalf("expected tokenType Admin, got %v", m["tokenType"])
	}
	if _, present := m["impersonating"]; present {
		t.Fatalf("impersonating must never be emitted")
	}
	if _, present := m["actingAs"]; present {
		t.Fatalf("actingAs should be absent when no identity is attached")
	}
}

func TestAuthenticateUserRoundTrips(t *testing.T) {
	raw := `{"type":"Authenticate","tokenType":"User","value":"fakefakefake","baseVersion":0}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.Token.Kind != TokenUser || msg.Token.Value != "fakefakefake" {
		t.Fatalf("unexpected decode: %+v", msg)
	}
	encoded, err := EncodeClientMessage(msg, DefaultParser)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	m := encoded.(map[string]any)
	if m["tokenType"] != "User" || m["value"] != "fakefakefake" {
		t.Fatalf("round trip mismatch: %+v", m)
	}
}

func TestAdminTokenAcceptsLegacyImpersonatingAlias(t *testing.T) {
	raw := `{"type":"Authenticate","tokenType":"Admin","value":"k","baseVersion":0,"impersonating":{"tokenIdentifier":"fake_identifier"}}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.Token.ActingAs == nil || msg.Token.ActingAs.TokenIdentifier != "fake_identifier" {
		t.Fatalf("expected ActingAs derived from impersonating, got %+v", msg.Token.ActingAs)
	}
}

func TestMutationWithOnlyLegacyMutationId(t *testing.T) {
	raw := `{"type":"Mutation","mutationId":7,"udfPath":"foo:bar","args":[]}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.RequestId != synctypes.SessionRequestSeqNumber(7) {
		t.Fatalf("expected requestId 7, got %d", msg.RequestId)
	}
	encoded, err := EncodeClientMessage(msg, DefaultParser)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	m := encoded.(map[string]any)
	if m["requestId"] != uint32(7) || m["mutationId"] != uint32(7) {
		t.Fatalf("expected both requestId and mutationId set to 7, got %+v", m)
	}
}

func TestMutationWithNeitherRequestIdNorLegacyFails(t *testing.T) {
	raw := `{"type":"Mutation","udfPath":"foo:bar","args":[]}`
	_, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if !errors.Is(err, ErrMissingRequestId) {
		t.Fatalf("expected ErrMissingRequestId, got %v", err)
	}
}

func TestActionWithOnlyLegacyActionId(t *testing.T) {
	raw := `{"type":"Action","actionId":3,"udfPath":"foo:bar","args":[]}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.RequestId != synctypes.SessionRequestSeqNumber(3) {
		t.Fatalf("expected requestId 3, got %d", msg.RequestId)
	}
}

func TestConnectDefaultsMissingLastCloseReason(t *testing.T) {
	id, err := synctypes.NewSessionId()
	if err != nil {
		t.Fatalf("NewSessionId: %v", err)
	}
	raw := `{"type":"Connect","sessionId":"` + id.String() + `","connectionCount":1}`
	msg, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	if msg.LastCloseReason != "unknown" {
		t.Fatalf("expected default lastCloseReason unknown, got %q", msg.LastCloseReason)
	}
	encoded, err := EncodeClientMessage(msg, DefaultParser)
	if err != nil {
		t.Fatalf("EncodeClientMessage: %v", err)
	}
	m := encoded.(map[string]any)
	if m["lastCloseReason"] != "unknown" {
		t.Fatalf("encoder must always emit lastCloseReason, got %+v", m)
	}
}

func TestUnknownClientMessageTypeFails(t *testing.T) {
	raw := `{"type":"Bogus"}`
	_, err := DecodeClientMessage(decodeAny(t, raw), DefaultParser)
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}
