package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/codewiresh/syncwire/internal/synctypes"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

var valueCodec = ValueCodec[syncvalue.Value]{
	Encode: syncvalue.Encode,
	Decode: syncvalue.Decode,
}

func decodeFixture(t *testing.T, raw string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return v
}

// viaJSON marshals an encoder's output and parses it back the way a wire
// frame is parsed, since the decoders accept decoded JSON, not the
// encoders' in-memory maps.
func viaJSON(t *testing.T, encoded any) any {
	t.Helper()
	raw, err := json.Marshal(encoded)
	if err != nil {
		t.Fatalf("marshaling encoded value: %v", err)
	}
	return decodeFixture(t, string(raw))
}

func TestStateVersionCodecRoundTrips(t *testing.T) {
	v := synctypes.StateVersion{QuerySet: 3, Identity: 2, Ts: synctypes.Timestamp(7)}
	encoded := encodeStateVersion(v)
	back, err := decodeStateVersion(viaJSON(t, encoded))
	if err != nil {
		t.Fatalf("decodeStateVersion: %v", err)
	}
	if back != v {
		t.Fatalf("round trip mismatch: got %+v, want %+v", back, v)
	}
}

func TestTransitionMessageRoundTrips(t *testing.T) {
	msg := ServerMessage[syncvalue.Value]{
		Kind:         SrvTransition,
		StartVersion: synctypes.InitialStateVersion(),
		EndVersion:   synctypes.StateVersion{QuerySet: 1, Identity: 0, Ts: 5},
		Modifications: []StateModification[syncvalue.Value]{
			{
				Kind:     ModQueryUpdated,
				QueryId:  synctypes.QueryId(1),
				Value:    syncvalue.NewString("ok"),
				LogLines: []string{"line1"},
				Journal:  strPtr("tok"),
			},
			{Kind: ModQueryRemoved, QueryId: synctypes.QueryId(2)},
		},
	}
	encoded, err := EncodeServerMessage(msg, valueCodec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := encoded.(map[string]any)
	mods := m["modifications"].([]any)
	first := mods[0].(map[string]any)
	if first["type"] != "queryUpdated" {
		t.Fatalf("expected camelCase queryUpdated tag, got %v", first["type"])
	}
	back, err := DecodeServerMessage[syncvalue.Value](viaJSON(t, encoded), valueCodec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.Kind != SrvTransition || len(back.Modifications) != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if !syncvalue.Equal(back.Modifications[0].Value, syncvalue.NewString("ok")) {
		t.Fatalf("value mismatch after round trip")
	}
}

func TestMutationResponseEmitsBothRequestIdAndLegacyAlias(t *testing.T) {
	msg := ServerMessage[syncvalue.Value]{
		Kind:      SrvMutationResponse,
		RequestId: synctypes.SessionRequestSeqNumber(42),
		Result:    FunctionResult[syncvalue.Value]{Ok: true, Value: syncvalue.NewInt64(10)},
		LogLines:  []string{},
	}
	encoded, err := EncodeServerMessage(msg, valueCodec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := encoded.(map[string]any)
	if m["requestId"] != uint32(42) || m["mutationId"] != uint32(42) {
		t.Fatalf("expected both requestId and mutationId, got %+v", m)
	}
}

func TestMutationResponseWithOnlyLegacyMutationIdDecodes(t *testing.T) {
	raw := `{"type":"MutationResponse","mutationId":9,"success":false,"result":"boom","logLines":[]}`
	msg, err := DecodeServerMessage[syncvalue.Value](decodeFixture(t, raw), valueCodec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.RequestId != synctypes.SessionRequestSeqNumber(9) {
		t.Fatalf("expected requestId 9, got %d", msg.RequestId)
	}
	if msg.Result.Ok || msg.Result.ErrorMessage != "boom" {
		t.Fatalf("unexpected result: %+v", msg.Result)
	}
}

func TestMutationResponseWithNeitherIdFails(t *testing.T) {
	raw := `{"type":"MutationResponse","success":true,"result":1,"logLines":[]}`
	_, err := DecodeServerMessage[syncvalue.Value](decodeFixture(t, raw), valueCodec)
	if !errors.Is(err, ErrMissingRequestId) {
		t.Fatalf("expected ErrMissingRequestId, got %v", err)
	}
}

func TestPingRoundTrips(t *testing.T) {
	msg := ServerMessage[syncvalue.Value]{Kind: SrvPing}
	encoded, err := EncodeServerMessage(msg, valueCodec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := encoded.(map[string]any)
	if len(m) != 1 || m["type"] != "Ping" {
		t.Fatalf("expected bare {type: Ping}, got %+v", m)
	}
	back, err := DecodeServerMessage[syncvalue.Value](encoded, valueCodec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.Kind != SrvPing {
		t.Fatalf("expected Ping, got %+v", back)
	}
}

func TestAuthErrorCarriesOptionalBaseVersion(t *testing.T) {
	raw := `{"type":"AuthError","error":"bad token"}`
	msg, err := DecodeServerMessage[syncvalue.Value](decodeFixture(t, raw), valueCodec)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.BaseVersion != nil {
		t.Fatalf("expected nil BaseVersion, got %v", *msg.BaseVersion)
	}
	if msg.ErrorMessage != "bad token" {
		t.Fatalf("unexpected error message: %q", msg.ErrorMessage)
	}
}

func TestUnknownServerMessageTypeFails(t *testing.T) {
	raw := `{"type":"Bogus"}`
	_, err := DecodeServerMessage[syncvalue.Value](decodeFixture(t, raw), valueCodec)
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestStateModificationJournalAlwaysSerializedWhenUnset(t *testing.T) {
	updated := StateModification[syncvalue.Value]{
		Kind:     ModQueryUpdated,
		QueryId:  synctypes.QueryId(1),
		Value:    syncvalue.NewString("ok"),
		LogLines: []string{},
	}
	encoded, err := EncodeStateModification(updated, valueCodec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := encoded.(map[string]any)
	journal, present := m["journal"]
	if !present {
		t.Fatalf(`expected "journal" key to be present, got %+v`, m)
	}
	if journal != nil {
		t.Fatalf("expected journal to be null, got %v", journal)
	}

	failed := StateModification[syncvalue.Value]{
		Kind:    ModQueryFailed,
		QueryId: synctypes.QueryId(2),
	}
	encoded, err = EncodeStateModification(failed, valueCodec)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m = encoded.(map[string]any)
	journal, present = m["journal"]
	if !present {
		t.Fatalf(`expected "journal" key to be present, got %+v`, m)
	}
	if journal != nil {
		t.Fatalf("expected journal to be null, got %v", journal)
	}
}

func strPtr(s string) *string { return &s }
