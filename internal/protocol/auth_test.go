package protocol

import (
	"errors"
	"testing"

	"github.com/codewiresh/syncwire/internal/identity"
)

func TestEncodeAdminTokenWithActingAsUsesActingAsKey(t *testing.T) {
	attrs := identity.Attributes{TokenIdentifier: "fake_identifier"}
	tok := AuthenticationToken{Kind: TokenAdmin, Value: "key", ActingAs: &attrs}
	encoded, err := EncodeAuthenticationToken(tok)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	m := encoded.(map[string]any)
	if _, present := m["impersonating"]; present {
		t.Fatalf("impersonating must never be emitted")
	}
	actingAs, ok := m["actingAs"].(map[string]any)
	if !ok {
		t.Fatalf("expected actingAs object, got %+v", m["actingAs"])
	}
	if actingAs["tokenIdentifier"] != "fake_identifier" {
		t.Fatalf("unexpected actingAs: %+v", actingAs)
	}
}

func TestDecodeNoneToken(t *testing.T) {
	tok, err := DecodeAuthenticationToken(map[string]any{"tokenType": "None"})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tok.Kind != TokenNone {
		t.Fatalf("expected None, got %+v", tok)
	}
}

func TestDecodeUnknownTokenTypeFails(t *testing.T) {
	_, err := DecodeAuthenticationToken(map[string]any{"tokenType": "Bogus"})
	if !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}
