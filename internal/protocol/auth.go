package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/codewiresh/syncwire/internal/identity"
)

// AuthenticationTokenKind discriminates the AuthenticationToken union.
type AuthenticationTokenKind string

const (
	TokenAdmin AuthenticationTokenKind = "Admin"
	TokenUser  AuthenticationTokenKind = "User"
	TokenNone  AuthenticationTokenKind = "None"
)

// AuthenticationToken identifies the caller presenting a connection: an
// admin key (optionally acting as a specific user), a user-supplied OIDC
// JWT, or no credential at all.
type AuthenticationToken struct {
	Kind AuthenticationTokenKind
	// Value holds the admin key or JWT, valid for TokenAdmin and TokenUser.
	Value string
	// ActingAs holds the identity an admin key is impersonating, valid
	// only for TokenAdmin, and optional even then.
	ActingAs *identity.Attributes
}

// NoneToken is the logged-out AuthenticationToken.
var NoneToken = AuthenticationToken{Kind: TokenNone}

// EncodeAuthenticationToken renders an AuthenticationToken to JSON. The
// acting-as identity is always written under "actingAs"; the legacy
// "impersonating" key is accepted, never produced, on decode.
func EncodeAuthenticationToken(t AuthenticationToken) (any, error) {
	switch t.Kind {
	case TokenAdmin:
		m := map[string]any{
			"tokenType": string(TokenAdmin),
			"value":     t.Value,
		}
		if t.ActingAs != nil {
			raw, err := t.ActingAs.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("encoding actingAs identity: %w", err)
			}
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return nil, fmt.Errorf("encoding actingAs identity: %w", err)
			}
			m["actingAs"] = decoded
		}
		return m, nil
	case TokenUser:
		return map[string]any{
			"tokenType": string(TokenUser),
			"value":     t.Value,
		}, nil
	case TokenNone:
		return map[string]any{
			"tokenType": string(TokenNone),
		}, nil
	default:
		return nil, fmt.Errorf("encoding AuthenticationToken: %w: %q", ErrUnknownVariant, t.Kind)
	}
}

// DecodeAuthenticationToken parses an AuthenticationToken from decoded
// JSON, accepting both "actingAs" and the legacy "impersonating" key.
func DecodeAuthenticationToken(raw any) (AuthenticationToken, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return AuthenticationToken{}, fmt.Errorf("AuthenticationToken: expected object")
	}
	tag, err := decodeStringField(m, "tokenType")
	if err != nil {
		return AuthenticationToken{}, err
	}
	switch AuthenticationTokenKind(tag) {
	case TokenAdmin:
		value, err := decodeStringField(m, "value")
		if err != nil {
			return AuthenticationToken{}, err
		}
		actingAsRaw, ok := m["actingAs"]
		if !ok {
			actingAsRaw, ok = m["impersonating"]
		}
		if !ok || actingAsRaw == nil {
			return AuthenticationToken{Kind: TokenAdmin, Value: value}, nil
		}
		encoded, err := json.Marshal(actingAsRaw)
		if err != nil {
			return AuthenticationToken{}, fmt.Errorf("decoding actingAs identity: %w", err)
		}
		var attrs identity.Attributes
		if err := attrs.UnmarshalJSON(encoded); err != nil {
			return AuthenticationToken{}, fmt.Errorf("decoding actingAs identity: %w", err)
		}
		return AuthenticationToken{Kind: TokenAdmin, Value: value, ActingAs: &attrs}, nil
	case TokenUser:
		value, err := decodeStringField(m, "value")
		if err != nil {
			return AuthenticationToken{}, err
		}
		return AuthenticationToken{Kind: TokenUser, Value: value}, nil
	case TokenNone:
		return AuthenticationToken{Kind: TokenNone}, nil
	default:
		return AuthenticationToken{}, fmt.Errorf("AuthenticationToken tokenType %q: %w", tag, ErrUnknownVariant)
	}
}
