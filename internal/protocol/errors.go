// Package protocol implements the client/server sync message schema:
// queries, mutations, actions, authentication, and the reactive state
// transitions the server streams back (spec §4).
package protocol

import (
	"errors"

	"github.com/codewiresh/syncwire/internal/identity"
)

// ErrMissingRequestId is returned when a Mutation or Action message (or
// MutationResponse/ActionResponse) carries neither the current requestId
// field nor its legacy mutationId/actionId alias.
var ErrMissingRequestId = errors.New("missing request id")

// ErrMissingIdentityKey is returned when an acting-as identity carries
// neither tokenIdentifier nor both issuer and subject. It is the same
// sentinel as identity.ErrMissingIdentityKey.
var ErrMissingIdentityKey = identity.ErrMissingIdentityKey

// ErrMalformedUdfPath is the error a Parser implementation should wrap
// when a udf path string fails to parse.
var ErrMalformedUdfPath = errors.New("malformed udf path")

// ErrUnknownVariant is returned when a tagged union's discriminator
// ("type" or "tokenType") does not match any known case.
var ErrUnknownVariant = errors.New("unknown variant")
