// Package syncvalue implements the canonical in-memory value model and its
// bit-preserving JSON encoding used by the reactive-query sync protocol.
package syncvalue

import "errors"

// Error kinds the codec distinguishes, matching the wire-protocol's §7
// error taxonomy. Callers branch on these with errors.Is; the codec wraps
// them with call-site context via fmt.Errorf("%w"). Errors from parsing
// malformed JSON text or from an unexpected Go type carry none of them.
var (
	ErrMalformedEncoding      = errors.New("malformed encoding")
	ErrUnsupportedPrecision   = errors.New("unsupported precision")
	ErrRedundantFloatEncoding = errors.New("redundant $float encoding")
	ErrDuplicateSetElement    = errors.New("duplicate set element")
	ErrDuplicateMapKey        = errors.New("duplicate map key")
	ErrReservedTagAbuse       = errors.New("reserved tag abuse")
)
