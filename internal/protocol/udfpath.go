package protocol

import "fmt"

// UdfPath is an opaque string naming a user-defined function. The core
// protocol never inspects its structure; it only round-trips the string
// and, where a Parser is supplied, validates it at the boundary.
type UdfPath string

// Parser validates and canonicalizes a raw udf path string. Callers that
// care about path structure (module/function resolution, canonicalized
// separators, and so on) supply one; the zero value of the protocol
// package accepts any non-empty string.
type Parser interface {
	Parse(raw string) (UdfPath, error)
}

// ParserFunc adapts a plain function to the Parser interface.
type ParserFunc func(raw string) (UdfPath, error)

// Parse implements Parser.
func (f ParserFunc) Parse(raw string) (UdfPath, error) { return f(raw) }

// DefaultParser rejects only the empty path, treating every other string
// as an opaque, already-canonical udf path.
var DefaultParser Parser = ParserFunc(func(raw string) (UdfPath, error) {
	if raw == "" {
		return "", fmt.Errorf("udf path must not be empty: %w", ErrMalformedUdfPath)
	}
	return UdfPath(raw), nil
})

// String returns the raw path string.
func (p UdfPath) String() string { return string(p) }
