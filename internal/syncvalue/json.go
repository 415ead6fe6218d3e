package syncvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Reserved tag names dispatched by the single-key object rule (spec §4.B).
const (
	tagID      = "$id"
	tagBytes   = "$bytes"
	tagInteger = "$integer"
	tagFloat   = "$float"
	tagSet     = "$set"
	tagMap     = "$map"
)

// Encode converts v into a plain Go value (map[string]any / []any / string /
// float64 / bool / nil) suitable for json.Marshal, applying the canonical
// Value->JSON mapping from spec §4.B.
func Encode(v Value) (any, error) {
	switch v.Kind() {
	case KindID:
		id, _ := v.AsID()
		return map[string]any{tagID: id}, nil
	case KindNull:
		return nil, nil
	case KindInt64:
		n, _ := v.AsInt64()
		return map[string]any{tagInteger: EncodeJsonInteger(n)}, nil
	case KindFloat64:
		n, _ := v.AsFloat64()
		if isBareEncodable(n) {
			return n, nil
		}
		return map[string]any{tagFloat: EncodeJsonFloat(n)}, nil
	case KindBoolean:
		b, _ := v.AsBoolean()
		return b, nil
	case KindString:
		s, _ := v.AsString()
		return s, nil
	case KindBytes:
		b, _ := v.AsBytes()
		return map[string]any{tagBytes: EncodeJsonBytes(b)}, nil
	case KindArray:
		arr, _ := v.AsArray()
		return encodeSlice(arr)
	case KindSet:
		items, _ := v.AsSet()
		encoded, err := encodeSlice(items)
		if err != nil {
			return nil, err
		}
		return map[string]any{tagSet: encoded}, nil
	case KindMap:
		entries, _ := v.AsMap()
		out := make([]any, len(entries))
		for i, e := range entries {
			k, err := Encode(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := Encode(e.Value)
			if err != nil {
				return nil, err
			}
			out[i] = []any{k, val}
		}
		return map[string]any{tagMap: out}, nil
	case KindObject:
		obj, _ := v.AsObject()
		out := make(map[string]any, len(obj))
		for k, e := range obj {
			enc, err := Encode(e)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	default:
		return nil, fmt.Errorf("syncvalue: unknown kind %d", v.Kind())
	}
}

func encodeSlice(items []Value) ([]any, error) {
	out := make([]any, len(items))
	for i, e := range items {
		enc, err := Encode(e)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

// MarshalJSON encodes v to its canonical JSON bytes.
func MarshalJSON(v Value) ([]byte, error) {
	enc, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(enc)
}

// UnmarshalJSON parses raw JSON bytes into a Value per spec §4.B.
func UnmarshalJSON(raw []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return Value{}, fmt.Errorf("syncvalue: parsing JSON: %w", err)
	}
	return Decode(parsed)
}

// Decode converts a value already produced by encoding/json (decoded with
// UseNumber so arbitrary-precision detection is possible) into a Value.
func Decode(parsed any) (Value, error) {
	switch x := parsed.(type) {
	case nil:
		return Null, nil
	case bool:
		return NewBoolean(x), nil
	case json.Number:
		return decodeNumber(x)
	case float64:
		return NewFloat64(x), nil
	case string:
		return NewString(x), nil
	case []any:
		items := make([]Value, len(x))
		for i, e := range x {
			d, err := Decode(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = d
		}
		return NewArray(items), nil
	case map[string]any:
		return decodeObject(x)
	default:
		return Value{}, fmt.Errorf("syncvalue: unexpected decoded JSON type %T", parsed)
	}
}

func decodeNumber(n json.Number) (Value, error) {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return Value{}, fmt.Errorf("JSON number %q not representable as Float64: %w", n.String(), ErrUnsupportedPrecision)
	}
	return NewFloat64(f), nil
}

func decodeObject(m map[string]any) (Value, error) {
	if len(m) == 1 {
		for key, val := range m {
			switch key {
			case tagID:
				return decodeTaggedString(key, val, func(s string) (Value, error) {
					return NewID(s), nil
				})
			case tagBytes:
				return decodeTaggedString(key, val, func(s string) (Value, error) {
					b, err := DecodeJsonBytes(s)
					if err != nil {
						return Value{}, err
					}
					return NewBytes(b), nil
				})
			case tagInteger:
				return decodeTaggedString(key, val, func(s string) (Value, error) {
					n, err := DecodeJsonInteger(s)
					if err != nil {
						return Value{}, err
					}
					return NewInt64(n), nil
				})
			case tagFloat:
				return decodeTaggedString(key, val, func(s string) (Value, error) {
					n, err := DecodeJsonFloat(s)
					if err != nil {
						return Value{}, err
					}
					if isBareEncodable(n) {
						return Value{}, fmt.Errorf("float %v should be encoded as a bare number: %w", n, ErrRedundantFloatEncoding)
					}
					return NewFloat64(n), nil
				})
			case tagSet:
				arr, ok := val.([]any)
				if !ok {
					return Value{}, fmt.Errorf("%s value must be a JSON array: %w", tagSet, ErrReservedTagAbuse)
				}
				items := make([]Value, len(arr))
				for i, e := range arr {
					d, err := Decode(e)
					if err != nil {
						return Value{}, err
					}
					items[i] = d
				}
				return NewSet(items)
			case tagMap:
				arr, ok := val.([]any)
				if !ok {
					return Value{}, fmt.Errorf("%s value must be a JSON array: %w", tagMap, ErrReservedTagAbuse)
				}
				entries := make([]MapEntry, len(arr))
				for i, e := range arr {
					pair, ok := e.([]any)
					if !ok || len(pair) != 2 {
						return Value{}, fmt.Errorf("%s entry must be a 2-element array: %w", tagMap, ErrReservedTagAbuse)
					}
					k, err := Decode(pair[0])
					if err != nil {
						return Value{}, err
					}
					v, err := Decode(pair[1])
					if err != nil {
						return Value{}, err
					}
					entries[i] = MapEntry{Key: k, Value: v}
				}
				return NewMap(entries)
			default:
				// Unknown single-$ tag (or a non-$ single field) decodes as
				// an ordinary Object, preserving the literal field name.
				d, err := Decode(val)
				if err != nil {
					return Value{}, err
				}
				return NewObject(map[string]Value{key: d}), nil
			}
		}
	}
	fields := make(map[string]Value, len(m))
	for k, val := range m {
		d, err := Decode(val)
		if err != nil {
			return Value{}, err
		}
		fields[k] = d
	}
	return NewObject(fields), nil
}

func decodeTaggedString(tag string, val any, build func(string) (Value, error)) (Value, error) {
	s, ok := val.(string)
	if !ok {
		return Value{}, fmt.Errorf("%s value must be a JSON string: %w", tag, ErrReservedTagAbuse)
	}
	return build(s)
}
