package syncvalue

import (
	"errors"
	"math"
	"testing"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	raw, err := MarshalJSON(v)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got, err := UnmarshalJSON(raw)
	if err != nil {
		t.Fatalf("UnmarshalJSON(%s): %v", raw, err)
	}
	return got
}

func TestValueRoundTrips(t *testing.T) {
	set, err := NewSet([]Value{NewInt64(1), NewInt64(2)})
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMap([]MapEntry{{Key: NewString("k"), Value: NewInt64(9)}})
	if err != nil {
		t.Fatal(err)
	}

	cases := []Value{
		NewID("doc123"),
		Null,
		NewInt64(-42),
		NewInt64(math.MaxInt64),
		NewFloat64(1.0),
		NewFloat64(-2.5),
		NewFloat64(0.0),
		NewFloat64(math.Copysign(0, -1)),
		NewFloat64(math.NaN()),
		NewFloat64(math.Inf(1)),
		NewFloat64(math.Inf(-1)),
		NewBoolean(true),
		NewBoolean(false),
		NewString("hello ☃"),
		NewBytes([]byte{0, 1, 2, 255}),
		NewArray([]Value{NewInt64(1), NewString("x"), NewFloat64(math.NaN())}),
		set,
		m,
		NewObject(map[string]Value{"field": NewInt64(1)}),
	}

	for _, v := range cases {
		got := roundTrip(t, v)
		if !Equal(got, v) {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, v)
		}
	}
}

func TestFloatBareEncodingInvariant(t *testing.T) {
	bareCases := map[string]float64{
		"1":         1.0,
		"-1":        -1.0,
		"0":         0.0,
		"subnormal": math.SmallestNonzeroFloat64,
	}
	for name, n := range bareCases {
		enc, err := Encode(NewFloat64(n))
		if err != nil {
			t.Fatalf("%s: Encode: %v", name, err)
		}
		if _, isObject := enc.(map[string]any); isObject {
			t.Errorf("%s: expected bare number encoding, got object %v", name, enc)
		}
	}

	objectCases := map[string]float64{
		"nan":      math.NaN(),
		"+inf":     math.Inf(1),
		"-inf":     math.Inf(-1),
		"neg-zero": math.Copysign(0, -1),
	}
	for name, n := range objectCases {
		enc, err := Encode(NewFloat64(n))
		if err != nil {
			t.Fatalf("%s: Encode: %v", name, err)
		}
		obj, isObject := enc.(map[string]any)
		if !isObject {
			t.Errorf("%s: expected $float object encoding, got %v", name, enc)
			continue
		}
		if _, ok := obj["$float"]; !ok {
			t.Errorf("%s: expected $float key, got %v", name, obj)
		}
	}
}

func TestDecodeRejectsRedundantFloatEncoding(t *testing.T) {
	encoded := EncodeJsonFloat(1.0)
	raw := []byte(`{"$float":"` + encoded + `"}`)
	_, err := UnmarshalJSON(raw)
	if !errors.Is(err, ErrRedundantFloatEncoding) {
		t.Fatalf("expected ErrRedundantFloatEncoding, got %v", err)
	}
}

func TestDecodeRejectsDuplicateSetElements(t *testing.T) {
	raw := []byte(`{"$set":[1,1]}`)
	_, err := UnmarshalJSON(raw)
	if !errors.Is(err, ErrDuplicateSetElement) {
		t.Fatalf("expected ErrDuplicateSetElement, got %v", err)
	}
}

func TestDecodeRejectsDuplicateMapKeys(t *testing.T) {
	raw := []byte(`{"$map":[["a",1],["a",2]]}`)
	_, err := UnmarshalJSON(raw)
	if !errors.Is(err, ErrDuplicateMapKey) {
		t.Fatalf("expected ErrDuplicateMapKey, got %v", err)
	}
}

func TestDecodeUnknownSingleTagIsObject(t *testing.T) {
	raw := []byte(`{"$unknownTag": 5}`)
	v, err := UnmarshalJSON(raw)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	obj, ok := v.AsObject()
	if !ok {
		t.Fatalf("expected Object, got kind %v", v.Kind())
	}
	if _, ok := obj["$unknownTag"]; !ok {
		t.Fatalf("expected field %q preserved, got %v", "$unknownTag", obj)
	}
}

func TestDecodeMultiKeyObjectWithDollarField(t *testing.T) {
	raw := []byte(`{"$id": "x", "other": 1}`)
	v, err := UnmarshalJSON(raw)
	if err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if v.Kind() != KindObject {
		t.Fatalf("expected Object for multi-key object, got kind %v", v.Kind())
	}
}

func TestDecodeSetMustBeArray(t *testing.T) {
	raw := []byte(`{"$set": "not-an-array"}`)
	_, err := UnmarshalJSON(raw)
	if !errors.Is(err, ErrReservedTagAbuse) {
		t.Fatalf("expected ErrReservedTagAbuse, got %v", err)
	}
}

func TestDecodeArbitraryPrecisionNumberFails(t *testing.T) {
	// An exponent far outside float64 range overflows ParseFloat.
	raw := []byte(`1e400`)
	_, err := UnmarshalJSON(raw)
	if !errors.Is(err, ErrUnsupportedPrecision) {
		t.Fatalf("expected ErrUnsupportedPrecision, got %v", err)
	}
}

func TestValueRoundTripsTrophies(t *testing.T) {
	trophies := []Value{
		NewFloat64(1.0),
		NewFloat64(math.NaN()),
		NewArray([]Value{NewFloat64(math.NaN())}),
	}
	for _, trophy := range trophies {
		got := roundTrip(t, trophy)
		if !Equal(got, trophy) {
			t.Errorf("trophy round trip mismatch: got %+v, want %+v", got, trophy)
		}
	}
}
