package syncvalue

import (
	"math"
	"testing"
)

func TestFloatTotalOrderEquality(t *testing.T) {
	nan1 := NewFloat64(math.NaN())
	nan2 := NewFloat64(math.NaN())
	if !Equal(nan1, nan2) {
		t.Fatal("NaN should equal NaN under total-order equality")
	}

	posZero := NewFloat64(0.0)
	negZero := NewFloat64(math.Copysign(0, -1))
	if Equal(posZero, negZero) {
		t.Fatal("+0 should not equal -0 under total-order equality")
	}
}

func TestNewSetRejectsDuplicates(t *testing.T) {
	_, err := NewSet([]Value{NewInt64(1), NewInt64(1)})
	if err == nil {
		t.Fatal("expected duplicate set element error")
	}
}

func TestNewSetRejectsDuplicateNaNPerBitPattern(t *testing.T) {
	// Two NaNs with the same bit pattern are equal and thus duplicates.
	_, err := NewSet([]Value{NewFloat64(math.NaN()), NewFloat64(math.NaN())})
	if err == nil {
		t.Fatal("expected duplicate set element error for identical NaNs")
	}
}

func TestNewMapRejectsDuplicateKeys(t *testing.T) {
	_, err := NewMap([]MapEntry{
		{Key: NewString("a"), Value: NewInt64(1)},
		{Key: NewString("a"), Value: NewInt64(2)},
	})
	if err == nil {
		t.Fatal("expected duplicate map key error")
	}
}

func TestCompareOrdersByVariantThenContent(t *testing.T) {
	if Compare(NewInt64(100), NewFloat64(-100)) == 0 {
		t.Fatal("different kinds must never compare equal")
	}
	if Compare(NewInt64(1), NewInt64(1)) != 0 {
		t.Fatal("equal ints must compare equal")
	}
}

func TestAccessors(t *testing.T) {
	v := NewString("hello")
	s, ok := v.AsString()
	if !ok || s != "hello" {
		t.Fatalf("AsString() = (%q, %v), want (\"hello\", true)", s, ok)
	}
	if _, ok := v.AsInt64(); ok {
		t.Fatal("AsInt64 should report false on a String value")
	}
}
