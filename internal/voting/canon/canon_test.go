package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeMapKeyOrderIndependence(t *testing.T) {
	a := map[string]any{"a": 1, "b": 2}
	b := map[string]any{"b": 2, "a": 1}

	assert.Equal(t, Canonicalize(a), Canonicalize(b))
	assert.Equal(t, Hash(a), Hash(b))
}

func TestCanonicalizeDetectsValueChange(t *testing.T) {
	a := map[string]any{"a": 1}
	b := map[string]any{"a": 2}

	assert.NotEqual(t, Canonicalize(a), Canonicalize(b))
}

func TestCanonicalizeDetectsKeyChange(t *testing.T) {
	a := map[string]any{"a": 1}
	b := map[string]any{"x": 1}

	assert.NotEqual(t, Canonicalize(a), Canonicalize(b))
}

func TestCanonicalizePreservesSequenceOrder(t *testing.T) {
	a := []any{1, 2, 3}
	b := []any{3, 2, 1}

	assert.NotEqual(t, Canonicalize(a), Canonicalize(b), "sequences with different order must not canonicalize equal")
}

func TestCanonicalizeNestedStructures(t *testing.T) {
	a := map[string]any{
		"outer": map[string]any{"x": 1, "y": []any{1, 2}},
		"list":  []any{map[string]any{"z": "v"}},
	}
	b := map[string]any{
		"list":  []any{map[string]any{"z": "v"}},
		"outer": map[string]any{"y": []any{1, 2}, "x": 1},
	}

	assert.Equal(t, Canonicalize(a), Canonicalize(b), "nested key-order-equivalent structures should canonicalize equal")
}

func TestCanonicalizeScalars(t *testing.T) {
	cases := []struct {
		a, b  any
		equal bool
	}{
		{nil, nil, true},
		{true, true, true},
		{true, false, false},
		{"x", "x", true},
		{"x", "y", false},
	}

	for _, c := range cases {
		got := Canonicalize(c.a) == Canonicalize(c.b)
		assert.Equal(t, c.equal, got, "Canonicalize(%v) == Canonicalize(%v)", c.a, c.b)
	}
}

// TestCanonicalizeIntAndWholeFloatAgree asserts that a whole-number
// float64 (as yaml.v3 may produce for an integer-looking scalar) and a
// Go int of the same value canonicalize identically, since the
// pipeline's parsed values are untyped `any` and the canonicaliser must
// not distinguish between their two Go representations of "the same
// number".
func TestCanonicalizeIntAndWholeFloatAgree(t *testing.T) {
	assert.Equal(t, Canonicalize(1), Canonicalize(1.0))
}

func TestHashLength(t *testing.T) {
	h := Hash(map[string]any{"a": 1})
	assert.Len(t, h, 16)
}

func TestCanonicalizeStringEscaping(t *testing.T) {
	v := "line1\nline2\ttab\"quote\\backslash"
	out := Canonicalize(v)
	assert.True(t, len(out) >= 2 && out[0] == '"' && out[len(out)-1] == '"', "expected quoted output, got %q", out)
}
