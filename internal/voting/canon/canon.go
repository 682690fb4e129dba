// Package canon content-addresses a nested value: mapping keys are
// sorted lexicographically at every depth, sequence order is preserved,
// and the result is hashed to a short, stable digest (spec.md §4.1).
// Grounded on the teacher's recursive value-walk in
// normalizeStringValues (internal/application/executor/graph.go),
// generalized here to also canonicalize key order instead of only
// trimming strings.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonicalize renders value as a stable string: map keys sorted at
// every depth, list order preserved, ASCII-safe, minimal separators.
func Canonicalize(value any) string {
	var b strings.Builder
	writeValue(&b, value)
	return b.String()
}

// Hash returns the 16-hex-character truncated SHA-256 of the
// canonical string for value.
func Hash(value any) string {
	sum := sha256.Sum256([]byte(Canonicalize(value)))
	return hex.EncodeToString(sum[:])[:16]
}

func writeValue(b *strings.Builder, value any) {
	switch v := value.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if v {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case string:
		writeString(b, v)
	case map[string]any:
		writeMap(b, v)
	case map[any]any:
		// yaml.v3 can produce map[string]any, but guard against the
		// untyped-key shape defensively.
		converted := make(map[string]any, len(v))
		for k, val := range v {
			converted[fmt.Sprint(k)] = val
		}
		writeMap(b, converted)
	case []any:
		writeSlice(b, v)
	case int:
		b.WriteString(strconv.Itoa(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case float64:
		writeFloat(b, v)
	default:
		writeString(b, fmt.Sprint(v))
	}
}

func writeMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		writeString(b, k)
		b.WriteByte(':')
		writeValue(b, m[k])
	}
	b.WriteByte('}')
}

func writeSlice(b *strings.Builder, s []any) {
	b.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		writeValue(b, v)
	}
	b.WriteByte(']')
}

func writeFloat(b *strings.Builder, f float64) {
	if f == float64(int64(f)) {
		b.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

// writeString emits an ASCII-safe, quoted string, escaping control
// characters and non-ASCII runes.
func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString("\\n")
		case r == '\t':
			b.WriteString("\\t")
		case r < 0x20 || r > 0x7e:
			fmt.Fprintf(b, "\\u%04x", r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
