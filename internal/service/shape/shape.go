// Package shape normalizes loosely-typed JSON payloads (order items, metadata,
// QR payloads) and provides the fallback combinators used to reconcile them.
package shape

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/record"
)

// Kind classifies a stored payload before it is coerced.
type Kind int

const (
	KindAbsent Kind = iota
	KindArray
	KindObject
	KindEncodedString
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindEncodedString:
		return "encoded_string"
	default:
		return "absent"
	}
}

// Classify reports which shape v has.
func Classify(v any) Kind {
	switch val := v.(type) {
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	case record.Record:
		return KindObject
	case string:
		if strings.TrimSpace(val) == "" {
			return KindAbsent
		}
		return KindEncodedString
	case []byte:
		if len(bytes.TrimSpace(val)) == 0 {
			return KindAbsent
		}
		return KindEncodedString
	case json.RawMessage:
		if len(bytes.TrimSpace(val)) == 0 {
			return KindAbsent
		}
		return KindEncodedString
	default:
		return KindAbsent
	}
}

// decode parses an encoded payload. Parse failures are reported as absent.
func decode(v any) (any, bool) {
	var raw []byte
	switch val := v.(type) {
	case string:
		raw = []byte(val)
	case []byte:
		raw = val
	case json.RawMessage:
		raw = val
	default:
		return nil, false
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}

	return out, true
}

// Object coerces v into a fresh map: objects are shallow-copied, JSON strings are
// parsed. Anything else, including malformed JSON, yields nil.
func Object(v any) map[string]any {
	switch Classify(v) {
	case KindObject:
		var src map[string]any
		switch val := v.(type) {
		case map[string]any:
			src = val
		case record.Record:
			src = val
		}
		out := make(map[string]any, len(src))
		for k, val := range src {
			out[k] = val
		}
		return out
	case KindEncodedString:
		decoded, ok := decode(v)
		if !ok {
			return nil
		}
		if m, ok := decoded.(map[string]any); ok {
			return m
		}
		return nil
	default:
		return nil
	}
}

// Array coerces v into a list: a direct array, an object wrapping an array under
// one of keys, or a JSON string encoding either. Everything else yields nil.
func Array(v any, keys ...string) []any {
	switch Classify(v) {
	case KindArray:
		return v.([]any)
	case KindObject:
		obj := Object(v)
		for _, k := range keys {
			if arr, ok := obj[k].([]any); ok {
				return arr
			}
		}
		return nil
	case KindEncodedString:
		decoded, ok := decode(v)
		if !ok || Classify(decoded) == KindEncodedString {
			return nil
		}
		return Array(decoded, keys...)
	default:
		return nil
	}
}

// Lookup walks a dotted path through nested objects.
func Lookup(obj map[string]any, path string) any {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[part]
		if !ok {
			return nil
		}
	}

	return cur
}

// Pick returns the first non-nil value among the dotted paths.
func Pick(obj map[string]any, paths ...string) any {
	for _, p := range paths {
		if v := Lookup(obj, p); v != nil {
			return v
		}
	}

	return nil
}

// TrimToNull renders v as a trimmed string; empty or non-scalar values are nil.
func TrimToNull(v any) *string {
	switch v.(type) {
	case map[string]any, []any, bool:
		return nil
	}
	s, ok := record.ToString(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

// FirstNonEmpty returns the first candidate that trims to a non-empty string.
func FirstNonEmpty(candidates ...any) *string {
	for _, c := range candidates {
		if p, ok := c.(*string); ok {
			if p == nil {
				continue
			}
			c = *p
		}
		if s := TrimToNull(c); s != nil {
			return s
		}
	}

	return nil
}

// FirstOf evaluates candidates lazily and returns the first that reports ok.
// Evaluation stops at the first error.
func FirstOf[T any](candidates ...func() (T, bool, error)) (T, bool, error) {
	var zero T
	for _, c := range candidates {
		v, ok, err := c()
		if err != nil {
			return zero, false, err
		}
		if ok {
			return v, true, nil
		}
	}

	return zero, false, nil
}

// Number converts JSON numbers and numeric strings to a finite float.
func Number(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		d := record.ToDecimal(v)
		if !d.Valid {
			return 0, false
		}
		f = d.Decimal.InexactFloat64()
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
