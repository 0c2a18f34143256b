package model

import (
	"encoding/json"
	"math"
)

// Helpers for reading loosely-typed JSON objects. Objects are expected to be
// decoded with json.Decoder.UseNumber, plain float64 numbers are accepted too.

func requiredString(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", ErrMissingField(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrInvalidField(key, v)
	}
	return s, nil
}

// optionalString returns nil for absent, null or non-string values
func optionalString(data map[string]any, key string) *string {
	s, ok := data[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func requiredInt(data map[string]any, key string) (int, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return 0, ErrMissingField(key)
	}

	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), nil
		}
		parsed, err := n.Float64()
		if err != nil {
			return 0, NewDecodeError(key, "not a number", err)
		}
		f = parsed
	case float64:
		f = n
	case int:
		return n, nil
	default:
		return 0, ErrInvalidField(key, v)
	}

	// 200.0 is accepted, 200.5 is not
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, NewDecodeError(key, "not an integer", nil)
	}
	return int(f), nil
}

func requiredBool(data map[string]any, key string) (bool, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return false, ErrMissingField(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, ErrInvalidField(key, v)
	}
	return b, nil
}

// optionalComparison is lenient: unknown letters decode to nil
func optionalComparison(data map[string]any, key string) *ComparisonResult {
	s := optionalString(data, key)
	if s == nil {
		return nil
	}
	c, ok := ParseComparisonResult(*s)
	if !ok {
		return nil
	}
	return &c
}
