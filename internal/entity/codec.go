package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType declares how a field is encoded at the store boundary.
// Application code never sees encoded values; records hold typed Go fields
// and this table only governs (de)serialization.
type FieldType int

const (
	// TypeString is stored raw.
	TypeString FieldType = iota
	// TypeInt is stored as JSON text.
	TypeInt
	// TypeBool is stored as JSON text.
	TypeBool
	// TypeCSV is a list of ids stored comma-joined. Ids must not contain
	// commas.
	TypeCSV
	// TypeJSON is an arbitrary value stored as JSON text.
	TypeJSON
)

// Encode serializes a typed field value for the store.
func Encode(t FieldType, v any) (string, error) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("encode: expected string, got %T", v)
		}
		return s, nil
	case TypeCSV:
		list, ok := v.([]string)
		if !ok {
			return "", fmt.Errorf("encode: expected []string, got %T", v)
		}
		return strings.Join(list, ","), nil
	case TypeInt, TypeBool, TypeJSON:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("encode: unknown field type %d", t)
	}
}

// Decode parses a stored value back into its typed form: string, int, bool,
// []string, or any (for TypeJSON).
func Decode(t FieldType, raw string) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeCSV:
		if raw == "" {
			return []string{}, nil
		}
		return strings.Split(raw, ","), nil
	case TypeInt:
		var n int
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			return nil, fmt.Errorf("decode int %q: %w", raw, err)
		}
		return n, nil
	case TypeBool:
		var b bool
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("decode bool %q: %w", raw, err)
		}
		return b, nil
	case TypeJSON:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode json %q: %w", raw, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("decode: unknown field type %d", t)
	}
}
