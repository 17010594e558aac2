package store

import (
	"encoding/json"
	"fmt"
)

// EncodeList stores a list field as a JSON string, the way array fields are
// kept in documents.
func EncodeList[T any](items []T) string {
	if items == nil {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeList reads a list field written by EncodeList. It also accepts a
// plain JSON array, which is what a field holds when it was stored
// unencoded. A missing field decodes to an empty list.
func DecodeList[T any](v any) ([]T, error) {
	var raw []byte
	switch x := v.(type) {
	case nil:
		return []T{}, nil
	case string:
		if x == "" {
			return []T{}, nil
		}
		raw = []byte(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return nil, fmt.Errorf("encode list: %w", err)
		}
		raw = b
	}

	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
