package dhis2

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// InferItemKey finds the key of a list envelope's item array: the first
// key (in document order) holding a non-empty array of objects, else the
// first key holding any array. Returns "" when the payload carries no
// array.
func InferItemKey(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return ""
	}
	firstArray := ""
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return ""
		}
		key, ok := keyTok.(string)
		if !ok {
			return ""
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return ""
		}
		var items []json.RawMessage
		if err := json.Unmarshal(value, &items); err != nil {
			continue
		}
		trimmed := make([]json.RawMessage, 0, 1)
		if len(items) > 0 {
			trimmed = append(trimmed, bytes.TrimSpace(items[0]))
		}
		if len(trimmed) > 0 && len(trimmed[0]) > 0 && trimmed[0][0] == '{' {
			return key
		}
		if firstArray == "" {
			firstArray = key
		}
	}
	return firstArray
}

// itemsUnderInferredKey returns the raw items of the envelope's inferred
// list key.
func itemsUnderInferredKey(raw json.RawMessage) ([]json.RawMessage, error) {
	key := InferItemKey(raw)
	if key == "" {
		return nil, fmt.Errorf("no list key in response envelope")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(envelope[key], &items); err != nil {
		return nil, fmt.Errorf("decode %q items: %w", key, err)
	}
	return items, nil
}
