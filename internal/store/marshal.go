package store

import (
	"encoding/json"
	"fmt"
)

// marshalDeps serializes a token's reference names as a JSON array.
// nil and empty both become "[]" so the column never holds NULL.
func marshalDeps(deps []string) (string, error) {
	if len(deps) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(deps)
	if err != nil {
		return "", fmt.Errorf("marshal deps: %w", err)
	}
	return string(data), nil
}

// unmarshalDeps parses the deps column back into a slice. Empty arrays
// come back as nil to keep token equality simple.
func unmarshalDeps(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var deps []string
	if err := json.Unmarshal([]byte(raw), &deps); err != nil {
		return nil, fmt.Errorf("unmarshal deps: %w", err)
	}
	if len(deps) == 0 {
		return nil, nil
	}
	return deps, nil
}
