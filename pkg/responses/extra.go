// Package responses defines the typed payloads returned by the TikTok Open API.
//
// Every payload keeps the JSON members it does not model in an Extra map
// instead of dropping them, so callers can notice when the remote schema grows.
// A payload whose Extra is empty at every level decoded exactly as modeled.
package responses

import (
	"encoding/json"
	"fmt"
)

// Extra holds JSON members that are not part of the typed model, keyed by
// member name, with their original encoding
type Extra map[string]json.RawMessage

// Drifter is implemented by payloads that can report unmodeled members
type Drifter interface {
	// IsEmptyExtra reports whether the payload and all its sub-objects
	// decoded without unmodeled members
	IsEmptyExtra() bool
}

// UnmarshalWithExtra decodes data into v and returns every top-level member
// whose name is not listed in known. Member names match known exactly, so a
// key differing only in case lands in Extra and leaves v untouched. v must not
// itself implement json.Unmarshaler.
func UnmarshalWithExtra(data []byte, v any, known ...string) (Extra, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	modeled := make(map[string]json.RawMessage, len(known))
	for _, k := range known {
		if raw, ok := members[k]; ok {
			modeled[k] = raw
			delete(members, k)
		}
	}

	filtered, err := json.Marshal(modeled)
	if err != nil {
		return nil, fmt.Errorf("collecting modeled members: %w", err)
	}
	if err := json.Unmarshal(filtered, v); err != nil {
		return nil, err
	}

	if len(members) == 0 {
		return nil, nil
	}
	return Extra(members), nil
}

// MarshalWithExtra encodes v and adds the members of extra that v does not
// already produce
func MarshalWithExtra(v any, extra Extra) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return data, nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("merging extra members: %w", err)
	}
	for k, raw := range extra {
		if _, exists := members[k]; !exists {
			members[k] = raw
		}
	}
	return json.Marshal(members)
}

// emptyExtra reports whether d is nil or has no unmodeled members
func emptyExtra[D Drifter](d *D) bool {
	if d == nil {
		return true
	}
	return (*d).IsEmptyExtra()
}
