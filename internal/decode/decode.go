// Package decode converts loosely typed payloads into slot types.
package decode

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Into converts v into T.
//
// A value already of type T passes through. JSON bytes (json.RawMessage, []byte) are
// unmarshalled. Anything else (maps decoded from JSON, YAML or MCP arguments) goes through
// mapstructure using the `json` tags, with weak typing so "42" fills an int.
func Into[T any](v any) (T, error) {
	var out T

	switch val := v.(type) {
	case json.RawMessage:
		// Checked before T so that an interface target still gets decoded JSON.
		if err := json.Unmarshal(val, &out); err != nil {
			return out, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		return out, nil
	case nil:
		return out, nil
	case T:
		return val, nil
	case []byte:
		if err := json.Unmarshal(val, &out); err != nil {
			return out, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(v); err != nil {
		return out, fmt.Errorf("failed to decode payload: %w", err)
	}
	return out, nil
}
