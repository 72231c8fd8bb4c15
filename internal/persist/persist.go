// Package persist stores the dashboard snapshot in a single key-value slot.
//
// The payload is a versioned JSON envelope:
//
//	{"version": 1, "state": {"theme": ..., "clients": [...], ...}}
//
// Version 0 is the unversioned legacy layout with the same state shape.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CurrentVersion is written by Encode
const CurrentVersion = 1

var (
	// ErrNotFound is returned by Load when the slot is empty
	ErrNotFound = errors.New("snapshot not found")
	// ErrUnsupportedVersion is returned by Decode for envelopes from an unknown schema
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Persister reads and writes the raw snapshot payload
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Encode wraps state in a current-version envelope
func Encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}
	return json.Marshal(envelope{Version: CurrentVersion, State: raw})
}

// Decode unwraps an envelope into its top-level state fields, left undecoded
// so callers can merge them one by one over their defaults.
func Decode(payload []byte) (map[string]json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("unmarshaling envelope: %w", err)
	}
	if env.Version < 0 || env.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	fields := map[string]json.RawMessage{}
	if len(env.State) == 0 || string(env.State) == "null" {
		return fields, nil
	}
	if err := json.Unmarshal(env.State, &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling state: %w", err)
	}
	return fields, nil
}
