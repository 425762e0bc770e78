package storage

import (
	"context"
	"encoding/json"
	"strings"

	"plug-explorer/src/helpers"
	"plug-explorer/src/interfaces"
	"plug-explorer/src/models"

	"github.com/mitchellh/mapstructure"
)

// -----------------------------------------------------------------------------
// Persisted local-state bootstrap
// -----------------------------------------------------------------------------

type StateKind int

const (
	StateLoaded StateKind = iota
	StateEmpty
	StateParseError
)

func (k StateKind) String() string {
	switch k {
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateParseError:
		return "parse_error"
	}
	return "unknown"
}

// LocalState is the outcome of reading the persisted blob once at startup.
// Raw is never nil. State is the typed view of Raw; DecodeErr is set when Raw has a
// shape the typed view cannot hold (Raw is still kept as-is).
type LocalState struct {
	Kind      StateKind
	Raw       map[string]interface{}
	State     models.MRootState
	Err       error
	DecodeErr error
}

// -----------------------------------------------------------------------------

// LoadLocalState reads key from db. A missing or blank value gives StateEmpty with
// an empty mapping; text that is not a JSON object gives StateParseError. The
// returned error is reserved for storage failures.
func LoadLocalState(ctx context.Context, db interfaces.IDatabase, key string) (LocalState, error) {
	value, ok, err := db.GetItem(ctx, key)
	if err != nil {
		return LocalState{Kind: StateEmpty, Raw: map[string]interface{}{}}, err
	}
	if !ok || strings.TrimSpace(value) == "" {
		return LocalState{Kind: StateEmpty, Raw: map[string]interface{}{}}, nil
	}
	return ParseLocalState(value), nil
}

// -----------------------------------------------------------------------------

// ParseLocalState parses one persisted blob.
func ParseLocalState(value string) LocalState {
	raw := make(map[string]interface{})
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return LocalState{
			Kind: StateParseError,
			Raw:  map[string]interface{}{},
			Err:  helpers.NewValidationError("persisted local state is not a JSON object", err),
		}
	}
	if raw == nil {
		// the literal null
		raw = map[string]interface{}{}
	}

	result := LocalState{Kind: StateLoaded, Raw: raw}
	result.State, result.DecodeErr = DecodeRootState(raw)
	return result
}

// -----------------------------------------------------------------------------

// DecodeRootState maps the open-ended blob onto models.MRootState.
func DecodeRootState(raw map[string]interface{}) (models.MRootState, error) {
	var state models.MRootState
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &state,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return state, err
	}
	if err := decoder.Decode(raw); err != nil {
		return models.MRootState{}, err
	}
	return state, nil
}

// -----------------------------------------------------------------------------

// SaveLocalState writes raw back under key.
func SaveLocalState(ctx context.Context, db interfaces.IDatabase, key string, raw map[string]interface{}) error {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return helpers.NewValidationError("encode local state", err)
	}
	return db.SetItem(ctx, key, string(data))
}

// -----------------------------------------------------------------------------

// WithLanguage returns a copy of raw whose config.language is lang. Other keys,
// including unknown ones under config, are preserved.
func WithLanguage(raw map[string]interface{}, lang string) map[string]interface{} {
	out := make(map[string]interface{}, len(raw)+1)
	for k, v := range raw {
		out[k] = v
	}

	cfg := make(map[string]interface{})
	if existing, ok := raw["config"].(map[string]interface{}); ok {
		for k, v := range existing {
			cfg[k] = v
		}
	}
	cfg["language"] = lang
	out["config"] = cfg
	return out
}
