package dispatcher

import (
	"encoding/json"
	"fmt"

	"github.com/graphsmith/graphsmith/pkg/bindings"
	"github.com/graphsmith/graphsmith/pkg/coerce"
	"github.com/graphsmith/graphsmith/pkg/models"
)

// Fields is the already-parsed request body: the transport hands the engine a
// name-to-value mapping, nothing more.
type Fields map[string]any

// requireString fetches a required string field. Absent or non-string values
// fail before any handler logic runs.
func (f Fields) requireString(name string) (string, error) {
	value, ok := f[name]
	if !ok {
		return "", &FieldError{Field: name, Err: ErrMissingField}
	}

	s, ok := value.(string)
	if !ok || s == "" {
		return "", &FieldError{Field: name, Err: ErrInvalidField}
	}

	return s, nil
}

func (f Fields) optionalString(name string) string {
	if s, ok := f[name].(string); ok {
		return s
	}

	return ""
}

// position reads the optional 2-element placement pair.
func (f Fields) position(name string) (models.Position, error) {
	value, ok := f[name]
	if !ok {
		return models.Position{}, nil
	}

	pair, ok := value.([]any)
	if !ok || len(pair) != 2 {
		return models.Position{}, &FieldError{Field: name, Err: ErrInvalidField}
	}

	coords := make([]int, 2)

	for i, item := range pair {
		number, ok := item.(float64)
		if !ok {
			return models.Position{}, &FieldError{Field: name, Err: ErrInvalidField}
		}

		coords[i] = int(number)
	}

	return models.Position{X: coords[0], Y: coords[1]}, nil
}

// parameters reads the optional name-to-value parameter mapping into the
// coercion boundary's RawValue union.
func (f Fields) parameters(name string) (map[string]coerce.RawValue, error) {
	value, ok := f[name]
	if !ok {
		return nil, nil
	}

	mapping, ok := value.(map[string]any)
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrInvalidField}
	}

	params := make(map[string]coerce.RawValue, len(mapping))

	for key, item := range mapping {
		raw, err := coerce.FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}

		params[key] = raw
	}

	return params, nil
}

// bindingRecords reads the required bindings array for conflict checking.
func (f Fields) bindingRecords(name string) ([]bindings.BindingRecord, error) {
	value, ok := f[name]
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrMissingField}
	}

	// Round-trip through JSON: the transport already delivered generic
	// maps, and the record struct declares the authoritative field names.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &FieldError{Field: name, Err: ErrInvalidField}
	}

	var records []bindings.BindingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &FieldError{Field: name, Err: ErrInvalidField}
	}

	for i := range records {
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, &FieldError{Field: name, Err: ErrInvalidField})
		}
	}

	return records, nil
}

// Response is the dispatcher's only output shape: a success payload or an
// error message, never a propagated failure.
type Response struct {
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}
