package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errMissingData = errors.New("response has neither a list nor a data field")

// listEnvelope accepts either a raw JSON array or {"data": [...]}.
type listEnvelope[T any] struct {
	Items []T
}

func (e *listEnvelope[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		e.Items = []T{}
		return nil
	case b[0] == '[':
		return json.Unmarshal(b, &e.Items)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	raw, ok := fields["data"]
	if !ok {
		return errMissingData
	}
	if err := json.Unmarshal(raw, &e.Items); err != nil {
		return err
	}
	if e.Items == nil {
		e.Items = []T{}
	}
	return nil
}

// objectEnvelope accepts either a bare JSON object or {"data": {...}}.
type objectEnvelope[T any] struct {
	Value T
}

func (e *objectEnvelope[T]) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if raw, ok := fields["data"]; ok {
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
			return json.Unmarshal(trimmed, &e.Value)
		}
	}
	return json.Unmarshal(b, &e.Value)
}

// errorBody is the failure payload the backend sends alongside non-2xx statuses.
type errorBody struct {
	Message string `json:"message"`
}
