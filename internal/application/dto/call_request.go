package dto

import (
	"bytes"
	"encoding/json"
	"sort"

	"viterbit-gateway/internal/domain/entity"
)

// PayloadShape classifies how a client arranged tool arguments in the
// request body. Each accepted shape has its own canonicalization rule, so
// new client conventions become new variants instead of extra branches
// inside the decoder.
type PayloadShape int

const (
	// ShapeNested marks bodies carrying arguments under a dedicated
	// "arguments" object next to the tool name.
	ShapeNested PayloadShape = iota
	// ShapeFlat marks bodies carrying arguments as top-level keys next to
	// the tool name.
	ShapeFlat
)

// String returns the shape label used in logs.
func (s PayloadShape) String() string {
	switch s {
	case ShapeNested:
		return "nested"
	case ShapeFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Body keys with reserved meaning. They are matched by casing fold, so
// "Name" or "Arguments" work as well.
const (
	nameKey      = "name"
	argumentsKey = "arguments"
)

// CallRequest is one decoded tool-call body: the operation name as the
// client sent it, the recognized payload shape, and the source mapping the
// normalizer draws arguments from.
type CallRequest struct {
	Operation string
	Shape     PayloadShape
	Source    map[string]any
}

// DecodeCallRequest parses a raw request body into a CallRequest.
//
// The body must be a JSON object with an extractable tool name; anything
// else is a transport-level validation error. Shape classification runs
// after name extraction: a body whose "arguments" key holds a JSON object,
// or a string encoding one, is nested and its remaining top-level keys are
// ignored. Every other body is flat and all top-level keys except the
// reserved ones become the argument source.
func DecodeCallRequest(body []byte) (*CallRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrBodyNotJSONObject
	}

	nameField, ok := findKey(payload, nameKey)
	if !ok {
		return nil, ErrMissingToolName
	}
	operation, ok := payload[nameField].(string)
	if !ok || operation == "" {
		return nil, ErrMissingToolName
	}

	argsField, hasArgsKey := findKey(payload, argumentsKey)
	if hasArgsKey {
		if source, ok := nestedArguments(payload[argsField]); ok {
			return &CallRequest{Operation: operation, Shape: ShapeNested, Source: source}, nil
		}
	}

	source := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == nameField || (hasArgsKey && key == argsField) {
			continue
		}
		source[key] = value
	}
	return &CallRequest{Operation: operation, Shape: ShapeFlat, Source: source}, nil
}

// nestedArguments extracts the argument object of a nested-shape body. A
// string value is tolerated when it encodes a JSON object, which is how
// some function-calling clients serialize arguments.
func nestedArguments(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			return parsed, true
		}
	}
	return nil, false
}

// findKey locates a reserved key in the payload, preferring an exact match
// and falling back to casing-folded comparison. Fold candidates are scanned
// in sorted order so the choice is deterministic.
func findKey(payload map[string]any, want string) (string, bool) {
	if _, ok := payload[want]; ok {
		return want, true
	}
	fold := entity.FoldKey(want)
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if entity.FoldKey(key) == fold {
			return key, true
		}
	}
	return "", false
}
