// Package entity contains the core domain entities for the tool gateway.
package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParameterType tags the declared type of a tool parameter. The tags mirror
// JSON schema primitive types and drive argument coercion.
type ParameterType string

// Supported parameter type tags.
const (
	ParameterString  ParameterType = "string"
	ParameterInteger ParameterType = "integer"
	ParameterNumber  ParameterType = "number"
	ParameterBoolean ParameterType = "boolean"
	ParameterObject  ParameterType = "object"
	ParameterArray   ParameterType = "array"
)

var (
	ErrEmptyName            = errors.New("tool name cannot be empty")
	ErrEmptyDescription     = errors.New("tool description cannot be empty")
	ErrEmptySchema          = errors.New("input schema cannot be empty")
	ErrInvalidSchema        = errors.New("input schema must be valid JSON")
	ErrEmptyParameterName   = errors.New("parameter name cannot be empty")
	ErrInvalidParameterType = errors.New("invalid parameter type")
	ErrDuplicateParameter   = errors.New("duplicate parameter name")
)

// Parameter describes one declared input of a tool.
type Parameter struct {
	Name        string
	Type        ParameterType
	Description string
	Required    bool
	Default     any
	Enum        []any
}

// Tool is one callable operation exposed by the gateway: a stable name, a
// human-readable description, and an ordered parameter declaration backed
// by the wire-form input schema. Tools are immutable after construction;
// the catalog hands out the same descriptor to every caller.
type Tool struct {
	name        string
	description string
	params      []Parameter
	exactIndex  map[string]int
	foldIndex   map[string]int
	inputSchema json.RawMessage
}

// NewTool creates an immutable tool descriptor. The name and description
// must be non-empty, every parameter needs a unique name and a known type
// tag, and the input schema must be a non-empty JSON document. Parameter
// names must also stay unique under casing folding, so camelCase and
// snake_case spellings of two different parameters cannot collide.
func NewTool(name, description string, params []Parameter, inputSchema json.RawMessage) (*Tool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}
	if len(inputSchema) == 0 {
		return nil, ErrEmptySchema
	}
	if !json.Valid(inputSchema) {
		return nil, fmt.Errorf("%w: tool %s", ErrInvalidSchema, name)
	}

	exactIndex := make(map[string]int, len(params))
	foldIndex := make(map[string]int, len(params))
	for i, p := range params {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: tool %s parameter %d", ErrEmptyParameterName, name, i)
		}
		if !validParameterType(p.Type) {
			return nil, fmt.Errorf("%w: tool %s parameter %s has type %q", ErrInvalidParameterType, name, p.Name, p.Type)
		}
		if _, exists := exactIndex[p.Name]; exists {
			return nil, fmt.Errorf("%w: tool %s parameter %s", ErrDuplicateParameter, name, p.Name)
		}
		fold := FoldKey(p.Name)
		if _, exists := foldIndex[fold]; exists {
			return nil, fmt.Errorf("%w: tool %s parameter %s collides under folding", ErrDuplicateParameter, name, p.Name)
		}
		exactIndex[p.Name] = i
		foldIndex[fold] = i
	}

	declared := make([]Parameter, len(params))
	copy(declared, params)

	return &Tool{
		name:        name,
		description: description,
		params:      declared,
		exactIndex:  exactIndex,
		foldIndex:   foldIndex,
		inputSchema: inputSchema,
	}, nil
}

// Name returns the tool's unique, stable identifier.
func (t *Tool) Name() string { return t.name }

// Description returns the human-readable description.
func (t *Tool) Description() string { return t.description }

// Parameters returns the declared parameters in declaration order.
// The returned slice is a copy; callers may mutate it freely.
func (t *Tool) Parameters() []Parameter {
	out := make([]Parameter, len(t.params))
	copy(out, t.params)
	return out
}

// ParameterCount returns the number of declared parameters.
func (t *Tool) ParameterCount() int { return len(t.params) }

// Parameter looks up a declared parameter by its exact name.
func (t *Tool) Parameter(name string) (Parameter, bool) {
	i, ok := t.exactIndex[name]
	if !ok {
		return Parameter{}, false
	}
	return t.params[i], true
}

// ParameterByFold looks up a declared parameter by a casing-folded key,
// so "searchTerm" and "search_term" resolve to the same declaration.
func (t *Tool) ParameterByFold(key string) (Parameter, bool) {
	i, ok := t.foldIndex[FoldKey(key)]
	if !ok {
		return Parameter{}, false
	}
	return t.params[i], true
}

// RequiredParameters returns the names of required parameters in
// declaration order.
func (t *Tool) RequiredParameters() []string {
	var required []string
	for _, p := range t.params {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// InputSchema returns the wire-form JSON schema advertised for this tool.
func (t *Tool) InputSchema() json.RawMessage { return t.inputSchema }

// String returns a string representation of the tool.
func (t *Tool) String() string {
	return fmt.Sprintf("Tool[%s]: %s", t.name, t.description)
}

func validParameterType(pt ParameterType) bool {
	switch pt {
	case ParameterString, ParameterInteger, ParameterNumber, ParameterBoolean, ParameterObject, ParameterArray:
		return true
	}
	return false
}

// keyFolder strips the separators that vary between client naming styles.
var keyFolder = strings.NewReplacer("_", "", "-", "")

// FoldKey reduces an identifier to its casing-insensitive form: lower-cased
// with "_" and "-" removed. camelCase, snake_case and kebab-case spellings
// of the same name fold to the same key.
func FoldKey(s string) string {
	return strings.ToLower(keyFolder.Replace(s))
}
