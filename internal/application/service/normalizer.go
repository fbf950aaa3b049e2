// Package service contains application services for the tool gateway.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"viterbit-gateway/internal/application/dto"
	"viterbit-gateway/internal/domain/entity"
)

// ErrNilCatalog is returned when a normalizer is built without a catalog.
var ErrNilCatalog = errors.New("catalog cannot be nil")

// Normalizer converts decoded call requests into canonical invocations. It
// resolves casing variants of operation and parameter names against the
// catalog, coerces argument values to their declared types, and enforces
// required parameters. Unknown source keys are dropped.
type Normalizer struct {
	catalog *entity.Catalog
}

// NewNormalizer creates a Normalizer backed by the given catalog.
func NewNormalizer(catalog *entity.Catalog) (*Normalizer, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	return &Normalizer{catalog: catalog}, nil
}

// Normalize turns a decoded request into a canonical invocation.
//
// The reserved introspection name is recognized before catalog lookup and
// always yields an empty argument map. An unresolvable operation name is
// carried through as the client sent it, together with an
// UnknownOperationError, so the dispatcher can answer with the exact name.
// Argument errors are reported one at a time: the first value that fails
// coercion, then the first required parameter missing in declaration order.
func (n *Normalizer) Normalize(req *dto.CallRequest) (entity.Invocation, error) {
	if req.Operation == "" {
		return entity.Invocation{}, dto.ErrMissingToolName
	}
	if entity.FoldKey(req.Operation) == entity.FoldKey(entity.IntrospectionOperation) {
		return entity.NewInvocation(entity.IntrospectionOperation, nil), nil
	}

	tool, err := n.catalog.Resolve(req.Operation)
	if err != nil {
		return entity.NewInvocation(req.Operation, nil), &dto.UnknownOperationError{Name: req.Operation}
	}

	args := make(map[string]any, tool.ParameterCount())
	for _, param := range tool.Parameters() {
		value, found := lookupArgument(req.Source, param.Name)
		if !found || value == nil {
			continue
		}
		coerced, err := coerceValue(param.Type, value)
		if err != nil {
			return entity.Invocation{}, &dto.InvalidParameterError{
				Operation: tool.Name(),
				Parameter: param.Name,
				Err:       err,
			}
		}
		args[param.Name] = coerced
	}

	for _, required := range tool.RequiredParameters() {
		if _, ok := args[required]; !ok {
			return entity.Invocation{}, &dto.MissingParameterError{
				Operation: tool.Name(),
				Parameter: required,
			}
		}
	}

	return entity.NewInvocation(tool.Name(), args), nil
}

// lookupArgument finds the source value for a declared parameter. An exact
// key match wins; otherwise source keys are compared under casing folding,
// scanned in sorted order so fold collisions resolve deterministically.
func lookupArgument(source map[string]any, param string) (any, bool) {
	if value, ok := source[param]; ok {
		return value, true
	}
	fold := entity.FoldKey(param)
	keys := make([]string, 0, len(source))
	for key := range source {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if entity.FoldKey(key) == fold {
			return source[key], true
		}
	}
	return nil, false
}

// coerceValue converts a raw argument to its declared parameter type via
// the coercion table. Catalog-built descriptors only carry known type tags;
// anything else is rejected.
func coerceValue(pt entity.ParameterType, value any) (any, error) {
	coerce, ok := coercers[pt]
	if !ok {
		return nil, fmt.Errorf("no coercion for parameter type %q", pt)
	}
	return coerce(value)
}

// coercers maps each declared parameter type tag to a pure conversion
// function. Coerced values stay JSON-native (string, float64, bool,
// map[string]any, []any) so schema validation sees the same shapes the
// JSON decoder produces.
var coercers = map[entity.ParameterType]func(any) (any, error){
	entity.ParameterString:  coerceString,
	entity.ParameterInteger: coerceInteger,
	entity.ParameterNumber:  coerceNumber,
	entity.ParameterBoolean: coerceBoolean,
	entity.ParameterObject:  coerceObject,
	entity.ParameterArray:   coerceArray,
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return nil, fmt.Errorf("cannot convert %T to string", value)
	}
}

func coerceInteger(value any) (any, error) {
	coerced, err := coerceNumber(value)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %T to integer", value)
	}
	f := coerced.(float64)
	if f != float64(int64(f)) {
		return nil, fmt.Errorf("value %v is not an integer", value)
	}
	return f, nil
}

func coerceNumber(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("string %q is not numeric", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to number", value)
	}
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("string %q is not a boolean", v)
	default:
		return nil, fmt.Errorf("cannot convert %T to boolean", value)
	}
}

func coerceObject(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("string does not encode a JSON object: %w", err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to object", value)
	}
}

func coerceArray(value any) (any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		var parsed []any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("string does not encode a JSON array: %w", err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to array", value)
	}
}
