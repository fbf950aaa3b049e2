package tool

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"viterbit-gateway/internal/domain/entity"
	"viterbit-gateway/internal/domain/port"
)

// SchemaValidator checks invocation arguments against each operation's
// compiled JSON schema. It enforces the constraints the normalizer's type
// coercion cannot express, such as enums and numeric ranges.
type SchemaValidator struct {
	schemas map[string]*jsonschema.Schema
}

var _ port.ArgumentValidator = (*SchemaValidator)(nil)

// NewSchemaValidator compiles the schema of every catalog entry.
func NewSchemaValidator(catalog *entity.Catalog) (*SchemaValidator, error) {
	if catalog == nil {
		return nil, errors.New("operation catalog is required")
	}

	schemas := make(map[string]*jsonschema.Schema, catalog.Len())
	for _, described := range catalog.List() {
		compiled, err := jsonschema.CompileString(described.Name()+".json", string(described.InputSchema()))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", described.Name(), err)
		}
		schemas[described.Name()] = compiled
	}
	return &SchemaValidator{schemas: schemas}, nil
}

// ValidateArguments implements port.ArgumentValidator. Operations without a
// compiled schema pass through.
func (v *SchemaValidator) ValidateArguments(operation string, args map[string]any) error {
	compiled, ok := v.schemas[operation]
	if !ok {
		return nil
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := compiled.Validate(args); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", operation, err)
	}
	return nil
}
