package tool

import (
	"encoding/json"
	"fmt"

	invopopSchema "github.com/invopop/jsonschema"

	"viterbit-gateway/internal/domain/entity"
	"viterbit-gateway/internal/domain/port"
)

// emptyInputSchema describes an operation that takes no arguments.
const emptyInputSchema = `{"type":"object","properties":{},"required":[]}`

// definition pairs one operation's descriptor source with its handler.
// args is a prototype struct whose fields, tags and declaration order
// define the input schema; nil means the operation takes no arguments.
type definition struct {
	name        string
	description string
	args        any
	handler     port.ToolHandler
}

// Build assembles the operation catalog and its handler table against the
// given directory.
func Build(directory port.CandidateDirectory, lookups Lookups) (*entity.Catalog, map[string]port.ToolHandler, error) {
	set := &handlerSet{directory: directory, lookups: lookups}

	defs := set.definitions()
	defs = append(defs, set.extendedDefinitions()...)

	tools := make([]*entity.Tool, 0, len(defs))
	handlers := make(map[string]port.ToolHandler, len(defs))
	for _, def := range defs {
		described, err := describe(def)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to describe operation %s: %w", def.name, err)
		}
		tools = append(tools, described)
		handlers[def.name] = def.handler
	}

	catalog, err := entity.NewCatalog(tools)
	if err != nil {
		return nil, nil, err
	}
	return catalog, handlers, nil
}

// describe reflects a definition's argument prototype into a JSON schema
// and a parameter list in field declaration order.
func describe(def definition) (*entity.Tool, error) {
	if def.args == nil {
		return entity.NewTool(def.name, def.description, nil, json.RawMessage(emptyInputSchema))
	}

	reflector := invopopSchema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(def.args)
	schema.Version = ""
	schema.ID = ""

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var params []entity.Parameter
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		params = append(params, entity.Parameter{
			Name:        pair.Key,
			Type:        entity.ParameterType(prop.Type),
			Description: prop.Description,
			Required:    required[pair.Key],
			Default:     prop.Default,
			Enum:        prop.Enum,
		})
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return entity.NewTool(def.name, def.description, params, raw)
}
