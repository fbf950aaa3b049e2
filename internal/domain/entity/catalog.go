package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNilTool          = errors.New("catalog cannot contain a nil tool")
	ErrDuplicateTool    = errors.New("duplicate tool name")
	ErrUnknownOperation = errors.New("unknown tool")
)

// toolPayload is the wire form of one catalog entry.
type toolPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Catalog is the fixed set of operations the gateway serves. It is built
// once at startup, keeps tools in registration order, and never changes
// afterwards, so introspection responses are byte-for-byte repeatable.
type Catalog struct {
	tools    []*Tool
	byName   map[string]*Tool
	byFold   map[string]*Tool
	snapshot []byte
}

// NewCatalog builds snapshot bytes and the lookup indexes for the given
// tools. Tool names must be unique, including under casing folding; two
// registered names that differ only in casing or separators would make
// resolution ambiguous.
func NewCatalog(tools []*Tool) (*Catalog, error) {
	byName := make(map[string]*Tool, len(tools))
	byFold := make(map[string]*Tool, len(tools))
	ordered := make([]*Tool, 0, len(tools))
	payload := make([]toolPayload, 0, len(tools))

	for i, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilTool, i)
		}
		if _, exists := byName[tool.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, tool.Name())
		}
		fold := FoldKey(tool.Name())
		if _, exists := byFold[fold]; exists {
			return nil, fmt.Errorf("%w: %s collides under folding", ErrDuplicateTool, tool.Name())
		}
		byName[tool.Name()] = tool
		byFold[fold] = tool
		ordered = append(ordered, tool)
		payload = append(payload, toolPayload{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}

	snapshot, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog snapshot: %w", err)
	}

	return &Catalog{
		tools:    ordered,
		byName:   byName,
		byFold:   byFold,
		snapshot: snapshot,
	}, nil
}

// List returns every tool in registration order. The returned slice is a
// copy; the descriptors themselves are shared and immutable.
func (c *Catalog) List() []*Tool {
	out := make([]*Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int { return len(c.tools) }

// Resolve finds the tool registered under name. Exact matches win; when no
// tool matches exactly, the name is folded so casing and separator variants
// of a registered name still resolve.
func (c *Catalog) Resolve(name string) (*Tool, error) {
	if tool, ok := c.byName[name]; ok {
		return tool, nil
	}
	if tool, ok := c.byFold[FoldKey(name)]; ok {
		return tool, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}

// Has reports whether name resolves to a registered tool.
func (c *Catalog) Has(name string) bool {
	_, err := c.Resolve(name)
	return err == nil
}

// Snapshot returns the marshaled tool list served by introspection. The
// bytes are built once at construction, so repeated calls return identical
// content.
func (c *Catalog) Snapshot() json.RawMessage { return c.snapshot }
