// Package service contains domain services for the tool gateway.
package service

import (
	"errors"
	"fmt"

	"viterbit-gateway/internal/domain/entity"
	"viterbit-gateway/internal/domain/port"
)

var (
	ErrNilCatalog     = errors.New("catalog cannot be nil")
	ErrMissingHandler = errors.New("tool has no registered handler")
	ErrOrphanHandler  = errors.New("handler has no catalog entry")
)

// OperationRegistry pairs the immutable catalog with the handler bound to
// each operation. Construction fails unless the two sets match exactly, so
// any operation the catalog can resolve is guaranteed to be dispatchable.
type OperationRegistry struct {
	catalog  *entity.Catalog
	handlers map[string]port.ToolHandler
}

// NewOperationRegistry validates that every catalog entry has a handler and
// every handler has a catalog entry, then returns the registry.
func NewOperationRegistry(catalog *entity.Catalog, handlers map[string]port.ToolHandler) (*OperationRegistry, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	bound := make(map[string]port.ToolHandler, len(handlers))
	for _, tool := range catalog.List() {
		handler, ok := handlers[tool.Name()]
		if !ok || handler == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingHandler, tool.Name())
		}
		bound[tool.Name()] = handler
	}
	for name := range handlers {
		if !catalog.Has(name) {
			return nil, fmt.Errorf("%w: %s", ErrOrphanHandler, name)
		}
	}

	return &OperationRegistry{
		catalog:  catalog,
		handlers: bound,
	}, nil
}

// Catalog returns the operation catalog backing this registry.
func (r *OperationRegistry) Catalog() *entity.Catalog { return r.catalog }

// Handler returns the handler bound to the canonical operation name.
func (r *OperationRegistry) Handler(name string) (port.ToolHandler, bool) {
	handler, ok := r.handlers[name]
	return handler, ok
}

// Len returns the number of dispatchable operations.
func (r *OperationRegistry) Len() int { return len(r.handlers) }
