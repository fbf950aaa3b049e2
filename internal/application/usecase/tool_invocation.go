// Package usecase provides use case implementations for the application layer.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appservice "viterbit-gateway/internal/application/service"

	"viterbit-gateway/internal/application/dto"
	"viterbit-gateway/internal/domain/entity"
	"viterbit-gateway/internal/domain/port"
	"viterbit-gateway/internal/domain/service"
)

var (
	// ErrRegistryRequired is returned when the operation registry is nil.
	ErrRegistryRequired = errors.New("operation registry is required")

	// ErrNormalizerRequired is returned when the normalizer is nil.
	ErrNormalizerRequired = errors.New("normalizer is required")
)

// defaultHandlerTimeout bounds a single handler invocation when no timeout
// is configured.
const defaultHandlerTimeout = 60 * time.Second

// ToolInvocationConfig carries the tunables of the dispatcher.
type ToolInvocationConfig struct {
	// HandlerTimeout bounds one handler invocation. Zero or negative
	// values fall back to the default.
	HandlerTimeout time.Duration
}

// ToolInvocationUseCase dispatches canonical invocations to their handlers
// and shapes every outcome into the uniform result envelope. Business
// failures, unknown operations, argument violations, timeouts and handler
// panics all become unsuccessful envelopes; nothing a handler does can
// escape the envelope.
type ToolInvocationUseCase struct {
	registry   *service.OperationRegistry
	normalizer *appservice.Normalizer
	validator  port.ArgumentValidator
	timeout    time.Duration
}

// NewToolInvocationUseCase creates a new ToolInvocationUseCase.
//
// Parameters:
//   - registry: The catalog/handler binding to dispatch against
//   - normalizer: The request normalizer producing canonical invocations
//   - validator: Optional schema validator run before dispatch (may be nil)
//   - config: Dispatcher tunables
//
// Returns:
//   - *ToolInvocationUseCase: A new use case instance
//   - error: An error if a required dependency is nil
func NewToolInvocationUseCase(
	registry *service.OperationRegistry,
	normalizer *appservice.Normalizer,
	validator port.ArgumentValidator,
	config ToolInvocationConfig,
) (*ToolInvocationUseCase, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}

	timeout := config.HandlerTimeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}

	return &ToolInvocationUseCase{
		registry:   registry,
		normalizer: normalizer,
		validator:  validator,
		timeout:    timeout,
	}, nil
}

// Call normalizes a decoded request and dispatches it.
//
// Parameters:
//   - ctx: Context for the operation (supports cancellation and timeout)
//   - req: The decoded call request
//
// Returns:
//   - dto.CallResult: The result envelope; normalization failures ride
//     inside it, never as transport errors
func (uc *ToolInvocationUseCase) Call(ctx context.Context, req *dto.CallRequest) dto.CallResult {
	inv, err := uc.normalizer.Normalize(req)
	if err != nil {
		return dto.FailureResult(err.Error())
	}
	return uc.Invoke(ctx, inv)
}

// Invoke dispatches a canonical invocation to its handler.
//
// The reserved introspection operation is answered from the catalog
// snapshot without touching any handler. Unknown operations produce an
// unsuccessful envelope naming the operation as it was given.
//
// Parameters:
//   - ctx: Context for the operation
//   - inv: The canonical invocation to dispatch
//
// Returns:
//   - dto.CallResult: The result envelope
func (uc *ToolInvocationUseCase) Invoke(ctx context.Context, inv entity.Invocation) dto.CallResult {
	if inv.IsIntrospection() {
		return dto.SuccessResult(uc.introspection())
	}

	tool, err := uc.registry.Catalog().Resolve(inv.Operation)
	if err != nil {
		return dto.FailureResult((&dto.UnknownOperationError{Name: inv.Operation}).Error())
	}

	if uc.validator != nil {
		if err := uc.validator.ValidateArguments(tool.Name(), inv.Arguments); err != nil {
			return dto.FailureResult(err.Error())
		}
	}

	handler, ok := uc.registry.Handler(tool.Name())
	if !ok {
		return dto.FailureResult((&dto.UnknownOperationError{Name: inv.Operation}).Error())
	}

	payload, err := uc.dispatch(ctx, tool.Name(), handler, inv.Arguments)
	if err != nil {
		return dto.FailureResult(err.Error())
	}
	return dto.SuccessResult(payload)
}

// CatalogSnapshot returns the marshaled tool list for the catalog endpoint.
func (uc *ToolInvocationUseCase) CatalogSnapshot() json.RawMessage {
	return uc.registry.Catalog().Snapshot()
}

// OperationCount returns the number of dispatchable operations.
func (uc *ToolInvocationUseCase) OperationCount() int {
	return uc.registry.Catalog().Len()
}

// introspection builds the reserved catalog-listing payload.
func (uc *ToolInvocationUseCase) introspection() dto.IntrospectionResult {
	catalog := uc.registry.Catalog()
	return dto.IntrospectionResult{
		Tools: catalog.Snapshot(),
		Count: catalog.Len(),
	}
}

// dispatch runs one handler under the configured timeout, converting panics
// into errors so a misbehaving handler cannot take down the gateway.
func (uc *ToolInvocationUseCase) dispatch(
	ctx context.Context,
	operation string,
	handler port.ToolHandler,
	args map[string]any,
) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("tool %s panicked: %v", operation, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	return handler(ctx, args)
}
