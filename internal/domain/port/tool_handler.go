package port

import "context"

// ToolHandler executes one catalog operation. Arguments arrive keyed by the
// operation's declared parameter names with values already coerced to their
// declared types. The returned payload must be JSON-serializable; failures
// are reported through the error, never encoded into the payload.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// ArgumentValidator checks normalized arguments against an operation's
// declared input schema before dispatch.
type ArgumentValidator interface {
	ValidateArguments(operation string, args map[string]any) error
}
