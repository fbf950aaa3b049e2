package entity

// IntrospectionOperation is the reserved operation name that returns the
// catalog itself instead of dispatching to a handler. It is recognized
// before catalog lookup, so it behaves the same whether or not a tool with
// this name is registered.
const IntrospectionOperation = "list_tools"

// Invocation is the canonical form of a tool call after normalization: the
// operation name plus arguments keyed by declared parameter names with
// values already coerced to their declared types. Unresolvable operation
// names are carried through as given so the dispatcher can report them.
type Invocation struct {
	Operation string
	Arguments map[string]any
}

// NewInvocation builds an invocation, substituting an empty argument map
// for nil so handlers never see a nil map.
func NewInvocation(operation string, arguments map[string]any) Invocation {
	if arguments == nil {
		arguments = map[string]any{}
	}
	return Invocation{Operation: operation, Arguments: arguments}
}

// IsIntrospection reports whether this invocation targets the reserved
// catalog-listing operation. Folding keeps casing variants of the reserved
// name working even when the invocation was built by hand.
func (inv Invocation) IsIntrospection() bool {
	return FoldKey(inv.Operation) == FoldKey(IntrospectionOperation)
}
