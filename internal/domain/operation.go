package domain

// OperationSource identifies where a registry binding came from.
type OperationSource string

const (
	// SourceBuiltin marks operations seeded by the core itself.
	SourceBuiltin OperationSource = "builtin"
	// SourcePlugin marks operations contributed by a loaded plugin.
	SourcePlugin OperationSource = "plugin"
)

// OperationFunc is a pure binary arithmetic function. It either returns a
// result or fails with an ErrInvalidOperation-wrapped error when a
// precondition does not hold.
type OperationFunc func(a, b float64) (float64, error)

// Operation is a named binary arithmetic function. Immutable once registered.
type Operation struct {
	Name   string
	Source OperationSource
	Apply  OperationFunc
}
