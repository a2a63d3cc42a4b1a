// Package registry implements the operation registry: the mapping from
// operation name to arithmetic implementation, covering both built-ins and
// dynamically registered plugin operations.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// Registry is the concrete operation registry. Names are case-insensitive
// and stored lowercased. Safe for concurrent use behind a single mutex.
//
// Registration policy: source precedence. A plugin registration overrides a
// built-in of the same name; a registration colliding with an existing
// binding of the same or higher precedence fails with
// domain.ErrDuplicateOperation. So builtin-over-builtin and
// plugin-over-plugin collisions fail, plugin-over-builtin wins.
type Registry struct {
	mu    sync.Mutex
	ops   map[string]domain.Operation
	order []string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{ops: make(map[string]domain.Operation)}
}

// NewWithBuiltins creates a registry seeded with the four built-in
// operations: add, subtract, multiply, divide.
func NewWithBuiltins() *Registry {
	r := New()
	for _, op := range builtins() {
		// Built-ins register into an empty registry; collisions impossible.
		_ = r.Register(op)
	}
	return r
}

// Register adds a binding, subject to the source-precedence policy.
func (r *Registry) Register(op domain.Operation) error {
	if op.Name == "" || op.Apply == nil {
		return fmt.Errorf("operation must have a name and an implementation")
	}
	name := strings.ToLower(op.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.ops[name]; ok {
		if !overrides(op.Source, existing.Source) {
			return fmt.Errorf("operation %q already registered by %s source: %w",
				name, existing.Source, domain.ErrDuplicateOperation)
		}
	} else {
		r.order = append(r.order, name)
	}
	op.Name = name
	r.ops[name] = op
	return nil
}

// Resolve looks up an operation by name.
func (r *Registry) Resolve(name string) (domain.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[strings.ToLower(name)]
	if !ok {
		return domain.Operation{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownOperation)
	}
	return op, nil
}

// List returns registered names in insertion order as a defensive copy.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len reports the number of registered operations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops)
}

// overrides reports whether a registration from source a may replace an
// existing binding from source b.
func overrides(a, b domain.OperationSource) bool {
	return a == domain.SourcePlugin && b == domain.SourceBuiltin
}

func builtins() []domain.Operation {
	return []domain.Operation{
		{
			Name:   "add",
			Source: domain.SourceBuiltin,
			Apply: func(a, b float64) (float64, error) {
				return a + b, nil
			},
		},
		{
			Name:   "subtract",
			Source: domain.SourceBuiltin,
			Apply: func(a, b float64) (float64, error) {
				return a - b, nil
			},
		},
		{
			Name:   "multiply",
			Source: domain.SourceBuiltin,
			Apply: func(a, b float64) (float64, error) {
				return a * b, nil
			},
		},
		{
			Name:   "divide",
			Source: domain.SourceBuiltin,
			Apply: func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, fmt.Errorf("cannot divide by zero: %w", domain.ErrInvalidOperation)
				}
				return a / b, nil
			},
		},
	}
}

var _ ports.OperationRegistry = (*Registry)(nil)
