package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the calculator core. All of these are expected,
// recoverable conditions: the REPL reports them and keeps running.
var (
	// ErrInvalidOperation signals a failed arithmetic precondition (e.g. divide by zero).
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnknownOperation signals a name with no registry binding.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrNothingToUndo signals an undo attempt on an empty history stack.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo signals a redo attempt on an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrDuplicateOperation signals a registration colliding with an existing
	// binding of the same or higher precedence.
	ErrDuplicateOperation = errors.New("duplicate operation")
	// ErrInvalidPlugin signals a plugin unit that does not satisfy the plugin contract.
	ErrInvalidPlugin = errors.New("invalid plugin")
)

// PluginNotFoundError reports a plugin identifier that resolved to no file.
type PluginNotFoundError struct {
	Name string
}

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("plugin not found: %s", e.Name)
}

// PluginLoadError reports a plugin that was found but failed to load.
type PluginLoadError struct {
	Name string
	Err  error
}

func (e *PluginLoadError) Error() string {
	return fmt.Sprintf("failed to load plugin %s: %v", e.Name, e.Err)
}

func (e *PluginLoadError) Unwrap() error {
	return e.Err
}
