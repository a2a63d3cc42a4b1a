package domain

// Command records a single executed operation with enough information to
// undo it. Immutable once created; owned by the engine's history stack.
type Command struct {
	Operation string
	OperandA  float64
	OperandB  float64
	Result    float64
	// Inverse is the registry name of the operation that undoes this one.
	// Empty when the operation has no static inverse (plugin-only operations).
	Inverse string
}

// Invertible reports whether the command can be undone.
func (c Command) Invertible() bool {
	return c.Inverse != ""
}
