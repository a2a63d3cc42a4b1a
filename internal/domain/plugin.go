package domain

// Plugin is an externally supplied unit contributing one or more operations.
// Lifecycle: discovered -> loaded -> registered, or failed at any step.
type Plugin struct {
	Name       string
	Path       string
	Operations map[string]OperationFunc
}
