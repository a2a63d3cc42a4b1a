package domain

import (
	"fmt"
	"strings"
)

// History backends.
const (
	BackendSQLite = "sqlite"
	BackendJSONL  = "jsonl"
)

var logLevels = map[string]bool{
	"DEBUG":   true,
	"INFO":    true,
	"WARNING": true,
	"ERROR":   true,
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.LogLevel != "" && !logLevels[strings.ToUpper(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q (want DEBUG, INFO, WARNING or ERROR)", c.LogLevel)
	}
	switch c.History.Backend {
	case "", BackendSQLite, BackendJSONL:
	default:
		return fmt.Errorf("invalid history.backend %q (want %s or %s)", c.History.Backend, BackendSQLite, BackendJSONL)
	}
	if c.History.DisplayLimit < 0 {
		return fmt.Errorf("history.display_limit must be >= 0, got %d", c.History.DisplayLimit)
	}
	return nil
}
