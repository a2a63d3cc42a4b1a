package domain

import (
	"strings"
	"time"
)

// HistoryRecord is a persisted, read-only snapshot of an executed command.
// Written once, never mutated.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	OperandA  float64   `json:"operand_a"`
	OperandB  float64   `json:"operand_b"`
	Result    float64   `json:"result"`
}

// HistoryFilter narrows a history query. Zero values mean "no constraint".
type HistoryFilter struct {
	Operation string
	Since     time.Time
	Until     time.Time
	// Limit keeps only the most recent N matching records.
	Limit int
}

// Matches reports whether a record satisfies the operation and time
// constraints. Limit is applied by the store, not here.
func (f HistoryFilter) Matches(rec HistoryRecord) bool {
	if f.Operation != "" && !strings.EqualFold(f.Operation, rec.Operation) {
		return false
	}
	if !f.Since.IsZero() && rec.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && rec.Timestamp.After(f.Until) {
		return false
	}
	return true
}
