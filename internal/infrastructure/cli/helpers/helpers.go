// Package helpers provides formatting and analysis utilities shared by the
// REPL and the cobra subcommands.
package helpers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/doeshing/calc-go/internal/domain"
)

// dateFormats lists the accepted layouts for --since/--until values.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"01/02/2006 15:04:05",
	time.RFC3339,
}

// ParseDate parses a user-supplied date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s", s)
}

// ParseOperand parses one numeric operand.
func ParseOperand(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", s)
	}
	return v, nil
}

// FormatResult renders a calculation result for display.
func FormatResult(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatRecord renders one history record as a display line.
func FormatRecord(rec domain.HistoryRecord) string {
	return fmt.Sprintf("%s - %s: (%s, %s) = %s",
		rec.Timestamp.Format(domain.DisplayTimestampFormat),
		rec.Operation,
		FormatResult(rec.OperandA),
		FormatResult(rec.OperandB),
		FormatResult(rec.Result))
}
