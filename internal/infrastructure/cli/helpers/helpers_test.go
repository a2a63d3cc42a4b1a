package helpers

import (
	"testing"
	"time"

	"github.com/doeshing/calc-go/internal/domain"
)

func TestParseDateAcceptsCommonLayouts(t *testing.T) {
	tests := []string{
		"2026-08-23",
		"2026-08-23 10:30:00",
		"2026-08-23 10:30",
		"08/23/2026",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDate(input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", input, err)
			}
			if got.Year() != 2026 || got.Month() != time.August || got.Day() != 23 {
				t.Fatalf("ParseDate(%q) = %v", input, got)
			}
		})
	}

	if _, err := ParseDate("23.08.2026"); err == nil {
		t.Fatal("ParseDate() accepted an unsupported layout")
	}
}

func TestFormatRecord(t *testing.T) {
	rec := domain.HistoryRecord{
		Timestamp: time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC),
		Operation: "divide",
		OperandA:  10,
		OperandB:  4,
		Result:    2.5,
	}

	want := "2026-08-23 10:30:00 - divide: (10, 4) = 2.5"
	if got := FormatRecord(rec); got != want {
		t.Fatalf("FormatRecord() = %q, want %q", got, want)
	}
}

func TestAnalyzeRecords(t *testing.T) {
	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	records := []domain.HistoryRecord{
		{Timestamp: base, Operation: "add", Result: 5},
		{Timestamp: base.Add(time.Minute), Operation: "add", Result: 3},
		{Timestamp: base.Add(2 * time.Minute), Operation: "divide", Result: 4},
	}

	stats := AnalyzeRecords(records)

	if stats.Total != 3 {
		t.Fatalf("Total = %d, want 3", stats.Total)
	}
	if stats.MostUsed != "add" {
		t.Fatalf("MostUsed = %q, want add", stats.MostUsed)
	}
	if stats.UniqueOperations != 2 {
		t.Fatalf("UniqueOperations = %d, want 2", stats.UniqueOperations)
	}
	if stats.AverageResult != 4 {
		t.Fatalf("AverageResult = %v, want 4", stats.AverageResult)
	}
	if !stats.LastCalculation.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("LastCalculation = %v", stats.LastCalculation)
	}
	if stats.OperationCounts["add"] != 2 || stats.OperationCounts["divide"] != 1 {
		t.Fatalf("OperationCounts = %v", stats.OperationCounts)
	}
}

func TestAnalyzeRecordsEmpty(t *testing.T) {
	stats := AnalyzeRecords(nil)
	if stats.Total != 0 || stats.MostUsed != "" {
		t.Fatalf("empty stats = %+v", stats)
	}
}
