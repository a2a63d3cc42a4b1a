package helpers

import (
	"time"

	"github.com/doeshing/calc-go/internal/domain"
)

// HistoryStatistics summarizes a set of history records.
type HistoryStatistics struct {
	Total            int
	OperationCounts  map[string]int
	MostUsed         string
	UniqueOperations int
	AverageResult    float64
	LastCalculation  time.Time
}

// AnalyzeRecords computes usage statistics over history records.
func AnalyzeRecords(records []domain.HistoryRecord) HistoryStatistics {
	stats := HistoryStatistics{
		OperationCounts: make(map[string]int),
	}
	if len(records) == 0 {
		return stats
	}

	var sum float64
	for _, rec := range records {
		stats.OperationCounts[rec.Operation]++
		sum += rec.Result
		if rec.Timestamp.After(stats.LastCalculation) {
			stats.LastCalculation = rec.Timestamp
		}
	}
	stats.Total = len(records)
	stats.UniqueOperations = len(stats.OperationCounts)
	stats.AverageResult = sum / float64(len(records))

	best := 0
	for op, count := range stats.OperationCounts {
		if count > best || (count == best && op < stats.MostUsed) {
			best = count
			stats.MostUsed = op
		}
	}
	return stats
}
