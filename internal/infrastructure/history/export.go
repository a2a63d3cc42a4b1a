package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/calc-go/internal/domain"
)

// csvPath appends a .csv suffix to bare file names so "backup" and
// "backup.csv" address the same file on save and load.
func csvPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return path
	}
	return path + ".csv"
}

// writeCSV serializes records as one row per calculation. Floats use the
// shortest representation that round-trips exactly.
func writeCSV(dest string, records []domain.HistoryRecord) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"timestamp", "operation", "operand_a", "operand_b", "result"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format(domain.TimestampFormat),
			rec.Operation,
			formatFloat(rec.OperandA),
			formatFloat(rec.OperandB),
			formatFloat(rec.Result),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readCSV parses a file in the layout writeCSV produces. Unlike the jsonl
// reader it rejects malformed rows outright: a load replaces the whole
// history, so a partial read would silently lose data.
func readCSV(src string) ([]domain.HistoryRecord, error) {
	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]domain.HistoryRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != 5 {
			return nil, fmt.Errorf("malformed history row %v", row)
		}
		ts, err := time.Parse(domain.TimestampFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("malformed timestamp %q: %w", row[0], err)
		}
		a, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed operand %q: %w", row[2], err)
		}
		b, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed operand %q: %w", row[3], err)
		}
		result, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed result %q: %w", row[4], err)
		}
		records = append(records, domain.HistoryRecord{
			Timestamp: ts,
			Operation: strings.ToLower(row[1]),
			OperandA:  a,
			OperandB:  b,
			Result:    result,
		})
	}
	return records, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
