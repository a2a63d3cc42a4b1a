package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// SQLiteStore persists calculation history in a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path. When the database
// cannot be opened the store degrades to a jsonl file next to it.
func NewSQLiteStore(path string) *SQLiteStore {
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	store := &SQLiteStore{path: path}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		store.fallback = NewFileStore(jsonlPath(path))
		return store
	}
	store.db = db
	if err := store.init(); err != nil {
		store.db = nil
		store.fallback = NewFileStore(jsonlPath(path))
	}
	return store
}

func jsonlPath(dbPath string) string {
	return strings.TrimSuffix(dbPath, filepath.Ext(dbPath)) + ".jsonl"
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		operation TEXT NOT NULL,
		operand_a REAL NOT NULL,
		operand_b REAL NOT NULL,
		result REAL NOT NULL
	);`)
	return err
}

// Append inserts a new record. Append order matches execution order.
func (s *SQLiteStore) Append(rec domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Append(rec)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO calculations
		(timestamp, operation, operand_a, operand_b, result)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(domain.TimestampFormat),
		rec.Operation,
		rec.OperandA,
		rec.OperandB,
		rec.Result,
	)
	return err
}

// Records returns matching history entries in chronological order.
func (s *SQLiteStore) Records(filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(filter)
	}

	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, operation, operand_a, operand_b, result FROM calculations")
	var conds []string
	var args []interface{}
	if filter.Operation != "" {
		conds = append(conds, "operation = ?")
		args = append(args, strings.ToLower(filter.Operation))
	}
	if !filter.Since.IsZero() {
		conds = append(conds, "datetime(timestamp) >= datetime(?)")
		args = append(args, filter.Since.Format(domain.TimestampFormat))
	}
	if !filter.Until.IsZero() {
		conds = append(conds, "datetime(timestamp) <= datetime(?)")
		args = append(args, filter.Until.Format(domain.TimestampFormat))
	}
	if len(conds) > 0 {
		builder.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	builder.WriteString(" ORDER BY id DESC")
	if filter.Limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		if err := rows.Scan(&ts, &rec.Operation, &rec.OperandA, &rec.OperandB, &rec.Result); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query walks newest-first so LIMIT keeps the most recent entries;
	// callers expect chronological order.
	reverse(records)
	return records, nil
}

// Clear deletes all history entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM calculations")
	return err
}

// ExportCSV writes the full history to a CSV file.
func (s *SQLiteStore) ExportCSV(dest string) error {
	records, err := s.Records(domain.HistoryFilter{})
	if err != nil {
		return err
	}
	if err := writeCSV(csvPath(dest), records); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", dest, err)
	}
	return nil
}

// ImportCSV replaces the current history with the contents of a CSV file.
func (s *SQLiteStore) ImportCSV(src string) error {
	if s.db == nil {
		return s.fallback.ImportCSV(src)
	}
	records, err := readCSV(csvPath(src))
	if err != nil {
		return fmt.Errorf("failed to import history from %s: %w", src, err)
	}
	if err := s.Clear(); err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func reverse(records []domain.HistoryRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
