package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// FileStore appends history records to a jsonl file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a jsonl-backed history store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append implements ports.HistoryRepository.
func (f *FileStore) Append(rec domain.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = file.Write(data)
	return err
}

// Records loads matching entries in chronological order.
func (f *FileStore) Records(filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var records []domain.HistoryRecord
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		var rec domain.HistoryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if filter.Matches(rec) {
			records = append(records, rec)
		}
	}
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[len(records)-filter.Limit:]
	}
	return records, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportCSV writes the full history to a CSV file.
func (f *FileStore) ExportCSV(dest string) error {
	records, err := f.Records(domain.HistoryFilter{})
	if err != nil {
		return err
	}
	if err := writeCSV(csvPath(dest), records); err != nil {
		return fmt.Errorf("failed to export history to %s: %w", dest, err)
	}
	return nil
}

// ImportCSV replaces the current history with the contents of a CSV file.
func (f *FileStore) ImportCSV(src string) error {
	records, err := readCSV(csvPath(src))
	if err != nil {
		return fmt.Errorf("failed to import history from %s: %w", src, err)
	}
	if err := f.Clear(); err != nil {
		return err
	}
	for _, rec := range records {
		if err := f.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

var _ ports.HistoryRepository = (*FileStore)(nil)
