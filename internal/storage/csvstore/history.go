// -----------------------------------------------------------------------
// History Store - append-only CSV record of application outcomes
// -----------------------------------------------------------------------

package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/models"
)

var historyHeader = []string{"timestamp", "job_id", "job_title", "company", "attempted", "result", "url"}

// HistoryStore persists application outcomes to an append-only CSV file.
// The file doubles as an audit log and, filtered by the recency window, as
// the seed for the already-applied dedup set on the next run.
type HistoryStore struct {
	path   string
	logger arbor.ILogger
}

// NewHistoryStore creates a history store backed by the given file path
func NewHistoryStore(path string, logger arbor.ILogger) *HistoryStore {
	return &HistoryStore{
		path:   path,
		logger: logger,
	}
}

// Load reads all records from the history file. A missing file is not an
// error: it returns empty state and logs a warning. Unparseable rows are
// skipped, so a file truncated by a crash still loads its intact records.
func (s *HistoryStore) Load() ([]models.ApplicationRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("path", s.path).Msg("History file not found, starting with empty history")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history file %s: %w", s.path, err)
	}

	records := make([]models.ApplicationRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == historyHeader[0] {
			continue
		}
		record, err := parseHistoryRow(row)
		if err != nil {
			s.logger.Warn().Err(err).Int("line", i+1).Msg("Skipping malformed history row")
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Append writes one complete record as a single flushed line. The write is
// whole-line and synced before return, so a process crash never leaves a
// partial row visible to a subsequent Load.
func (s *HistoryStore) Append(record models.ApplicationRecord) error {
	f, isNew, err := openAppend(s.path)
	if err != nil {
		return fmt.Errorf("failed to open history file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}

	row := []string{
		record.Timestamp.Format(models.TimestampLayout),
		record.JobID,
		record.JobTitle,
		record.Company,
		strconv.FormatBool(record.Attempted),
		record.Result,
		record.URL,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write history record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush history record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync history file: %w", err)
	}

	return nil
}

// RecentJobIDs returns the identifiers of attempts recorded within the
// recency window, measured back from now.
func (s *HistoryStore) RecentJobIDs(window time.Duration) (map[string]struct{}, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-window)
	ids := make(map[string]struct{})
	for _, record := range records {
		if record.Timestamp.After(cutoff) {
			ids[record.JobID] = struct{}{}
		}
	}

	return ids, nil
}

func parseHistoryRow(row []string) (models.ApplicationRecord, error) {
	if len(row) < 7 {
		return models.ApplicationRecord{}, fmt.Errorf("expected 7 fields, got %d", len(row))
	}

	timestamp, err := time.ParseInLocation(models.TimestampLayout, row[0], time.Local)
	if err != nil {
		return models.ApplicationRecord{}, fmt.Errorf("invalid timestamp %q: %w", row[0], err)
	}

	attempted, err := strconv.ParseBool(row[4])
	if err != nil {
		return models.ApplicationRecord{}, fmt.Errorf("invalid attempted flag %q: %w", row[4], err)
	}

	return models.ApplicationRecord{
		Timestamp: timestamp,
		JobID:     row[1],
		JobTitle:  row[2],
		Company:   row[3],
		Attempted: attempted,
		Result:    row[5],
		URL:       row[6],
	}, nil
}

// openAppend opens the file for appending, creating parent directories as
// needed. The second return reports whether the file is empty (header due).
func openAppend(path string) (*os.File, bool, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, false, err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, false, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, false, err
	}

	return f, info.Size() == 0, nil
}
