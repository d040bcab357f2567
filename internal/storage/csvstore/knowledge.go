// -----------------------------------------------------------------------
// Knowledge Store - append-only CSV of question/answer pairs
// -----------------------------------------------------------------------

package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/models"
)

var knowledgeHeader = []string{"Question", "Answer"}

// KnowledgeStore persists question/answer pairs to an append-only CSV file.
// Records load in insertion order; the resolver's first-match-wins scan
// depends on that ordering being stable across restarts.
type KnowledgeStore struct {
	path   string
	logger arbor.ILogger
}

// NewKnowledgeStore creates a knowledge store backed by the given file path
func NewKnowledgeStore(path string, logger arbor.ILogger) *KnowledgeStore {
	return &KnowledgeStore{
		path:   path,
		logger: logger,
	}
}

// Load reads all stored pairs in insertion order. A missing file returns
// empty state with a warning, never an error.
func (s *KnowledgeStore) Load() ([]models.QARecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("path", s.path).Msg("Knowledge file not found, starting with empty knowledge base")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open knowledge file %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file %s: %w", s.path, err)
	}

	records := make([]models.QARecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == knowledgeHeader[0] {
			continue
		}
		if len(row) < 2 {
			s.logger.Warn().Int("line", i+1).Msg("Skipping malformed knowledge row")
			continue
		}
		records = append(records, models.QARecord{Question: row[0], Answer: row[1]})
	}

	return records, nil
}

// Append writes one complete pair as a single flushed, synced line
func (s *KnowledgeStore) Append(record models.QARecord) error {
	f, isNew, err := openAppend(s.path)
	if err != nil {
		return fmt.Errorf("failed to open knowledge file %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(knowledgeHeader); err != nil {
			return fmt.Errorf("failed to write knowledge header: %w", err)
		}
	}

	if err := w.Write([]string{record.Question, record.Answer}); err != nil {
		return fmt.Errorf("failed to write knowledge record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush knowledge record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync knowledge file: %w", err)
	}

	return nil
}
