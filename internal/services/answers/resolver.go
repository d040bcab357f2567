// -----------------------------------------------------------------------
// Answer Resolver - knowledge base lookup with heuristic fallback
// -----------------------------------------------------------------------

package answers

import (
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/peto/internal/interfaces"
	"github.com/ternarybob/peto/internal/models"
)

// placeholderAnswer is stored for questions nothing could resolve, so the
// same question is answered identically (and silently) on the next
// encounter while a human reviews the surfaced event.
const placeholderAnswer = "Yes"

// Resolver answers screening questions from the persisted knowledge base
// first, then from the ordered heuristic rule table. Unresolved questions
// are recorded back into the knowledge base and surfaced to the event sink.
type Resolver struct {
	store   interfaces.KnowledgeStore
	records []models.QARecord
	rules   []Rule
	sink    interfaces.EventSink
	logger  arbor.ILogger
}

// NewResolver creates a resolver, loading the knowledge base into memory.
// Stored records keep their insertion order: when several stored questions
// match the same live question, the oldest one wins.
func NewResolver(store interfaces.KnowledgeStore, rules []Rule, sink interfaces.EventSink, logger arbor.ILogger) (*Resolver, error) {
	records, err := store.Load()
	if err != nil {
		return nil, err
	}

	logger.Info().Int("stored_answers", len(records)).Int("rules", len(rules)).Msg("Answer resolver initialized")

	return &Resolver{
		store:   store,
		records: records,
		rules:   rules,
		sink:    sink,
		logger:  logger,
	}, nil
}

// Resolve maps a question's text to an answer. A stored question matches
// when its lowercased text is contained in the lowercased live question.
// Returns false when the question is unresolved; the caller should enter no
// input and let step validation recovery handle it.
func (r *Resolver) Resolve(question string) (string, bool) {
	normalized := strings.ToLower(question)

	for _, record := range r.records {
		if strings.Contains(normalized, strings.ToLower(record.Question)) {
			return record.Answer, true
		}
	}

	for _, rule := range r.rules {
		if rule.Match(normalized) {
			r.logger.Debug().Str("rule", rule.Name).Msg("Question answered by heuristic rule")
			return rule.Answer, true
		}
	}

	r.recordUnresolved(question)
	return "", false
}

// recordUnresolved stores the placeholder answer for a question nothing
// matched and surfaces the event for human review. Persistence failure is
// logged but not fatal: the in-memory record still answers repeats within
// this session.
func (r *Resolver) recordUnresolved(question string) {
	r.logger.Warn().Str("question", question).Msg("No answer found for question")

	record := models.QARecord{Question: question, Answer: placeholderAnswer}
	r.records = append(r.records, record)

	if err := r.store.Append(record); err != nil {
		r.logger.Error().Err(err).Str("question", question).Msg("Failed to persist new question")
	}

	r.sink.Emit(models.Event{
		Type: models.EventAnswerUnresolved,
		Fields: map[string]string{
			"question":      question,
			"stored_answer": placeholderAnswer,
		},
		Timestamp: time.Now(),
	})
}
