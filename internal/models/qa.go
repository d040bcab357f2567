package models

// QARecord is one persisted question/answer pair. Stored questions match a
// live question by case-insensitive substring containment, not equality.
type QARecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
