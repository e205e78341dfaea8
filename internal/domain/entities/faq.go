package entities

import "time"

// FAQEntry is one question/answer pair of the pet-care knowledge base.
type FAQEntry struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category,omitempty"`
	SourceFile string    `json:"source_file,omitempty"`
	Score      float32   `json:"score,omitempty"`
	Embedding  []float32 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Text returns the text that gets embedded for the entry.
func (e *FAQEntry) Text() string {
	return e.Question + "\n" + e.Answer
}
