package audit

import (
	"time"

	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

// #region doc-ref
// DocRef identifies one retrieved document inside an audit record.
type DocRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	Ticker     string `json:"ticker"`
	OrderIndex int    `json:"order_index"`
}

// #endregion doc-ref

// #region record
// Record is the durable trail of one transaction. Question and Prompt are
// stored redacted; a record is written once and never updated.
type Record struct {
	ID          string               `json:"id"`
	TS          string               `json:"ts"`
	ElapsedMS   int64                `json:"elapsed_ms,omitempty"`
	Question    string               `json:"question"`
	Prompt      string               `json:"prompt"`
	Model       string               `json:"model"`
	Answer      string               `json:"answer"`
	Targets     []string             `json:"targets,omitempty"`
	Retrieved   []DocRef             `json:"retrieved,omitempty"`
	ContextHash string               `json:"context_hash,omitempty"`
	Citations   []retrieval.Citation `json:"citations"`
	Notes       string               `json:"notes,omitempty"`
}

// Now returns the canonical record timestamp: ISO-8601 UTC with milliseconds.
func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// #endregion record
