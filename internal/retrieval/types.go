package retrieval

import "github.com/danielpatrickdp/newsrag/internal/index"

// #region config
// Config holds scoring weights and formatting limits for retrieval.
type Config struct {
	TopK            int // max hits returned per question
	TickerBonus     int // score added for an exact ticker token match
	AliasBonus      int // score added when an alias points at the document's ticker
	SnippetBudget   int // max chars per rendered context snippet
	MaxContextItems int // max snippets rendered into the context string
	MaxCitations    int // max citations surfaced to the caller
	MaxNonTarget    int // citation backfill slots for non-target documents
}

// DefaultConfig returns the scoring and formatting defaults.
func DefaultConfig() Config {
	return Config{
		TopK:            8,
		TickerBonus:     3,
		AliasBonus:      2,
		SnippetBudget:   220,
		MaxContextItems: 3,
		MaxCitations:    3,
		MaxNonTarget:    1,
	}
}

// #endregion config

// #region hit
// Hit is a retrieved document with its relevance score and 0-based rank.
// Hits are ordered by score descending, ties broken by ascending OrderIndex.
type Hit struct {
	Doc   index.Document
	Score int
	Rank  int
}

// #endregion hit

// #region citation
// Citation is the caller-facing provenance record derived from a Hit.
type Citation struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Ticker string `json:"ticker,omitempty"`
}

// #endregion citation
