package retrieval

import (
	"sort"
	"strings"

	"github.com/danielpatrickdp/newsrag/internal/index"
)

// #region retriever
// Retriever scores documents against a question and assembles the bounded
// context string fed to the model. Scoring is deterministic substring
// matching: identical inputs always produce the identical hit order.
type Retriever struct {
	config Config
}

// NewRetriever creates a Retriever with the given config.
func NewRetriever(config Config) *Retriever {
	return &Retriever{config: config}
}

// #endregion retriever

// #region retrieve
// Retrieve returns the top-k hits for a question, ordered by score descending
// with ties broken by ascending OrderIndex. Documents scoring zero are
// excluded; an empty result is a valid "no context" outcome, not an error.
//
// Score per document:
//   - +1 per question token found as a substring of title+text
//   - +TickerBonus when a token equals the document's ticker
//   - +AliasBonus when a detected alias target matches the ticker and the
//     document already matched something (aliases never surface cold docs)
func (r *Retriever) Retrieve(idx *index.Index, question string, k int) []Hit {
	if k <= 0 {
		k = r.config.TopK
	}
	tokens := tokenize(question)
	if len(tokens) == 0 {
		return nil
	}

	targets := make(map[string]bool)
	for _, t := range DetectTickers(question) {
		targets[t] = true
	}

	var hits []Hit
	for _, doc := range idx.Docs() {
		score := r.scoreDoc(doc, tokens, targets)
		if score <= 0 {
			continue
		}
		hits = append(hits, Hit{Doc: doc, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Doc.OrderIndex < hits[j].Doc.OrderIndex
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Rank = i
	}
	return hits
}

func (r *Retriever) scoreDoc(doc index.Document, tokens []string, targets map[string]bool) int {
	blob := strings.ToLower(doc.Title + " " + doc.Text)

	score := 0
	tickerHit := false
	for _, tok := range tokens {
		if strings.EqualFold(tok, doc.Ticker) {
			tickerHit = true
			continue
		}
		if strings.Contains(blob, tok) {
			score++
		}
	}

	if tickerHit {
		score += r.config.TickerBonus
	} else if score > 0 && targets[doc.Ticker] {
		score += r.config.AliasBonus
	}
	return score
}

// #endregion retrieve
