package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// #region load-error
// LoadError reports a dataset that could not be read or parsed. It is fatal:
// without an index there is nothing to serve.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// #endregion load-error

// #region raw-article
// rawArticle is the untrusted per-article shape in the dataset JSON.
// Every field may be missing; missing fields default to empty strings.
type rawArticle struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	FullText string `json:"full_text"`
}

// #endregion raw-article

// #region load
// Load reads a ticker→articles JSON mapping and normalizes it into an Index.
//
// Traversal is deterministic: tickers in lexicographic order, articles in list
// order. OrderIndex is the 0-based position in that traversal and doubles as
// the ranking tie-break, so the same dataset always yields the same index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var raw map[string][]rawArticle
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	tickers := make([]string, 0, len(raw))
	for t := range raw {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	var docs []Document
	seq := 0
	for _, ticker := range tickers {
		for _, it := range raw[ticker] {
			docs = append(docs, Document{
				ID:         fmt.Sprintf("%s-%d", ticker, seq),
				Ticker:     ticker,
				Title:      strings.TrimSpace(it.Title),
				Link:       strings.TrimSpace(it.Link),
				Text:       strings.TrimSpace(it.FullText),
				OrderIndex: seq,
			})
			seq++
		}
	}

	return &Index{docs: docs}, nil
}

// #endregion load

// #region cache
// Cache loads an index exactly once, even under concurrent first requests.
type Cache struct {
	path string
	once sync.Once
	idx  *Index
	err  error
}

// NewCache creates a Cache for the given dataset path. Nothing is read until
// the first Get call.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Get returns the cached index, loading it on first use. The load outcome,
// including a failure, is cached for the process lifetime.
func (c *Cache) Get() (*Index, error) {
	c.once.Do(func() {
		c.idx, c.err = Load(c.path)
	})
	return c.idx, c.err
}

// #endregion cache
