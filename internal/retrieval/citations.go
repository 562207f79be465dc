package retrieval

// #region build-citations
// BuildCitations derives caller-facing citations from hits. Documents whose
// ticker is among the detected targets are cited first; when targets exist,
// at most MaxNonTarget unrelated documents may backfill the remaining slots.
// Duplicate (title, link) pairs are dropped.
func (r *Retriever) BuildCitations(hits []Hit, targets []string) []Citation {
	targetSet := make(map[string]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	type key struct{ title, link string }
	seen := make(map[key]bool)
	var citations []Citation
	add := func(h Hit) {
		k := key{h.Doc.Title, h.Doc.Link}
		if seen[k] {
			return
		}
		seen[k] = true
		citations = append(citations, Citation{
			Title:  h.Doc.Title,
			Link:   h.Doc.Link,
			Ticker: h.Doc.Ticker,
		})
	}

	for _, h := range hits {
		if len(citations) >= r.config.MaxCitations {
			break
		}
		if targetSet[h.Doc.Ticker] {
			add(h)
		}
	}

	nonTarget := 0
	for _, h := range hits {
		if len(citations) >= r.config.MaxCitations {
			break
		}
		if targetSet[h.Doc.Ticker] {
			continue
		}
		if len(targets) > 0 && nonTarget >= r.config.MaxNonTarget {
			break
		}
		before := len(citations)
		add(h)
		if len(targets) > 0 && len(citations) > before {
			nonTarget++
		}
	}

	return citations
}

// #endregion build-citations
