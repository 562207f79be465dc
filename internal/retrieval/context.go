package retrieval

import (
	"fmt"
	"strings"
)

// #region format-context
// FormatContext renders hits into the context string shown to the model:
//
//	CONTEXT:
//	1) [Title] excerpt (link: URL)
//	2) ...
//
// Each excerpt is hard-capped at SnippetBudget chars, with "..." appended
// only when a cut happened (the ellipsis fits inside the budget). Duplicate
// (title, link) pairs are skipped. Empty input yields the empty string.
func (r *Retriever) FormatContext(hits []Hit) string {
	type key struct{ title, link string }
	seen := make(map[key]bool)

	var lines []string
	for _, h := range hits {
		if len(lines) >= r.config.MaxContextItems {
			break
		}
		k := key{h.Doc.Title, h.Doc.Link}
		if seen[k] {
			continue
		}
		seen[k] = true

		title := h.Doc.Title
		if title == "" {
			title = "Untitled"
		}
		body := h.Doc.Text
		if body == "" {
			body = h.Doc.Title
		}
		body = strings.Join(strings.Fields(body), " ")
		body = truncate(body, r.config.SnippetBudget)

		link := h.Doc.Link
		if link == "" {
			link = "#"
		}
		lines = append(lines, fmt.Sprintf("%d) [%s] %s (link: %s)", len(lines)+1, title, body, link))
	}

	if len(lines) == 0 {
		return ""
	}
	return "CONTEXT:\n" + strings.Join(lines, "\n")
}

// truncate hard-cuts s to at most budget runes, spending three of them on an
// ellipsis when a cut occurs.
func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget <= 3 {
		return string(runes[:budget])
	}
	return string(runes[:budget-3]) + "..."
}

// #endregion format-context
