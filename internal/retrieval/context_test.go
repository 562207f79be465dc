package retrieval

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/newsrag/internal/index"
)

func snippetBody(t *testing.T, line string) string {
	t.Helper()
	_, after, ok := strings.Cut(line, "] ")
	if !ok {
		t.Fatalf("no title bracket in line %q", line)
	}
	body, _, ok := strings.Cut(after, " (link:")
	if !ok {
		t.Fatalf("no link marker in line %q", line)
	}
	return body
}

func TestFormatContext_RespectsBudget(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRetriever(cfg)
	long := strings.Repeat("earnings beat expectations again ", 30)
	hits := []Hit{{Doc: index.Document{Title: "Long story", Link: "http://l", Text: long}}}

	ctx := r.FormatContext(hits)
	lines := strings.Split(ctx, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 snippet, got %d lines", len(lines))
	}

	body := snippetBody(t, lines[1])
	if len([]rune(body)) > cfg.SnippetBudget {
		t.Fatalf("snippet exceeds budget: %d > %d", len([]rune(body)), cfg.SnippetBudget)
	}
	if !strings.HasSuffix(body, "...") {
		t.Fatalf("expected ellipsis on truncated snippet, got %q", body)
	}
}

func TestFormatContext_NoEllipsisWhenShort(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	hits := []Hit{{Doc: index.Document{Title: "Short", Link: "http://s", Text: "Brief update."}}}

	ctx := r.FormatContext(hits)
	if strings.Contains(ctx, "...") {
		t.Fatalf("unexpected ellipsis: %q", ctx)
	}
	if !strings.Contains(ctx, "Brief update.") {
		t.Fatalf("snippet text missing: %q", ctx)
	}
}

func TestFormatContext_EmptyHits(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	if got := r.FormatContext(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFormatContext_DedupesAndCaps(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	doc := index.Document{Title: "Same", Link: "http://same", Text: "repeated item"}
	hits := []Hit{
		{Doc: doc},
		{Doc: doc},
		{Doc: index.Document{Title: "B", Link: "http://b", Text: "second"}},
		{Doc: index.Document{Title: "C", Link: "http://c", Text: "third"}},
		{Doc: index.Document{Title: "D", Link: "http://d", Text: "fourth"}},
	}

	ctx := r.FormatContext(hits)
	lines := strings.Split(ctx, "\n")
	// header + MaxContextItems snippets, duplicate dropped
	if len(lines) != 1+r.config.MaxContextItems {
		t.Fatalf("expected %d lines, got %d:\n%s", 1+r.config.MaxContextItems, len(lines), ctx)
	}
	if strings.Count(ctx, "[Same]") != 1 {
		t.Fatalf("duplicate not dropped:\n%s", ctx)
	}
	if !strings.HasPrefix(lines[1], "1) ") || !strings.HasPrefix(lines[3], "3) ") {
		t.Fatalf("expected numbered entries:\n%s", ctx)
	}
}

func TestFormatContext_EmptyLinkAndTitleFallbacks(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	hits := []Hit{{Doc: index.Document{Text: "body only"}}}

	ctx := r.FormatContext(hits)
	if !strings.Contains(ctx, "[Untitled]") {
		t.Fatalf("expected Untitled fallback: %q", ctx)
	}
	if !strings.Contains(ctx, "(link: #)") {
		t.Fatalf("expected # link fallback: %q", ctx)
	}
}

func TestBuildCitations_TargetPreferenceAndBackfill(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	hits := []Hit{
		{Doc: index.Document{Title: "misc 1", Link: "http://m1", Ticker: "MISC"}},
		{Doc: index.Document{Title: "aapl 1", Link: "http://a1", Ticker: "AAPL"}},
		{Doc: index.Document{Title: "misc 2", Link: "http://m2", Ticker: "MISC"}},
		{Doc: index.Document{Title: "aapl 2", Link: "http://a2", Ticker: "AAPL"}},
	}

	citations := r.BuildCitations(hits, []string{"AAPL"})
	if len(citations) != 3 {
		t.Fatalf("expected 3 citations, got %d", len(citations))
	}
	// Target docs first, then at most one non-target backfill
	if citations[0].Ticker != "AAPL" || citations[1].Ticker != "AAPL" {
		t.Fatalf("expected target citations first: %+v", citations)
	}
	if citations[2].Ticker != "MISC" {
		t.Fatalf("expected one non-target backfill: %+v", citations)
	}
}

func TestBuildCitations_Dedupes(t *testing.T) {
	r := NewRetriever(DefaultConfig())
	doc := index.Document{Title: "same", Link: "http://s", Ticker: "IBM"}
	citations := r.BuildCitations([]Hit{{Doc: doc}, {Doc: doc}}, nil)
	if len(citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(citations))
	}
}
