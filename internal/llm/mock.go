package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/newsrag/internal/prompt"
)

// #region mock
// MockClient is a deterministic offline model. It parses the context block
// out of the prompt and answers from it alone: a lead line harvested from the
// first snippet plus a Sources list, or the fixed fallback sentence when the
// context is missing or empty.
type MockClient struct{}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Model implements Client.
func (m *MockClient) Model() string {
	return "mock"
}

// Complete implements Client. It never fails.
func (m *MockClient) Complete(_ context.Context, p, _ string) (string, error) {
	ctx, ok := extractContext(p)
	if !ok || strings.TrimSpace(ctx) == "" {
		return prompt.FallbackAnswer, nil
	}

	sources := parseSources(ctx)
	if len(sources) == 0 {
		return prompt.FallbackAnswer, nil
	}

	lead := sources[0].body
	if lead == "" {
		lead = sources[0].title + "."
	}

	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("\nSources:\n")
	for i, s := range sources {
		if i >= 3 {
			break
		}
		link := s.link
		if link == "" {
			link = "#"
		}
		fmt.Fprintf(&b, "- %s — %s\n", s.title, link)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// #endregion mock

// #region context-parsing

type source struct {
	title string
	body  string
	link  string
}

// extractContext returns the text between the context markers.
func extractContext(p string) (string, bool) {
	start := strings.Index(p, prompt.ContextStart)
	if start < 0 {
		return "", false
	}
	rest := p[start+len(prompt.ContextStart):]
	end := strings.Index(rest, prompt.ContextEnd)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// parseSources harvests "[Title] body (link: URL)" entries from context lines.
func parseSources(ctx string) []source {
	var out []source
	for _, line := range strings.Split(ctx, "\n") {
		line = strings.TrimSpace(line)
		open := strings.Index(line, "[")
		close := strings.Index(line, "]")
		if open < 0 || close < open {
			continue
		}
		s := source{title: strings.TrimSpace(line[open+1 : close])}

		rest := line[close+1:]
		if i := strings.Index(rest, "(link:"); i >= 0 {
			s.body = strings.TrimSpace(rest[:i])
			tail := rest[i+len("(link:"):]
			if j := strings.Index(tail, ")"); j >= 0 {
				s.link = strings.TrimSpace(tail[:j])
			}
		} else {
			s.body = strings.TrimSpace(rest)
		}
		if s.link == "#" {
			s.link = ""
		}
		out = append(out, s)
	}
	return out
}

// #endregion context-parsing
