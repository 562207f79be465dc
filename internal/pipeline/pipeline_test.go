package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/newsrag/internal/audit"
	"github.com/danielpatrickdp/newsrag/internal/index"
	"github.com/danielpatrickdp/newsrag/internal/llm"
	"github.com/danielpatrickdp/newsrag/internal/prompt"
	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

// #region fakes

// scriptedClient returns a fixed answer or error, recording the last prompt.
type scriptedClient struct {
	answer     string
	err        error
	lastPrompt string
	lastSystem string
}

func (c *scriptedClient) Model() string { return "scripted" }

func (c *scriptedClient) Complete(_ context.Context, p, system string) (string, error) {
	c.lastPrompt = p
	c.lastSystem = system
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

// #endregion fakes

func newPipeline(t *testing.T, client llm.Client, sinkPath string) *Pipeline {
	t.Helper()
	redactor, err := audit.NewRedactor(audit.DefaultRules())
	if err != nil {
		t.Fatalf("NewRedactor: %v", err)
	}
	return New(
		retrieval.NewRetriever(retrieval.DefaultConfig()),
		client,
		audit.NewLogger(sinkPath, redactor, nil),
	)
}

func ibmIndex() *index.Index {
	return index.New([]index.Document{
		{ID: "IBM-0", Ticker: "IBM", Title: "IBM news", Link: "http://ibm",
			Text: "IBM announced a partnership with Penn State.", OrderIndex: 0},
	})
}

func countSinkLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	defer f.Close()
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec audit.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("sink line %d not parseable: %v", n+1, err)
		}
		n++
	}
	return n
}

func TestAnswerQuestion_EndToEndWithMock(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "audit.log")
	p := newPipeline(t, llm.NewMockClient(), sink)

	resp, err := p.AnswerQuestion(context.Background(), ibmIndex(), "Any recent IBM partnerships?")
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if !strings.Contains(resp.Answer, "IBM announced a partnership with Penn State.") {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].Ticker != "IBM" {
		t.Fatalf("unexpected citations: %+v", resp.Citations)
	}
	if got := countSinkLines(t, sink); got != 1 {
		t.Fatalf("expected exactly 1 audit line, got %d", got)
	}
}

func TestAnswerQuestion_EmptyDatasetFallsBack(t *testing.T) {
	p := newPipeline(t, llm.NewMockClient(), "")
	idx := index.New(nil)

	resp, err := p.AnswerQuestion(context.Background(), idx, "Any recent IBM partnerships?")
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if resp.Answer != prompt.FallbackAnswer {
		t.Fatalf("expected fallback answer, got %q", resp.Answer)
	}
	if len(resp.Citations) != 0 {
		t.Fatalf("expected no citations, got %+v", resp.Citations)
	}
}

func TestAnswerQuestion_ProviderErrorIsFatal(t *testing.T) {
	provErr := &llm.ProviderError{Provider: "openai", Err: errors.New("quota exceeded")}
	p := newPipeline(t, &scriptedClient{err: provErr}, "")

	resp, err := p.AnswerQuestion(context.Background(), ibmIndex(), "Any recent IBM partnerships?")
	if err == nil {
		t.Fatal("expected provider error")
	}
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if resp.Answer != "" {
		t.Fatalf("no partial answer on provider failure, got %q", resp.Answer)
	}
}

func TestAnswerQuestion_AuditFailureNonFatal(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "missing-dir", "audit.log")
	p := newPipeline(t, llm.NewMockClient(), sink)

	resp, err := p.AnswerQuestion(context.Background(), ibmIndex(), "Any recent IBM partnerships?")
	if err != nil {
		t.Fatalf("audit failure must not fail the request: %v", err)
	}
	if resp.Answer == "" {
		t.Fatal("expected an answer despite audit failure")
	}
}

func TestAnswerQuestion_EmptyQuestion(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "audit.log")
	p := newPipeline(t, llm.NewMockClient(), sink)

	resp, err := p.AnswerQuestion(context.Background(), ibmIndex(), "   ")
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if resp.Answer != EmptyQuestionAnswer {
		t.Fatalf("expected empty-question reply, got %q", resp.Answer)
	}
	if _, err := os.Stat(sink); !os.IsNotExist(err) {
		t.Fatal("empty question must not produce an audit record")
	}
}

func TestAnswerQuestion_NotesFlagUnsupportedClaims(t *testing.T) {
	client := &scriptedClient{answer: "Revenue grew 40% in Q3."}
	p := newPipeline(t, client, "")

	resp, err := p.AnswerQuestion(context.Background(), ibmIndex(), "Any recent IBM partnerships?")
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if !strings.Contains(resp.Notes, "40%") {
		t.Fatalf("expected notes to flag 40%%, got %q", resp.Notes)
	}
	if !strings.HasPrefix(resp.Notes, "WARN") {
		t.Fatalf("expected WARN verdict in notes, got %q", resp.Notes)
	}
}

func TestAnswerQuestion_FocusLineForTargets(t *testing.T) {
	client := &scriptedClient{answer: "fine"}
	p := newPipeline(t, client, "")

	if _, err := p.AnswerQuestion(context.Background(), ibmIndex(), "Any recent IBM partnerships?"); err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if !strings.Contains(client.lastSystem, "Focus on: IBM.") {
		t.Fatal("expected focus line in system prompt")
	}
	if !strings.Contains(client.lastPrompt, "Any recent IBM partnerships?") {
		t.Fatal("expected question in prompt")
	}
}
