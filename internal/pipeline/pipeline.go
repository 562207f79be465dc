// Package pipeline sequences the per-request stages: retrieval, prompt
// construction, the model call, fact-checking, and audit logging. Stages run
// strictly in order; only the index is shared across requests, and it is
// read-only.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/newsrag/internal/audit"
	"github.com/danielpatrickdp/newsrag/internal/factcheck"
	"github.com/danielpatrickdp/newsrag/internal/index"
	"github.com/danielpatrickdp/newsrag/internal/llm"
	"github.com/danielpatrickdp/newsrag/internal/prompt"
	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

// #region response
// Response is what the pipeline hands back to its caller.
type Response struct {
	Answer    string               `json:"answer"`
	Citations []retrieval.Citation `json:"citations"`
	Notes     string               `json:"notes,omitempty"`
}

// EmptyQuestionAnswer is returned without a model call when the question is
// blank after trimming.
const EmptyQuestionAnswer = "Please enter a question about the provided news dataset."

// #endregion response

// #region pipeline
// Pipeline wires the core stages together.
type Pipeline struct {
	retriever *retrieval.Retriever
	client    llm.Client
	auditor   *audit.Logger
}

// New creates a Pipeline. auditor may be a no-op logger but must be non-nil.
func New(retriever *retrieval.Retriever, client llm.Client, auditor *audit.Logger) *Pipeline {
	return &Pipeline{retriever: retriever, client: client, auditor: auditor}
}

// #endregion pipeline

// #region answer-question
// AnswerQuestion runs one transaction end to end. Only a gateway failure is
// returned as an error; fact-checking and audit failures degrade so the
// caller still gets the answer.
func (p *Pipeline) AnswerQuestion(ctx context.Context, idx *index.Index, question string) (Response, error) {
	start := time.Now()
	startedAt := audit.Now()

	q := strings.TrimSpace(question)
	if q == "" {
		return Response{Answer: EmptyQuestionAnswer}, nil
	}

	reqID := uuid.NewString()
	targets := retrieval.DetectTickers(q)
	hits := p.retriever.Retrieve(idx, q, 0)
	contextStr := p.retriever.FormatContext(hits)

	system := prompt.WithFocus(prompt.AnswerSystemPrompt, targets)
	promptStr := prompt.BuildAnswerPrompt(q, contextStr)

	answer, err := p.client.Complete(ctx, promptStr, system)
	if err != nil {
		log.Printf("[PIPELINE] %s provider failure: %v", reqID, err)
		return Response{}, err
	}

	citations := p.retriever.BuildCitations(hits, targets)
	check := factcheck.Check(answer, contextStr, citations)

	notes := ""
	if check.Verdict != factcheck.VerdictPass {
		parts := append([]string{check.Notes}, check.Annotations...)
		notes = check.Verdict + ": " + strings.Join(parts, "; ")
	}

	rec := audit.Record{
		ID:          reqID,
		TS:          startedAt,
		ElapsedMS:   time.Since(start).Milliseconds(),
		Question:    q,
		Prompt:      promptStr,
		Model:       p.client.Model(),
		Answer:      answer,
		Targets:     targets,
		Retrieved:   docRefs(hits),
		ContextHash: hashContext(contextStr),
		Citations:   citations,
		Notes:       notes,
	}
	if err := p.auditor.Write(rec); err != nil {
		log.Printf("[AUDIT] %s write failed: %v", reqID, err)
	}

	log.Printf("[PIPELINE] %s hits=%d targets=%v verdict=%s elapsed=%dms",
		reqID, len(hits), targets, check.Verdict, time.Since(start).Milliseconds())

	return Response{Answer: answer, Citations: citations, Notes: notes}, nil
}

// #endregion answer-question

// #region helpers

func docRefs(hits []retrieval.Hit) []audit.DocRef {
	refs := make([]audit.DocRef, len(hits))
	for i, h := range hits {
		refs[i] = audit.DocRef{
			ID:         h.Doc.ID,
			Title:      h.Doc.Title,
			Link:       h.Doc.Link,
			Ticker:     h.Doc.Ticker,
			OrderIndex: h.Doc.OrderIndex,
		}
	}
	return refs
}

// hashContext fingerprints the exact context string sent to the model.
func hashContext(context string) string {
	sum := sha256.Sum256([]byte(context))
	return hex.EncodeToString(sum[:])
}

// #endregion helpers
