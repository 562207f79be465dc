package factcheck

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

func TestCheck_FlagsUnsupportedPercentage(t *testing.T) {
	answer := "Revenue grew 40% in Q3"
	context := "CONTEXT:\n1) [Earnings] The company reported higher Q3 revenue. (link: #)"

	result := Check(answer, context, nil)
	if result.Verdict != VerdictWarn {
		t.Fatalf("expected WARN, got %s", result.Verdict)
	}
	if len(result.Annotations) != 1 {
		t.Fatalf("expected exactly 1 annotation, got %d: %v", len(result.Annotations), result.Annotations)
	}
	if !strings.Contains(result.Annotations[0], "40%") {
		t.Fatalf("annotation should name the offending phrase: %q", result.Annotations[0])
	}
}

func TestCheck_SupportedClaimsPass(t *testing.T) {
	answer := "Revenue grew 40% in Q3, driven by the Penn State partnership."
	context := "CONTEXT:\n1) [Earnings] Revenue grew 40% in Q3 after the Penn State deal closed. (link: #)"

	result := Check(answer, context, nil)
	if result.Verdict != VerdictPass {
		t.Fatalf("expected PASS, got %s (%v)", result.Verdict, result.Annotations)
	}
	if len(result.Annotations) != 0 {
		t.Fatalf("expected no annotations, got %v", result.Annotations)
	}
}

func TestCheck_FlagsUnsupportedCurrencyAndDate(t *testing.T) {
	answer := "The deal was worth $4.2 billion and closed on March 14, 2024."
	context := "CONTEXT:\n1) [Deal] A deal closed recently. (link: #)"

	result := Check(answer, context, nil)
	if result.Verdict != VerdictWarn {
		t.Fatalf("expected WARN, got %s", result.Verdict)
	}
	joined := strings.Join(result.Annotations, "\n")
	if !strings.Contains(joined, "$4.2 billion") {
		t.Fatalf("expected currency flagged: %v", result.Annotations)
	}
	if !strings.Contains(joined, "March 14, 2024") {
		t.Fatalf("expected date flagged: %v", result.Annotations)
	}
}

func TestCheck_ProperNounSpans(t *testing.T) {
	answer := "The partnership involves Penn State."
	context := "totally unrelated words"

	result := Check(answer, context, nil)
	if len(result.Annotations) != 1 || !strings.Contains(result.Annotations[0], "Penn State") {
		t.Fatalf("expected Penn State flagged: %v", result.Annotations)
	}
}

func TestCheck_SentenceStartForgiven(t *testing.T) {
	// "Deutsche Bank" opens the sentence, so the span gets a second
	// traceability attempt with its first word dropped.
	answer := "Deutsche Bank raised its target."
	context := "the bank raised its price target"

	result := Check(answer, context, nil)
	if result.Verdict != VerdictPass {
		t.Fatalf("expected PASS, got %s (%v)", result.Verdict, result.Annotations)
	}
}

func TestCheck_CitationsCountAsEvidence(t *testing.T) {
	answer := "See the Penn State coverage."
	context := "context without the span"

	result := Check(answer, context, nil)
	if result.Verdict != VerdictWarn {
		t.Fatalf("expected WARN without citations, got %s", result.Verdict)
	}

	withCitation := Check(answer, context, []retrieval.Citation{
		{Title: "Penn State partnership", Link: "http://ibm", Ticker: "IBM"},
	})
	if withCitation.Verdict != VerdictPass {
		t.Fatalf("expected citation title to count as evidence: %+v", withCitation)
	}
}

func TestCheck_EmptyAnswer(t *testing.T) {
	result := Check("", "some context", nil)
	if result.Verdict != VerdictPass || len(result.Annotations) != 0 {
		t.Fatalf("empty answer should pass cleanly: %+v", result)
	}
}

func TestCheck_CaseInsensitive(t *testing.T) {
	answer := "Growth hit 12% this year."
	context := "GROWTH HIT 12% THIS YEAR."

	result := Check(answer, context, nil)
	if result.Verdict != VerdictPass {
		t.Fatalf("expected case-insensitive match to pass: %+v", result)
	}
}
