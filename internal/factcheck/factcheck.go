// Package factcheck verifies a model answer against the exact context the
// model was shown. It is closed-world on purpose: no retrieval of its own, no
// external knowledge source, so it can flag unsupported claims but never
// introduce new "ground truth" of its own.
package factcheck

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

// #region result

// Verdict values, strictest first.
const (
	VerdictPass = "PASS"
	VerdictWarn = "WARN"
)

// Result is the advisory outcome of one fact-checking pass.
type Result struct {
	Verdict     string
	Annotations []string
	Confidence  float32
	Notes       string
}

// #endregion result

// #region check

// Check extracts factual tokens (currency amounts, percentages, dates,
// capitalized multi-word spans) from the answer and verifies each appears
// case-insensitively in the context or citations. Every untraceable candidate
// yields one annotation naming the phrase.
//
// Check is advisory and must never take down a request: internal failures
// degrade to zero annotations with a note, and the answer is never modified.
func Check(answer, context string, citations []retrieval.Citation) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Verdict:    VerdictWarn,
				Confidence: 0.5,
				Notes:      fmt.Sprintf("fact-check internal error: %v", r),
			}
		}
	}()

	evidence := strings.ToLower(context)
	for _, c := range citations {
		evidence += "\n" + strings.ToLower(c.Title) + " " + strings.ToLower(c.Link) + " " + strings.ToLower(c.Ticker)
	}

	var annotations []string
	seen := make(map[string]bool)
	for _, cand := range extractClaims(answer) {
		key := strings.ToLower(cand.text)
		if seen[key] {
			continue
		}
		seen[key] = true
		if traceable(cand, evidence) {
			continue
		}
		annotations = append(annotations, fmt.Sprintf("%q is not traceable to the retrieved context", cand.text))
	}

	if len(annotations) == 0 {
		return Result{Verdict: VerdictPass, Confidence: 0.7, Notes: "all extracted claims traceable"}
	}
	return Result{
		Verdict:     VerdictWarn,
		Annotations: annotations,
		Confidence:  0.55,
		Notes:       fmt.Sprintf("%d claim(s) unsupported by context", len(annotations)),
	}
}

// #endregion check

// #region extraction

type claim struct {
	text           string
	startsSentence bool
}

func extractClaims(answer string) []claim {
	var claims []claim
	for _, re := range claimPatterns {
		for _, m := range re.FindAllString(answer, -1) {
			claims = append(claims, claim{text: strings.TrimSpace(m)})
		}
	}
	for _, loc := range properNounPattern.FindAllStringIndex(answer, -1) {
		claims = append(claims, claim{
			text:           answer[loc[0]:loc[1]],
			startsSentence: sentenceStart.MatchString(answer[:loc[0]]),
		})
	}
	return claims
}

// traceable reports whether the claim appears in the evidence. A multi-word
// span that only exists because it opened a sentence gets a second chance
// with its first word dropped.
func traceable(c claim, evidence string) bool {
	if strings.Contains(evidence, strings.ToLower(c.text)) {
		return true
	}
	if c.startsSentence {
		if _, rest, ok := strings.Cut(c.text, " "); ok {
			return strings.Contains(evidence, strings.ToLower(rest))
		}
	}
	return false
}

// #endregion extraction
