package factcheck

import "regexp"

// #region claim-patterns
// Claim extraction is pattern-table driven: each regexp names one category of
// factual token pulled from the answer for traceability checking.
var claimPatterns = []*regexp.Regexp{
	// Currency amounts: $4.2B, €1,250.50, $3 billion
	regexp.MustCompile(`[$€£]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:[KMBkmb]\b|thousand|million|billion|trillion))?`),
	// Percentages: 40%, 3.5 %
	regexp.MustCompile(`\d+(?:\.\d+)?\s?%`),
	// Month-day dates: March 14, Jan 3, 2024
	regexp.MustCompile(`(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}(?:,\s*\d{4})?`),
	// Bare years
	regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
	// Fiscal quarters: Q1..Q4, optionally with a year
	regexp.MustCompile(`\bQ[1-4](?:\s+(?:19|20)\d{2})?\b`),
}

// properNounPattern matches capitalized multi-word spans ("Penn State",
// "Deutsche Bank"). Single capitalized words are too noisy to treat as claims.
var properNounPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

// sentenceStart matches positions right after sentence-ending punctuation,
// used to forgive capitalization that only exists because a sentence began.
var sentenceStart = regexp.MustCompile(`(?:^|[.!?]\s+)$`)

// #endregion claim-patterns
