package retrieval

import (
	"sort"
	"strings"
)

// #region aliases
// aliases maps ticker symbols to lowercase company names and product terms
// that imply the ticker when they appear in a question.
var aliases = map[string][]string{
	"AAPL":  {"apple", "apple inc", "aapl", "iphone", "ipad", "vision pro"},
	"AMZN":  {"amazon", "amazon.com", "amzn", "aws"},
	"MSFT":  {"microsoft", "msft", "azure", "windows", "copilot"},
	"GOOGL": {"alphabet", "google", "googl", "android", "gemini"},
	"META":  {"meta", "facebook", "instagram", "whatsapp", "threads"},
	"NVDA":  {"nvidia", "nvda"},
	"IBM":   {"ibm", "international business machines"},
	"CSCO":  {"cisco", "csco"},
}

// DetectTickers returns the tickers whose aliases appear in the question,
// sorted for deterministic downstream ordering.
func DetectTickers(question string) []string {
	ql := strings.ToLower(question)
	var hits []string
	for ticker, names := range aliases {
		for _, n := range names {
			if strings.Contains(ql, n) {
				hits = append(hits, ticker)
				break
			}
		}
	}
	sort.Strings(hits)
	return hits
}

// #endregion aliases
