// Package config loads service configuration from environment variables with
// validated defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the commands need to wire the pipeline.
type Config struct {
	DatasetPath string // NEWS_JSON_PATH

	TopK            int // NEWS_TOP_K
	SnippetBudget   int // NEWS_SNIPPET_BUDGET
	MaxContextItems int // NEWS_MAX_CONTEXT_ITEMS

	AuditLogPath  string // NEWS_AUDIT_LOG, empty disables the JSONL sink
	AuditDBPath   string // NEWS_AUDIT_DB, empty disables the SQLite mirror
	RedactionFile string // NEWS_REDACT_RULES, empty keeps built-in rules

	Provider    string // LLM_PROVIDER: "mock" or "openai"
	OpenAIModel string // OPENAI_MODEL
	OpenAIKey   string // OPENAI_API_KEY

	BindAddr string // NEWS_BIND_ADDR
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	c := &Config{
		DatasetPath:     getEnv("NEWS_JSON_PATH", "stock_news.json"),
		TopK:            getInt("NEWS_TOP_K", 8),
		SnippetBudget:   getInt("NEWS_SNIPPET_BUDGET", 220),
		MaxContextItems: getInt("NEWS_MAX_CONTEXT_ITEMS", 3),
		AuditLogPath:    os.Getenv("NEWS_AUDIT_LOG"),
		AuditDBPath:     os.Getenv("NEWS_AUDIT_DB"),
		RedactionFile:   os.Getenv("NEWS_REDACT_RULES"),
		Provider:        getEnv("LLM_PROVIDER", "mock"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		BindAddr:        getEnv("NEWS_BIND_ADDR", "0.0.0.0:8080"),
	}

	if c.DatasetPath == "" {
		return nil, fmt.Errorf("NEWS_JSON_PATH must not be empty")
	}
	if c.TopK <= 0 {
		return nil, fmt.Errorf("NEWS_TOP_K must be positive")
	}
	if c.SnippetBudget <= 0 {
		return nil, fmt.Errorf("NEWS_SNIPPET_BUDGET must be positive")
	}
	if c.MaxContextItems <= 0 {
		return nil, fmt.Errorf("NEWS_MAX_CONTEXT_ITEMS must be positive")
	}
	if c.Provider != "mock" && c.Provider != "openai" {
		return nil, fmt.Errorf("LLM_PROVIDER must be mock or openai, got %q", c.Provider)
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
