package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/newsrag/internal/audit"
	"github.com/danielpatrickdp/newsrag/internal/config"
	"github.com/danielpatrickdp/newsrag/internal/index"
	"github.com/danielpatrickdp/newsrag/internal/llm"
	"github.com/danielpatrickdp/newsrag/internal/pipeline"
	"github.com/danielpatrickdp/newsrag/internal/retrieval"
)

// #region main
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	idx, err := index.NewCache(cfg.DatasetPath).Get()
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	pipe, mirror, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}
	if mirror != nil {
		defer mirror.Close()
	}

	fmt.Println("Finance News RAG ready.")
	fmt.Printf("  Dataset: %s (%d docs) | Provider: %s\n", cfg.DatasetPath, idx.Len(), cfg.Provider)
	fmt.Println("Type a question (or 'quit' to exit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		resp, err := pipe.AnswerQuestion(ctx, idx, question)
		cancel()
		if err != nil {
			log.Printf("request failed: %v", err)
			continue
		}

		fmt.Printf("\n%s\n", resp.Answer)
		for i, c := range resp.Citations {
			fmt.Printf("  [%d] %s — %s (%s)\n", i+1, c.Title, c.Link, c.Ticker)
		}
		if resp.Notes != "" {
			fmt.Printf("  notes: %s\n", resp.Notes)
		}
		fmt.Println()
	}
}

// #endregion main

// #region wiring
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *audit.Store, error) {
	rcfg := retrieval.DefaultConfig()
	rcfg.TopK = cfg.TopK
	rcfg.SnippetBudget = cfg.SnippetBudget
	rcfg.MaxContextItems = cfg.MaxContextItems
	retriever := retrieval.NewRetriever(rcfg)

	rules := audit.DefaultRules()
	if cfg.RedactionFile != "" {
		var err error
		rules, err = audit.LoadRules(cfg.RedactionFile)
		if err != nil {
			return nil, nil, err
		}
	}
	redactor, err := audit.NewRedactor(rules)
	if err != nil {
		return nil, nil, err
	}

	var mirror *audit.Store
	if cfg.AuditDBPath != "" {
		mirror, err = audit.NewStore(cfg.AuditDBPath)
		if err != nil {
			return nil, nil, err
		}
	}
	auditor := audit.NewLogger(cfg.AuditLogPath, redactor, mirror)

	var client llm.Client
	if cfg.Provider == "openai" {
		client, err = llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, nil, err
		}
	} else {
		client = llm.NewMockClient()
	}

	return pipeline.New(retriever, client, auditor), mirror, nil
}

// #endregion wiring
