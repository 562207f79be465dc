package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

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

	srv := &server{idx: idx, pipe: pipe}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealthz)
	r.Post("/chat", srv.handleChat)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Printf("[SERVER] listening on %s (%d docs)", cfg.BindAddr, idx.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[SERVER] shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[SERVER] shutdown: %v", err)
	}
}

// #endregion main

// #region handlers

type server struct {
	idx  *index.Index
	pipe *pipeline.Pipeline
}

type chatRequest struct {
	Question string `json:"question"`
}

type healthzResponse struct {
	OK   bool `json:"ok"`
	Docs int  `json:"docs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthzResponse{OK: true, Docs: s.idx.Len()})
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	resp, err := s.pipe.AnswerQuestion(ctx, s.idx, req.Question)
	if err != nil {
		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "model provider unavailable"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] write response: %v", err)
	}
}

// #endregion handlers

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
