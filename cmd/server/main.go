package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/opencitizen/welfare-assistant/internal/casemgmt"
	"github.com/opencitizen/welfare-assistant/internal/config"
	"github.com/opencitizen/welfare-assistant/internal/cqa"
	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
	"github.com/opencitizen/welfare-assistant/internal/orchestrator"
	"github.com/opencitizen/welfare-assistant/internal/search"
	"github.com/opencitizen/welfare-assistant/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	meta, err := metadata.NewProvider(ctx, &cfg.Metadata)
	if err != nil {
		log.Fatalf("failed to create metadata provider: %v", err)
	}
	defer meta.Close()

	openaiBackend, err := llm.NewOpenAI(&cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to create OpenAI backend: %v", err)
	}
	mistralBackend, err := llm.NewMistral(&cfg.Mistral)
	if err != nil {
		log.Fatalf("failed to create Mistral backend: %v", err)
	}
	backends := llm.NewRegistry(openaiBackend, mistralBackend)

	searchClient := search.NewClient(&cfg.Search, cfg.Retry)
	cqaClient := cqa.NewClient(&cfg.CQA, cfg.Retry)
	caseClient := casemgmt.NewClient(&cfg.CaseMgmt, cfg.Retry)

	orch := orchestrator.New(
		meta,
		orchestrator.NewCuratedAnswerService(meta, cqaClient, cfg.CQA.ConfidenceThreshold, cfg.CQA.NoResultSentinel),
		orchestrator.NewQueryEnricher(cfg.Answers.ContentFilteredMessage),
		orchestrator.NewRetrievalAugmentedAnswerer(
			openaiBackend, searchClient,
			cfg.Search.StagingIndex, cfg.Search.ProductionIndex,
			cfg.Search.TopK, cfg.Search.RelevanceThreshold,
			cfg.Answers.DefaultAnswer,
		),
		orchestrator.NewApplicationStatusFlow(meta, caseClient),
		backends,
		cfg.Answers.ContentFilteredMessage,
	)

	srv := server.New(cfg.Server, orch)
	slog.Info("starting welfare assistant", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
