package bootstrap

import (
	"context"
	"fmt"

	"github.com/4f71/mentormate/internal/config"
	"github.com/4f71/mentormate/internal/core/ports"
	"github.com/4f71/mentormate/internal/core/usecase"
	"github.com/4f71/mentormate/internal/infrastructure/faqfile"
	"github.com/4f71/mentormate/internal/infrastructure/llm/gemini"
	"github.com/4f71/mentormate/internal/infrastructure/queue/nats"
	"github.com/4f71/mentormate/internal/infrastructure/repository/postgres"
	"github.com/4f71/mentormate/internal/infrastructure/resilience"
	"github.com/4f71/mentormate/internal/infrastructure/storage/localfs"
	"github.com/4f71/mentormate/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Queue     *nats.Queue
	Repo      ports.FAQFileRepository
	Assistant ports.Assistant
	IngestUC  ports.FAQIngestor
	IndexUC   *usecase.IndexFAQFileUseCase

	closeFn func()
}

// New wires the full dependency graph. Metrics stay outside: each
// process passes its own usecase.PipelineMetrics implementation (nil
// for the indexer, which never answers questions).
func New(ctx context.Context, cfg config.Config, pipelineMetrics usecase.PipelineMetrics) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFAQFileRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure faq file schema: %w", err)
	}
	turns := postgres.NewTurnRepository(db)
	if err := turns.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure chat turn schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	geminiClient := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiGenModel, cfg.GeminiEmbedModel, executor)
	generator := gemini.NewGenerator(geminiClient)
	embedder := gemini.NewEmbedder(geminiClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	parser := faqfile.NewParser()

	retriever := usecase.NewRetrievalGateway(
		embedder,
		vectorDB,
		generator,
		cfg.RetrievalTopK,
		cfg.RetrievalFetchK,
		cfg.RetrievalMMRLambda,
		cfg.MaxParaphrases,
		cfg.GenTemperature,
	)
	answerGen := usecase.NewAnswerGenerator(retriever, generator, cfg.GenTemperature)
	assistant := usecase.NewOrchestrator(
		answerGen,
		generator,
		turns,
		pipelineMetrics,
		usecase.PipelineInfo{
			GenerationModel:     cfg.GeminiGenModel,
			EmbeddingModel:      cfg.GeminiEmbedModel,
			Temperature:         cfg.GenTemperature,
			FallbackTemperature: cfg.FallbackTemperature,
			Collection:          cfg.QdrantCollection,
			StoreLocation:       cfg.QdrantURL,
		},
		cfg.HybridFallbackEnabled,
		cfg.MemoryWindow,
	)

	ingestUC := usecase.NewIngestFAQFileUseCase(repo, storage, queue)
	indexUC := usecase.NewIndexFAQFileUseCase(repo, storage, parser, embedder, vectorDB)

	return &App{
		Config: cfg,

		Queue:     queue,
		Repo:      repo,
		Assistant: assistant,
		IngestUC:  ingestUC,
		IndexUC:   indexUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
