package main

import (
	"context"
	"fmt"

	"om-api/internal/adapter/gemini"
	"om-api/internal/adapter/openai"
	"om-api/internal/adapter/repository/postgres"
	"om-api/internal/adapter/storage/badgerstore"
	"om-api/internal/usecase/document"
	"om-api/internal/worker"
	"om-api/pkg/config"
	"om-api/pkg/database"

	"github.com/jmoiron/sqlx"
	"github.com/phuslu/log"
)

// application holds everything a command needs to run the document usecase.
type application struct {
	db        *sqlx.DB
	blobs     *badgerstore.BlobStore
	pool      *worker.Pool
	documents *document.DocumentUsecase
}

func newApplication(ctx context.Context, cfg *config.Config, logger *log.Logger) (*application, error) {
	if err := cfg.ValidateProvider(); err != nil {
		return nil, err
	}

	embedder, generator, err := newProviders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	chunker, err := document.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("Connected to database")

	blobs, err := badgerstore.Open(cfg.BlobDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize, logger)

	documents := document.NewDocumentUsecase(
		document.Repositories{
			Documents: postgres.NewDocumentRepository(db),
			Pages:     postgres.NewPageRepository(db),
			Chunks:    postgres.NewChunkRepository(db),
			Metrics:   postgres.NewMetricsRepository(db),
			Blobs:     blobs,
		},
		document.NewTextExtractor(),
		chunker,
		document.NewEmbeddingGateway(embedder, cfg.EmbeddingDimensions, cfg.EmbedRateLimit),
		generator,
		document.NewMetricExtractor(generator, cfg.ExtractionMaxChars, logger),
		pool,
		document.Options{
			MatchCount:       cfg.MatchCount,
			ExcerptLength:    cfg.ExcerptLength,
			EmbedConcurrency: cfg.EmbedConcurrency,
		},
		logger,
	)

	return &application{
		db:        db,
		blobs:     blobs,
		pool:      pool,
		documents: documents,
	}, nil
}

// drain stops intake and waits for queued ingestion jobs. Safe to call twice.
func (a *application) drain(ctx context.Context, logger *log.Logger) {
	if err := a.pool.Stop(ctx); err != nil {
		logger.Warn().Err(err).Msg("Worker pool did not drain")
	}
}

// close drains the worker pool before releasing the stores it writes to.
func (a *application) close(ctx context.Context, logger *log.Logger) {
	a.drain(ctx, logger)
	if err := a.blobs.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close blob store")
	}
	if err := a.db.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close database")
	}
}

func newProviders(ctx context.Context, cfg *config.Config) (document.EmbeddingService, document.TextGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		client := openai.NewClient(cfg.OpenAIKey, "")
		return openai.NewEmbeddingClient(client, cfg.EmbeddingModel, cfg.EmbeddingDimensions),
			openai.NewChatClient(client, cfg.ChatModel),
			nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, "")
		if err != nil {
			return nil, nil, err
		}
		return gemini.NewEmbeddingClient(client, cfg.EmbeddingModel, cfg.EmbeddingDimensions),
			gemini.NewChatClient(client, cfg.ChatModel),
			nil
	}
	return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
}
