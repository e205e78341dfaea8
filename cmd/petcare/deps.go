package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hongxu0218/petcare/internal/application/handlers"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/domain/services"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
	embedder "github.com/hongxu0218/petcare/internal/infrastructure/embedder/openai"
	llm "github.com/hongxu0218/petcare/internal/infrastructure/llm/openai"
	"github.com/hongxu0218/petcare/internal/infrastructure/logger"
	"github.com/hongxu0218/petcare/internal/infrastructure/relationaldb/sqlite"
	"github.com/hongxu0218/petcare/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config           *config.Config
	Logger           *zap.Logger
	NormalizeHandler *handlers.NormalizeHandler
	LocationHandler  *handlers.LocationHandler
}

// loadConfig reads the project config from the working directory. With
// required unset a missing file falls back to defaults.
func loadConfig(required bool) (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting current directory: %w", err)
	}

	var cfg *config.Config
	if required {
		cfg, err = config.Load(cwd)
	} else {
		cfg, err = config.LoadOrDefault(cwd)
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	if globalLogLevel != "" {
		cfg.Log.Level = globalLogLevel
	}

	return cfg, cwd, nil
}

// withLogger builds the configured logger and flushes it when fn returns.
func withLogger(cfg *config.Config, fn func(*zap.Logger) error) error {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync fails on some terminals

	return fn(log)
}

// openStore opens the SQLite location store configured for basePath.
func openStore(cfg *config.Config, basePath string) (ports.LocationStore, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(basePath)})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	return repo, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	cfg, cwd, err := loadConfig(true)
	if err != nil {
		return err
	}

	return withLogger(cfg, func(log *zap.Logger) error {
		store, err := openStore(cfg, cwd)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("ensuring sqlite schema: %w", err)
		}

		return fn(&Deps{
			Config:           cfg,
			Logger:           log,
			NormalizeHandler: handlers.NewNormalizeHandler(services.NewNormalizeService(store), log),
			LocationHandler:  handlers.NewLocationHandler(store),
		})
	})
}

// withExportDeps builds a normalize handler without a store. It works outside
// an initialized project.
func withExportDeps(fn func(*Deps) error) error {
	cfg, _, err := loadConfig(false)
	if err != nil {
		return err
	}

	return withLogger(cfg, func(log *zap.Logger) error {
		return fn(&Deps{
			Config:           cfg,
			Logger:           log,
			NormalizeHandler: handlers.NewNormalizeHandler(services.NewNormalizeService(nil), log),
		})
	})
}

// withFAQHandler wires the embedder, Qdrant and the language model into an FAQHandler.
func withFAQHandler(fn func(*handlers.FAQHandler, *config.Config) error) error {
	cfg, _, err := loadConfig(true)
	if err != nil {
		return err
	}

	return withLogger(cfg, func(log *zap.Logger) error {
		repo, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer repo.Close()

		emb, err := embedder.NewEmbedder(cfg.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		llmClient, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}

		faqService := services.NewFAQService(emb, repo, repo, llmClient)
		faqService.SetBatchSize(cfg.FAQ.BatchSize)

		return fn(handlers.NewFAQHandler(faqService, log), cfg)
	})
}
