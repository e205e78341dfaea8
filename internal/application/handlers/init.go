// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

// StoreOpener opens the location store described by cfg.
type StoreOpener func(cfg *config.Config, basePath string) (ports.LocationStore, error)

// InitHandler handles project initialization.
type InitHandler struct {
	openStore         StoreOpener
	collectionManager ports.CollectionManager
	vectorSize        uint64
}

// NewInitHandler creates a new init handler. collectionManager may be nil, in
// which case no FAQ collection is created.
func NewInitHandler(openStore StoreOpener, collectionManager ports.CollectionManager, vectorSize uint64) *InitHandler {
	return &InitHandler{
		openStore:         openStore,
		collectionManager: collectionManager,
		vectorSize:        vectorSize,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath     string
	DatabasePath   string
	CollectionName string // empty when no collection was created
}

// Handle writes the default config, creates the database schema and, when a
// collection manager is set, the FAQ collection.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("petcare already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result := &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		DatabasePath: cfg.SQLitePath(basePath),
	}

	if h.openStore != nil {
		store, err := h.openStore(cfg, basePath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	if h.collectionManager != nil {
		if err := h.collectionManager.EnsureCollection(ctx, h.vectorSize); err != nil {
			return nil, fmt.Errorf("creating collection: %w", err)
		}
		result.CollectionName = cfg.Qdrant.Collection
	}

	return result, nil
}
