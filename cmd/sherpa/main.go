// Command sherpa chunks and indexes product marketing knowledge.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/embedding"
	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/search/bleve"
	"github.com/custodia-labs/sherpa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sherpa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/sherpa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sherpa-cli/internal/core/services"
	"github.com/custodia-labs/sherpa-cli/internal/logger"
	"github.com/custodia-labs/sherpa-cli/internal/processors"
	"github.com/custodia-labs/sherpa-cli/internal/tokenizer"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Environment overrides such as OPENAI_API_KEY may live in ./.env
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to load .env: %v", err)
	}

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires adapters into services. Any failure here happens before a
// single document is processed.
func bootstrap(ctx context.Context, configDir string) (*cli.Services, error) {
	// 1. Configuration
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	if err := settingsService.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", configStore.Path(), err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	// 2. Chunking engine
	tok, err := tokenizer.New(settings.TokenizerEncoding)
	if err != nil {
		logger.Warn("Tokenizer %q unavailable, token counts are estimated: %v", settings.TokenizerEncoding, err)
	}
	logger.Debug("Tokenizer: %s", tok.Encoding())
	registry := processors.NewDefaultRegistry(tok, settings.Chunking)

	// 3. Storage
	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	docStore := store.DocumentStore()

	// 4. Embeddings (optional)
	embeddingService, err := embedding.NewValidated(ctx, settings.Embedding)
	if err != nil {
		store.Close()
		return nil, err
	}
	if embeddingService == nil {
		logger.Debug("No embedding provider configured, chunks are stored without vectors")
	} else {
		logger.Debug("Embedding model: %s (%d dimensions)", embeddingService.ModelName(), embeddingService.Dimensions())
	}

	// 5. Keyword index
	engine, err := bleve.NewEngine(settings.IndexDir)
	if err != nil {
		closeAll(embeddingService, store)
		return nil, fmt.Errorf("open search index: %w", err)
	}

	ingestService := services.NewIngestService(
		registry,
		docStore,
		embeddingService,
		engine,
		services.WithBatchSize(settings.Embedding.BatchSize),
	)

	return &cli.Services{
		Ingest:   ingestService,
		Search:   services.NewSearchService(docStore, engine),
		Settings: settingsService,
		Close: func() error {
			return errors.Join(engine.Close(), closeAll(embeddingService, store))
		},
	}, nil
}

type closer interface {
	Close() error
}

func closeAll(embeddingService driven.EmbeddingService, store closer) error {
	var errs []error
	if embeddingService != nil {
		errs = append(errs, embeddingService.Close())
	}
	errs = append(errs, store.Close())
	return errors.Join(errs...)
}
