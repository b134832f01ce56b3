package cli

import (
	"fmt"

	"github.com/harun/cortex/internal/config"
	"github.com/harun/cortex/internal/logger"
	"github.com/harun/cortex/pkg/embedding"
	"github.com/harun/cortex/pkg/extract"
	"github.com/harun/cortex/pkg/memory"
	"github.com/harun/cortex/pkg/search"
)

// loadConfig loads and validates the configuration, applying CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the application logger from config.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: true,
		Pretty:  cfg.Logging.Pretty,
	})
}

// openStore opens the memory store, creating the schema on first use.
func openStore(cfg *config.Config, log *logger.Logger) (*memory.Store, error) {
	return memory.Open(memory.Config{
		DBPath:    cfg.DBPath,
		Dimension: cfg.Embedding.Dimension,
		Logger:    log.GetZerolog(),
	})
}

// newEmbedder builds the embedding provider named in config.
func newEmbedder(cfg *config.Config) (embedding.Provider, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedding.NewOllamaProvider(cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Dimension), nil
	case "openai":
		return embedding.NewOpenAIProvider(cfg.Embedding.APIKey, cfg.Embedding.Model), nil
	case "mock":
		return embedding.NewMockProvider(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newRetriever wires the hybrid retriever from an open store.
func newRetriever(cfg *config.Config, store *memory.Store, log *logger.Logger) (*search.Retriever, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	return search.NewRetriever(search.Config{
		Store:      store,
		JournalDir: cfg.JournalDir,
		Embedder:   embedder,
		Logger:     log.GetZerolog(),
	}), nil
}

// newExtractor wires the journal extractor from an open store.
func newExtractor(cfg *config.Config, store *memory.Store, log *logger.Logger) (*extract.Extractor, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	llm, err := extract.NewProvider(cfg.Extraction.Provider, cfg.Extraction.APIKey)
	if err != nil {
		return nil, err
	}
	return extract.New(extract.Config{
		Store:      store,
		Embedder:   embedder,
		LLM:        llm,
		JournalDir: cfg.JournalDir,
		Model:      cfg.Extraction.Model,
		MaxTokens:  cfg.Extraction.MaxTokens,
		Logger:     log.GetZerolog(),
	}), nil
}
