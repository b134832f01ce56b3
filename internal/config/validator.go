package config

import (
	"fmt"
)

var embeddingProviders = map[string]bool{
	"ollama": true,
	"openai": true,
	"mock":   true,
}

var extractionProviders = map[string]bool{
	"anthropic": true,
	"openai":    true,
}

// Validate checks the configuration for values the rest of the system
// would reject later.
func Validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if cfg.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	if !embeddingProviders[cfg.Embedding.Provider] {
		return fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model == "" {
		return fmt.Errorf("embedding model is required")
	}
	if cfg.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", cfg.Embedding.Dimension)
	}

	if !extractionProviders[cfg.Extraction.Provider] {
		return fmt.Errorf("unknown extraction provider: %s", cfg.Extraction.Provider)
	}

	if cfg.Search.SemanticWeight < 0 || cfg.Search.SemanticWeight > 1 {
		return fmt.Errorf("semantic_weight must be in [0, 1], got %v", cfg.Search.SemanticWeight)
	}
	if cfg.Search.WindowDays <= 0 {
		return fmt.Errorf("window_days must be positive, got %d", cfg.Search.WindowDays)
	}
	if cfg.Search.Limit <= 0 {
		return fmt.Errorf("search limit must be positive, got %d", cfg.Search.Limit)
	}

	return nil
}
