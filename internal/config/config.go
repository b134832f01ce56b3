// Package config loads and validates the Cortex configuration. Components
// never read configuration globally: each receives what it needs at
// construction.
package config

// Config represents the main Cortex configuration
type Config struct {
	// Data directory (database, logs)
	DataDir string `json:"data_dir" mapstructure:"data_dir"`

	// Journal directory holding the daily YYYY-MM/YYYY-MM-DD.md files
	JournalDir string `json:"journal_dir" mapstructure:"journal_dir"`

	// SQLite database path
	DBPath string `json:"db_path" mapstructure:"db_path"`

	Embedding  EmbeddingConfig  `json:"embedding" mapstructure:"embedding"`
	Extraction ExtractionConfig `json:"extraction" mapstructure:"extraction"`
	Search     SearchConfig     `json:"search" mapstructure:"search"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
	Metrics    MetricsConfig    `json:"metrics" mapstructure:"metrics"`
	Profile    ProfileConfig    `json:"profile" mapstructure:"profile"`
}

// EmbeddingConfig selects the embedding service
type EmbeddingConfig struct {
	Provider  string `json:"provider" mapstructure:"provider"` // ollama, openai
	Model     string `json:"model" mapstructure:"model"`
	BaseURL   string `json:"base_url" mapstructure:"base_url"`
	APIKey    string `json:"api_key" mapstructure:"api_key"`
	Dimension int    `json:"dimension" mapstructure:"dimension"`
}

// ExtractionConfig selects the LLM used to distill journal days into
// long-term memories
type ExtractionConfig struct {
	Provider  string `json:"provider" mapstructure:"provider"` // anthropic, openai
	Model     string `json:"model" mapstructure:"model"`
	APIKey    string `json:"api_key" mapstructure:"api_key"`
	MaxTokens int    `json:"max_tokens" mapstructure:"max_tokens"`
	Schedule  string `json:"schedule" mapstructure:"schedule"` // cron expression for the daily run
}

// SearchConfig holds retrieval defaults
type SearchConfig struct {
	Limit          int     `json:"limit" mapstructure:"limit"`
	SemanticWeight float64 `json:"semantic_weight" mapstructure:"semantic_weight"`
	WindowDays     int     `json:"window_days" mapstructure:"window_days"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	File   string `json:"file" mapstructure:"file"`
	Pretty bool   `json:"pretty" mapstructure:"pretty"`
}

// MetricsConfig holds the Prometheus endpoint settings for long-running
// commands
type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Addr    string `json:"addr" mapstructure:"addr"`
}

// ProfileConfig seeds the personal_info row at init
type ProfileConfig struct {
	UserName string `json:"user_name" mapstructure:"user_name"`
	Device   string `json:"device" mapstructure:"device"`
}

// DefaultConfig returns the built-in defaults. Paths that depend on the
// data directory are filled in by the loader.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "bge-m3",
			Dimension: 1024,
		},
		Extraction: ExtractionConfig{
			Provider:  "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
			Schedule:  "30 23 * * *",
		},
		Search: SearchConfig{
			Limit:          10,
			SemanticWeight: 0.7,
			WindowDays:     3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Metrics: MetricsConfig{
			Addr: ":9464",
		},
	}
}
