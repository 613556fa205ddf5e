// Package config loads and validates the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harborview/concierge/synthesizer"
	"github.com/harborview/concierge/textsplitter"
)

// LLMConfig configures the OpenAI-compatible chat model.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// EmbeddingConfig configures the embedding model.
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// SplitterConfig configures document chunking.
type SplitterConfig struct {
	ChunkSize         int    `yaml:"chunk_size"`
	ChunkOverlap      int    `yaml:"chunk_overlap"`
	Format            string `yaml:"format"`
	AtomicWordCeiling int    `yaml:"atomic_word_ceiling"`
}

// RetrievalConfig configures chunk retrieval. A nil Threshold means the
// raw top-k results are returned unfiltered.
type RetrievalConfig struct {
	TopK      int      `yaml:"top_k"`
	Threshold *float64 `yaml:"threshold,omitempty"`
}

// SynthesisConfig configures answer synthesis.
type SynthesisConfig struct {
	Strategy          string `yaml:"strategy"`
	ContextTokenLimit int    `yaml:"context_token_limit"`
}

// ChatConfig configures per-session conversation state.
type ChatConfig struct {
	MaxTurns      int `yaml:"max_turns"`
	HistoryWindow int `yaml:"history_window"`
}

// StoreConfig configures the vector store. An empty PersistPath keeps
// everything in memory.
type StoreConfig struct {
	PersistPath  string `yaml:"persist_path"`
	Collection   string `yaml:"collection"`
	RegistryPath string `yaml:"registry_path"`
}

// Config is the root application configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Splitter  SplitterConfig  `yaml:"splitter"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Chat      ChatConfig      `yaml:"chat"`
	Store     StoreConfig     `yaml:"store"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and validates a config file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration once at startup, so malformed
// settings fail fast instead of per document or per request.
func (c *Config) Validate() error {
	if c.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("splitter chunk_size must be positive, got %d", c.Splitter.ChunkSize)
	}
	if c.Splitter.ChunkOverlap < 0 || c.Splitter.ChunkOverlap >= c.Splitter.ChunkSize {
		return fmt.Errorf("splitter chunk_overlap %d must be in [0, chunk_size %d)",
			c.Splitter.ChunkOverlap, c.Splitter.ChunkSize)
	}
	if !textsplitter.Format(c.Splitter.Format).IsValid() {
		return fmt.Errorf("unknown splitter format %q", c.Splitter.Format)
	}
	if !synthesizer.Strategy(c.Synthesis.Strategy).IsValid() {
		return fmt.Errorf("unknown synthesis strategy %q", c.Synthesis.Strategy)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if t := c.Retrieval.Threshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("retrieval threshold %v must be in [0, 1]", *t)
	}
	if c.Chat.MaxTurns <= 0 {
		return fmt.Errorf("chat max_turns must be positive, got %d", c.Chat.MaxTurns)
	}
	return nil
}

// APIKey resolves the model API key from the configured environment
// variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.LLM.APIKeyEnv)
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 512
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 64
	}
	if cfg.Splitter.ChunkSize == 0 {
		cfg.Splitter.ChunkSize = textsplitter.DefaultChunkSize
	}
	if cfg.Splitter.ChunkOverlap == 0 {
		cfg.Splitter.ChunkOverlap = textsplitter.DefaultChunkOverlap
	}
	if cfg.Splitter.Format == "" {
		cfg.Splitter.Format = string(textsplitter.FormatMarkdown)
	}
	if cfg.Splitter.AtomicWordCeiling == 0 {
		cfg.Splitter.AtomicWordCeiling = textsplitter.DefaultAtomicWordCeiling
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 4
	}
	if cfg.Synthesis.Strategy == "" {
		cfg.Synthesis.Strategy = string(synthesizer.StrategyRefine)
	}
	if cfg.Synthesis.ContextTokenLimit == 0 {
		cfg.Synthesis.ContextTokenLimit = synthesizer.DefaultContextTokenLimit
	}
	if cfg.Chat.MaxTurns == 0 {
		cfg.Chat.MaxTurns = 10
	}
	if cfg.Chat.HistoryWindow == 0 {
		cfg.Chat.HistoryWindow = 5
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "knowledge"
	}
}
