package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// OllamaConfig configures the inference backend.
type OllamaConfig struct {
	BaseURL        string  `yaml:"base_url"`
	DefaultModel   string  `yaml:"default_model"`
	FallbackModel  string  `yaml:"fallback_model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Timeout returns the per-call inference timeout.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// RAGConfig holds chunking and content-selection parameters.
type RAGConfig struct {
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	MaxChunks       int `yaml:"max_chunks"`
	MinContentChars int `yaml:"min_content_chars"`
	MaxContentChars int `yaml:"max_content_chars"`
}

// DatabaseConfig configures the Postgres question store.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// VectorDBConfig configures the chromem chunk store.
type VectorDBConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	InMemory   bool   `yaml:"in_memory"`
}

type Config struct {
	Ollama    OllamaConfig    `yaml:"ollama"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RAG       RAGConfig       `yaml:"rag"`
	Database  DatabaseConfig  `yaml:"database"`
	VectorDB  VectorDBConfig  `yaml:"vectordb"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields with working local defaults.
func (c *Config) ApplyDefaults() {
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.DefaultModel == "" {
		c.Ollama.DefaultModel = "deepseek-r1:1.5b"
	}
	if c.Ollama.FallbackModel == "" {
		c.Ollama.FallbackModel = "llama3.2:1b"
	}
	if c.Ollama.Temperature == 0 {
		c.Ollama.Temperature = 0.7
	}
	if c.Ollama.MaxTokens == 0 {
		c.Ollama.MaxTokens = 2000
	}
	if c.Ollama.TimeoutSeconds == 0 {
		c.Ollama.TimeoutSeconds = 120
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = c.Ollama.BaseURL
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 1000
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 200
	}
	if c.RAG.MaxChunks == 0 {
		c.RAG.MaxChunks = 5
	}
	if c.RAG.MinContentChars == 0 {
		c.RAG.MinContentChars = 50
	}
	if c.RAG.MaxContentChars == 0 {
		c.RAG.MaxContentChars = 4000
	}
	if c.VectorDB.Path == "" {
		c.VectorDB.Path = "./chunkdb"
	}
	if c.VectorDB.Collection == "" {
		c.VectorDB.Collection = "document_chunks"
	}
}
