package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Provider is the embedding capability the rest of the pipeline depends on.
// Backed by different models interchangeably; failures surface as explicit
// errors, never panics.
type Provider interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// NewOllamaEmbedder builds a langchaingo embedder backed by a local Ollama
// embedding model.
func NewOllamaEmbedder(cfg config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().
		Str("base_url", cfg.BaseURL).
		Str("embedding_model", cfg.Model).
		Msg("initializing embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing embedding LLM: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// EmbedChunks fills the Embedding field of every chunk that has text.
// One provider failure fails the batch; partial embeddings are not kept.
func EmbedChunks(ctx context.Context, provider Provider, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		log.Info().Msg("no chunks to embed")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := provider.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	return nil
}
