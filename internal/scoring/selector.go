package scoring

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

// Embedder is the single capability the selector needs from the embedding
// provider. Satisfied by *embeddings.EmbedderImpl from langchaingo.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Selection is the ranked subset of chunks chosen for generation.
// EmbedFallback is true when the context embedding call failed and the
// selector degraded to input order instead of failing the caller.
type Selection struct {
	Chunks        []models.ScoredChunk
	EmbedFallback bool
}

// Selector ranks candidate chunks against a generation context.
type Selector struct {
	embedder Embedder
}

func NewSelector(embedder Embedder) *Selector {
	return &Selector{embedder: embedder}
}

// Select scores every chunk against the context and returns the top maxCount
// in descending relevance order. The context is embedded once per batch and
// reused for every chunk. Ties keep input order (stable sort). An empty
// chunk list yields an empty selection, not an error.
func (s *Selector) Select(ctx context.Context, chunks []models.Chunk, queryContext string, maxCount int) Selection {
	if maxCount < 1 {
		maxCount = 1
	}
	if len(chunks) == 0 {
		return Selection{}
	}

	var contextEmbedding []float32
	if s.embedder != nil {
		emb, err := s.embedder.EmbedQuery(ctx, queryContext)
		if err != nil {
			log.Warn().Err(err).Msg("context embedding failed, falling back to input order")
			return Selection{Chunks: headUnscored(chunks, maxCount), EmbedFallback: true}
		}
		contextEmbedding = emb
	}

	scored := make([]models.ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		relevance, similarity := Score(chunk, contextEmbedding)
		scored[i] = models.ScoredChunk{
			Chunk:               chunk,
			RelevanceScore:      relevance,
			SimilarityToContext: similarity,
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	if len(scored) > maxCount {
		scored = scored[:maxCount]
	}
	return Selection{Chunks: scored}
}

// headUnscored wraps the first maxCount chunks without ranking.
func headUnscored(chunks []models.Chunk, maxCount int) []models.ScoredChunk {
	if len(chunks) > maxCount {
		chunks = chunks[:maxCount]
	}
	out := make([]models.ScoredChunk, len(chunks))
	for i, chunk := range chunks {
		out[i] = models.ScoredChunk{Chunk: chunk}
	}
	return out
}
