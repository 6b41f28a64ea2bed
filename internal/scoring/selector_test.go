package scoring

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

type fakeEmbedder struct {
	calls int
	vec   []float32
	err   error
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

func makeChunks(n int) []models.Chunk {
	chunks := make([]models.Chunk, n)
	for i := range chunks {
		chunks[i] = models.Chunk{
			ID:   fmt.Sprintf("c%d", i),
			Text: "Identical text for every chunk in this batch.",
		}
	}
	return chunks
}

func TestSelect_CapsAtMaxCount(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	selector := NewSelector(embedder)

	selection := selector.Select(context.Background(), makeChunks(7), "ctx", 3)

	assert.Len(t, selection.Chunks, 3)
	assert.False(t, selection.EmbedFallback)
}

func TestSelect_FewerChunksThanMax(t *testing.T) {
	selector := NewSelector(&fakeEmbedder{vec: []float32{1, 0}})

	selection := selector.Select(context.Background(), makeChunks(2), "ctx", 5)
	assert.Len(t, selection.Chunks, 2)
}

func TestSelect_EmptyInput(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	selector := NewSelector(embedder)

	selection := selector.Select(context.Background(), nil, "ctx", 5)

	assert.Empty(t, selection.Chunks)
	assert.Zero(t, embedder.calls, "no embedding call expected for empty input")
}

func TestSelect_EmbedsContextOnce(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	selector := NewSelector(embedder)

	selector.Select(context.Background(), makeChunks(10), "ctx", 5)
	assert.Equal(t, 1, embedder.calls)
}

func TestSelect_SortsDescendingByRelevance(t *testing.T) {
	contextVec := []float32{1, 0}
	chunks := []models.Chunk{
		{ID: "weak", Text: "short", Embedding: []float32{0, 1}},
		{ID: "strong", Text: "A detailed definition of the concept with an example and an analysis of the underlying process, because understanding matters.", Embedding: []float32{1, 0}},
	}
	selector := NewSelector(&fakeEmbedder{vec: contextVec})

	selection := selector.Select(context.Background(), chunks, "ctx", 2)

	require.Len(t, selection.Chunks, 2)
	assert.Equal(t, "strong", selection.Chunks[0].ID)
	assert.Equal(t, "weak", selection.Chunks[1].ID)
	assert.GreaterOrEqual(t, selection.Chunks[0].RelevanceScore, selection.Chunks[1].RelevanceScore)
}

func TestSelect_TiesKeepInputOrder(t *testing.T) {
	selector := NewSelector(&fakeEmbedder{vec: []float32{1, 0}})
	chunks := makeChunks(4)

	selection := selector.Select(context.Background(), chunks, "ctx", 4)

	require.Len(t, selection.Chunks, 4)
	for i, sc := range selection.Chunks {
		assert.Equal(t, fmt.Sprintf("c%d", i), sc.ID)
	}
}

func TestSelect_FallbackOnEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("backend down")}
	selector := NewSelector(embedder)
	chunks := makeChunks(5)

	selection := selector.Select(context.Background(), chunks, "ctx", 3)

	assert.True(t, selection.EmbedFallback)
	require.Len(t, selection.Chunks, 3)
	for i, sc := range selection.Chunks {
		assert.Equal(t, fmt.Sprintf("c%d", i), sc.ID, "fallback must keep input order")
		assert.Zero(t, sc.RelevanceScore)
	}
}

func TestSelect_ScoresWithinUnitInterval(t *testing.T) {
	selector := NewSelector(&fakeEmbedder{vec: []float32{1, 1}})
	chunks := makeChunks(3)
	for i := range chunks {
		chunks[i].Embedding = []float32{1, 1}
	}

	selection := selector.Select(context.Background(), chunks, "ctx", 3)
	for _, sc := range selection.Chunks {
		assert.GreaterOrEqual(t, sc.RelevanceScore, 0.0)
		assert.LessOrEqual(t, sc.RelevanceScore, 1.0)
	}
}
