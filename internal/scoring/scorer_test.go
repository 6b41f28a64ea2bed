package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

func TestCosineSimilarity_Identity(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	got := CosineSimilarity(zero, v)
	assert.Equal(t, 0.0, got)
	assert.False(t, math.IsNaN(got))
}

func TestCosineSimilarity_MismatchedOrEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestScore_NoEmbeddingUsesLexicalOnly(t *testing.T) {
	text := "The process of photosynthesis is a fundamental principle. For example, plants convert light because of chlorophyll."
	chunk := models.Chunk{Text: text}

	relevance, similarity := Score(chunk, nil)

	assert.Equal(t, 0.0, similarity)
	expected := 0.2*math.Min(float64(len(text))/500, 1.0) + 0.3*LexicalComplexity(text)
	assert.InDelta(t, expected, relevance, 1e-9)
}

func TestScore_MatchingEmbeddingsGetFullSimilarity(t *testing.T) {
	v := []float32{0.5, 0.5, 0.7}
	chunk := models.Chunk{Text: "Some definition of a concept.", Embedding: v}

	relevance, similarity := Score(chunk, v)

	assert.InDelta(t, 1.0, similarity, 1e-9)
	assert.LessOrEqual(t, relevance, 1.0)
	assert.Greater(t, relevance, 0.5)
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	chunk := models.Chunk{Text: string(long), Embedding: []float32{1, 1}}

	relevance, _ := Score(chunk, []float32{1, 1})
	assert.GreaterOrEqual(t, relevance, 0.0)
	assert.LessOrEqual(t, relevance, 1.0)
}

func TestLexicalComplexity_EmptyText(t *testing.T) {
	assert.Equal(t, 0.0, LexicalComplexity(""))
	assert.Equal(t, 0.0, LexicalComplexity("   \n\t"))
}

func TestLexicalComplexity_KeywordRichTextScoresHigher(t *testing.T) {
	plain := "cat dog run sun fun"
	rich := "The analysis of this process demonstrates the principle; therefore the conclusion follows from the theory and the definition."

	assert.Greater(t, LexicalComplexity(rich), LexicalComplexity(plain))
}
