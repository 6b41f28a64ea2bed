package scoring

import (
	"math"
	"strings"

	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

// Weights of the composite relevance score.
const (
	similarityWeight = 0.5
	lengthWeight     = 0.2
	lexicalWeight    = 0.3

	// Chunks near this many characters get full length fitness.
	targetChunkChars = 500

	// Normalization anchors for lexical complexity.
	targetWordLen     = 6.0
	targetSentenceLen = 15.0
)

// educationalKeywords signal content worth asking questions about.
var educationalKeywords = []string{
	"definition", "example", "process", "method", "principle", "concept",
	"theory", "analysis", "conclusion", "result", "because", "therefore",
	"however", "furthermore", "in contrast", "specifically",
}

// Score computes the composite relevance of a chunk for question generation.
// contextEmbedding may be nil; similarity is then 0 and the score rests on
// length fitness and lexical complexity alone, without renormalizing. Pure
// function, no side effects.
func Score(chunk models.Chunk, contextEmbedding []float32) (relevance, similarity float64) {
	if chunk.Embedding != nil && contextEmbedding != nil {
		similarity = CosineSimilarity(chunk.Embedding, contextEmbedding)
	}

	lengthFitness := math.Min(float64(len(chunk.Text))/targetChunkChars, 1.0)
	lexical := LexicalComplexity(chunk.Text)

	relevance = similarityWeight*similarity + lengthWeight*lengthFitness + lexicalWeight*lexical
	return clamp01(relevance), similarity
}

// CosineSimilarity returns dot(a,b) / (|a| * |b|). A zero-length or
// zero-norm vector yields 0, never NaN.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// LexicalComplexity blends average word length, average sentence length and
// the fraction of matched educational keywords, each clamped to [0,1].
func LexicalComplexity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	words := strings.Fields(text)
	sentences := strings.Split(text, ".")

	var totalWordLen int
	for _, w := range words {
		totalWordLen += len(w)
	}

	var avgWordLen, avgSentenceLen float64
	if len(words) > 0 {
		avgWordLen = float64(totalWordLen) / float64(len(words))
	}
	if len(sentences) > 0 {
		avgSentenceLen = float64(len(words)) / float64(len(sentences))
	}

	wordComplexity := math.Min(avgWordLen/targetWordLen, 1.0)
	sentenceComplexity := math.Min(avgSentenceLen/targetSentenceLen, 1.0)

	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range educationalKeywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	keywordScore := float64(matched) / float64(len(educationalKeywords))

	return clamp01((wordComplexity + sentenceComplexity + keywordScore) / 3)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
