package models

import "time"

// ChunkMetadata traces a chunk back to its position in the source document.
type ChunkMetadata struct {
	DocumentID     string `json:"document_id"`
	Filename       string `json:"filename"`
	PageNumber     int    `json:"page_number"`
	ChunkIndex     int    `json:"chunk_index"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

// Chunk is the atomic unit of retrieval and scoring. It is produced by the
// document parser and immutable afterwards. Embedding may be nil when the
// chunk was stored without one; the scorer then falls back to lexical signals.
type Chunk struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	Embedding []float32     `json:"embedding,omitempty"`
	Metadata  ChunkMetadata `json:"metadata"`
}

// ScoredChunk is a chunk annotated with relevance to a generation context.
// Created transiently by the selector, never persisted.
type ScoredChunk struct {
	Chunk
	RelevanceScore      float64 `json:"relevance_score"`
	SimilarityToContext float64 `json:"similarity_to_context"`
}

// ContentProfile holds per-chunk pedagogical signals derived by the analyzer.
type ContentProfile struct {
	ComplexityTier         string   `json:"complexity_tier"`
	SuggestedQuestionTypes []string `json:"suggested_question_types"`
	ApplicableBloomLevels  []string `json:"applicable_bloom_levels"`
}

// GenerationRequest carries caller-chosen generation parameters.
// Model is optional; empty means the configured default.
type GenerationRequest struct {
	QuestionType string `json:"question_type"`
	BloomLevel   string `json:"bloom_level"`
	Difficulty   string `json:"difficulty"`
	Count        int    `json:"count"`
	Model        string `json:"model,omitempty"`
}

// SourceRef is one provenance entry on a generated question.
type SourceRef struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	PageNumber int    `json:"page_number"`
}

// QuestionRecord is the validated output unit. Ownership passes to the
// caller; persistence happens outside the generation core.
type QuestionRecord struct {
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	QuestionText  string      `json:"question_text"`
	CorrectAnswer any         `json:"correct_answer,omitempty"`
	Options       any         `json:"options,omitempty"`
	Explanation   string      `json:"explanation,omitempty"`
	BloomLevel    string      `json:"bloom_level,omitempty"`
	Difficulty    string      `json:"difficulty,omitempty"`
	Topic         string      `json:"topic,omitempty"`
	Provenance    []SourceRef `json:"source_provenance,omitempty"`
	Model         string      `json:"model,omitempty"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// TypeStatus records the outcome of generating one question type in
// all-types mode.
type TypeStatus struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GenerationResult aggregates the outcome of a generation call.
// In all-types mode Success is true when at least one type succeeded.
type GenerationResult struct {
	Success      bool             `json:"success"`
	Questions    []QuestionRecord `json:"questions"`
	Err          error            `json:"-"`
	TypeStatuses []TypeStatus     `json:"per_type_status,omitempty"`
	Model        string           `json:"model,omitempty"`
}
