// Package generation drives question generation: content preparation, model
// invocation, response reconciliation, and per-type partial failure handling.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/helper"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
	"github.com/GodReaper/PrashnaRachnaAI/internal/ollama"
	"github.com/GodReaper/PrashnaRachnaAI/internal/prompts"
	"github.com/GodReaper/PrashnaRachnaAI/internal/reconcile"
)

// ErrInsufficientContent rejects input below the minimum character threshold
// before any model call is spent on it.
var ErrInsufficientContent = errors.New("content too short for question generation")

const (
	contentSeparator  = "\n\n---\n\n"
	truncationMarker  = "\n\n[Content truncated for processing...]"
	defaultBloomLevel = models.BloomUnderstand
	defaultDifficulty = models.DifficultyIntermediate
)

// ModelClient is the inference capability the orchestrator depends on.
// Satisfied by *ollama.Client; tests substitute fakes.
type ModelClient interface {
	Complete(ctx context.Context, req ollama.CompleteRequest) (*ollama.Completion, error)
}

// Orchestrator coordinates single-type and all-types generation. It holds no
// mutable state across calls; all collaborators are injected.
type Orchestrator struct {
	client          ModelClient
	minContentChars int
	maxContentChars int
}

func NewOrchestrator(client ModelClient, cfg config.RAGConfig) *Orchestrator {
	minChars := cfg.MinContentChars
	if minChars <= 0 {
		minChars = 50
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &Orchestrator{
		client:          client,
		minContentChars: minChars,
		maxContentChars: maxChars,
	}
}

// Generate produces questions from the given chunks. A request for
// TypeAllTypes (or an empty type) fans out to one call per supported type;
// any other type performs a single model call.
func (o *Orchestrator) Generate(ctx context.Context, chunks []models.Chunk, req models.GenerationRequest) models.GenerationResult {
	if req.QuestionType == "" || req.QuestionType == models.TypeAllTypes {
		return o.GenerateAllTypes(ctx, chunks, req)
	}

	content := o.prepareContent(chunks)
	if len(content) < o.minContentChars {
		return models.GenerationResult{Err: ErrInsufficientContent}
	}

	questions, model, err := o.generateOne(ctx, content, chunks, req)
	if err != nil {
		return models.GenerationResult{Err: err, Model: model}
	}
	return models.GenerationResult{
		Success:   true,
		Questions: questions,
		Model:     model,
	}
}

// GenerateAllTypes runs the single-type flow once per supported type with
// count=1. A failure on one type never aborts the remaining types, and
// cancellation returns whatever completed so far. The overall call counts as
// successful when at least one type produced a question.
func (o *Orchestrator) GenerateAllTypes(ctx context.Context, chunks []models.Chunk, req models.GenerationRequest) models.GenerationResult {
	content := o.prepareContent(chunks)
	if len(content) < o.minContentChars {
		return models.GenerationResult{Err: ErrInsufficientContent}
	}

	var (
		questions []models.QuestionRecord
		statuses  []models.TypeStatus
		lastModel string
	)

	for _, questionType := range models.QuestionTypes {
		if ctx.Err() != nil {
			statuses = append(statuses, models.TypeStatus{
				Type:  questionType,
				Error: ctx.Err().Error(),
			})
			continue
		}

		typeReq := req
		typeReq.QuestionType = questionType
		typeReq.Count = 1

		log.Info().Str("type", questionType).Msg("generating question")
		generated, model, err := o.generateOne(ctx, content, chunks, typeReq)
		if model != "" {
			lastModel = model
		}
		if err != nil {
			log.Warn().Err(err).Str("type", questionType).Msg("type generation failed")
			statuses = append(statuses, models.TypeStatus{Type: questionType, Error: err.Error()})
			continue
		}

		questions = append(questions, generated...)
		statuses = append(statuses, models.TypeStatus{Type: questionType, Success: true})
	}

	result := models.GenerationResult{
		Success:      len(questions) > 0,
		Questions:    questions,
		TypeStatuses: statuses,
		Model:        lastModel,
	}
	if !result.Success {
		result.Err = fmt.Errorf("all %d question types failed", len(models.QuestionTypes))
	}
	return result
}

// generateOne performs one model call and reconciles its output into tagged
// question records.
func (o *Orchestrator) generateOne(ctx context.Context, content string, chunks []models.Chunk, req models.GenerationRequest) ([]models.QuestionRecord, string, error) {
	bloomLevel := req.BloomLevel
	if bloomLevel == "" {
		bloomLevel = defaultBloomLevel
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}

	prompt := prompts.Render(req.QuestionType, content, bloomLevel, difficulty, count)

	completion, err := o.client.Complete(ctx, ollama.CompleteRequest{
		Model:          req.Model,
		Prompt:         prompt,
		System:         prompts.SystemPrompt,
		WantStructured: true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("generating %s questions: %w", req.QuestionType, err)
	}

	candidates, err := reconcile.Reconcile(completion.Content)
	if err != nil {
		return nil, completion.Model, err
	}

	provenance := chunkProvenance(chunks)
	generatedAt := time.Now().UTC()

	records := make([]models.QuestionRecord, 0, len(candidates))
	for i, candidate := range candidates {
		record := models.QuestionRecord{
			ID:            candidate.ID,
			Type:          candidate.Type,
			QuestionText:  candidate.QuestionText,
			CorrectAnswer: candidate.CorrectAnswer,
			Options:       candidate.Options,
			Explanation:   candidate.Explanation,
			BloomLevel:    candidate.BloomLevel,
			Difficulty:    candidate.Difficulty,
			Topic:         candidate.Topic,
			Provenance:    provenance,
			Model:         completion.Model,
			GeneratedAt:   generatedAt,
		}
		if record.ID == "" {
			record.ID = helper.QuestionID(i + 1)
		}
		// Models sometimes invent type labels; pin the record to the
		// requested type so the enumeration invariant holds.
		if !models.IsQuestionType(record.Type) {
			record.Type = req.QuestionType
		}
		if record.BloomLevel == "" {
			record.BloomLevel = bloomLevel
		}
		if record.Difficulty == "" {
			record.Difficulty = difficulty
		}
		records = append(records, record)
	}
	return records, completion.Model, nil
}

// prepareContent concatenates chunk texts with source-attribution prefixes
// and truncates the result to the configured maximum.
func (o *Orchestrator) prepareContent(chunks []models.Chunk) string {
	var parts []string
	for _, chunk := range chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		prefix := ""
		if chunk.Metadata.Filename != "" {
			prefix = fmt.Sprintf("[From: %s", chunk.Metadata.Filename)
			if chunk.Metadata.PageNumber > 0 {
				prefix += fmt.Sprintf(", Page %d", chunk.Metadata.PageNumber)
			}
			prefix += "] "
		}
		parts = append(parts, prefix+text)
	}

	combined := strings.Join(parts, contentSeparator)
	if len(combined) > o.maxContentChars {
		combined = combined[:o.maxContentChars] + truncationMarker
	}
	return combined
}

func chunkProvenance(chunks []models.Chunk) []models.SourceRef {
	var refs []models.SourceRef
	for _, chunk := range chunks {
		if chunk.Metadata.Filename == "" {
			continue
		}
		refs = append(refs, models.SourceRef{
			DocumentID: chunk.Metadata.DocumentID,
			Filename:   chunk.Metadata.Filename,
			PageNumber: chunk.Metadata.PageNumber,
		})
	}
	return refs
}
