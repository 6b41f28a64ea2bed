package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GodReaper/PrashnaRachnaAI/internal/analyzer"
	"github.com/GodReaper/PrashnaRachnaAI/internal/chunkstore"
	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/embedding"
	"github.com/GodReaper/PrashnaRachnaAI/internal/generation"
	"github.com/GodReaper/PrashnaRachnaAI/internal/helper"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
	"github.com/GodReaper/PrashnaRachnaAI/internal/ollama"
	"github.com/GodReaper/PrashnaRachnaAI/internal/parser"
	"github.com/GodReaper/PrashnaRachnaAI/internal/scoring"
	"github.com/GodReaper/PrashnaRachnaAI/internal/store"
)

const (
	configFilePath = "./configs/config.yaml"
	defaultContext = "generate educational questions"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	filePath := flag.String("file", "", "Path to a document to ingest")
	generate := flag.Bool("generate", false, "Generate questions from ingested content")
	questionType := flag.String("type", models.TypeAllTypes, "Question type to generate")
	bloomLevel := flag.String("bloom", models.BloomUnderstand, "Bloom's taxonomy level")
	difficulty := flag.String("difficulty", models.DifficultyIntermediate, "Difficulty level")
	count := flag.Int("count", 1, "Number of questions per type")
	model := flag.String("model", "", "Override the configured inference model")
	documentID := flag.String("doc", "", "Restrict generation to one document id")
	save := flag.Bool("save", false, "Persist generated questions to the database")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		log.Warn().Err(err).Msg("config not found, using defaults")
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	switch {
	case *filePath != "":
		ingestDocument(ctx, cfg, *filePath)
	case *generate:
		generateQuestions(ctx, cfg, generateOptions{
			request: models.GenerationRequest{
				QuestionType: *questionType,
				BloomLevel:   *bloomLevel,
				Difficulty:   *difficulty,
				Count:        *count,
				Model:        *model,
			},
			documentID: *documentID,
			save:       *save,
		})
	default:
		log.Fatal().Msg("Provide a document with -file or request generation with -generate")
	}
}

func ingestDocument(ctx context.Context, cfg *config.Config, filePath string) {
	docID, err := helper.GenerateUUID()
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating document id")
	}

	chunks, err := parser.ParseDocument(filePath, docID, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	log.Info().Int("chunks", len(chunks)).Str("document_id", docID).Msg("Parsed document")

	embedder, err := embedding.NewOllamaEmbedder(cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	if err := embedding.EmbedChunks(ctx, embedder, chunks); err != nil {
		log.Fatal().Err(err).Msg("Error embedding chunks")
	}

	chunkDB, err := chunkstore.NewStore(cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening chunk store")
	}
	if err := chunkDB.AddChunks(ctx, chunks); err != nil {
		log.Fatal().Err(err).Msg("Error storing chunks")
	}

	log.Info().Int("total", chunkDB.Count()).Msg("Chunks stored")
}

type generateOptions struct {
	request    models.GenerationRequest
	documentID string
	save       bool
}

func generateQuestions(ctx context.Context, cfg *config.Config, opts generateOptions) {
	embedder, err := embedding.NewOllamaEmbedder(cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	chunkDB, err := chunkstore.NewStore(cfg.VectorDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening chunk store")
	}

	contextEmbedding, err := embedder.EmbedQuery(ctx, defaultContext)
	if err != nil {
		log.Fatal().Err(err).Msg("Error embedding generation context")
	}

	var where map[string]string
	if opts.documentID != "" {
		where = map[string]string{"document_id": opts.documentID}
	}
	candidates, err := chunkDB.SearchSimilar(ctx, contextEmbedding, cfg.RAG.MaxChunks*2, where)
	if err != nil {
		log.Fatal().Err(err).Msg("Error retrieving chunks")
	}
	if len(candidates) == 0 {
		log.Fatal().Msg("No chunks available; ingest a document first")
	}

	selector := scoring.NewSelector(embedder)
	selection := selector.Select(ctx, candidates, defaultContext, cfg.RAG.MaxChunks)
	if selection.EmbedFallback {
		log.Warn().Msg("Chunk ranking degraded to input order")
	}

	selected := make([]models.Chunk, len(selection.Chunks))
	for i, sc := range selection.Chunks {
		selected[i] = sc.Chunk
		profile := analyzer.Analyze(sc.Text)
		log.Debug().
			Str("chunk", sc.ID).
			Float64("relevance", sc.RelevanceScore).
			Str("complexity", profile.ComplexityTier).
			Strs("bloom_levels", profile.ApplicableBloomLevels).
			Msg("Selected chunk")
	}

	client := ollama.NewClient(cfg.Ollama)
	orchestrator := generation.NewOrchestrator(client, cfg.RAG)

	result := orchestrator.Generate(ctx, selected, opts.request)
	if result.Err != nil && !result.Success {
		log.Fatal().Err(result.Err).Msg("Question generation failed")
	}

	log.Info().Int("questions", len(result.Questions)).Str("model", result.Model).Msg("Generation complete")
	helper.PrettyPrint(result)

	if opts.save && len(result.Questions) > 0 {
		saveQuestions(ctx, cfg, result.Questions)
	}
}

func saveQuestions(ctx context.Context, cfg *config.Config, questions []models.QuestionRecord) {
	sqldb, err := store.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	db := store.NewDB(sqldb, cfg.Database.Debug)
	defer db.Close()

	if err := store.InitDB(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	if err := store.SaveQuestions(ctx, db, questions); err != nil {
		log.Fatal().Err(err).Msg("Error saving questions")
	}
	log.Info().Int("saved", len(questions)).Msg("Questions stored")
}
