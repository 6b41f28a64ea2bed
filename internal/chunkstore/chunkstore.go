// Package chunkstore persists document chunks in a chromem-go vector
// database. The generation core only reads from it; writes happen during
// ingestion.
package chunkstore

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

const compress = false

// Store wraps a chromem collection of document chunks.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func NewStore(cfg config.VectorDBConfig) (*Store, error) {
	var db *chromem.DB
	var err error
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, compress)
		if err != nil {
			return nil, fmt.Errorf("creating chunk database: %w", err)
		}
	}

	// Chunks always carry precomputed embeddings, so no embedding function
	// is attached to the collection.
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chunk collection: %w", err)
	}

	return &Store{db: db, collection: collection}, nil
}

// AddChunks stores chunks with their embeddings and provenance metadata.
func (s *Store) AddChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Text == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Metadata:  metadataMap(chunk.Metadata),
			Embedding: chunk.Embedding,
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding chunks: %w", err)
	}
	return nil
}

// SearchSimilar returns up to n chunks nearest to the query embedding,
// optionally filtered by metadata (e.g. {"document_id": id}). n is clamped
// to the collection size.
func (s *Store) SearchSimilar(ctx context.Context, queryEmbedding []float32, n int, where map[string]string) ([]models.Chunk, error) {
	if count := s.collection.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       n,
		Where:          where,
	})
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}

	chunks := make([]models.Chunk, len(results))
	for i, res := range results {
		chunks[i] = models.Chunk{
			ID:        res.ID,
			Text:      res.Content,
			Embedding: res.Embedding,
			Metadata:  metadataFromMap(res.Metadata),
		}
	}
	return chunks, nil
}

// Count reports the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Reset drops and recreates the collection.
func (s *Store) Reset() error {
	name := s.collection.Name
	if err := s.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("dropping chunk collection: %w", err)
	}
	collection, err := s.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return fmt.Errorf("recreating chunk collection: %w", err)
	}
	s.collection = collection
	return nil
}

func metadataMap(m models.ChunkMetadata) map[string]string {
	return map[string]string{
		"document_id":     m.DocumentID,
		"filename":        m.Filename,
		"page_number":     strconv.Itoa(m.PageNumber),
		"chunk_index":     strconv.Itoa(m.ChunkIndex),
		"word_count":      strconv.Itoa(m.WordCount),
		"character_count": strconv.Itoa(m.CharacterCount),
	}
}

func metadataFromMap(m map[string]string) models.ChunkMetadata {
	page, _ := strconv.Atoi(m["page_number"])
	index, _ := strconv.Atoi(m["chunk_index"])
	words, _ := strconv.Atoi(m["word_count"])
	chars, _ := strconv.Atoi(m["character_count"])
	return models.ChunkMetadata{
		DocumentID:     m["document_id"],
		Filename:       m["filename"],
		PageNumber:     page,
		ChunkIndex:     index,
		WordCount:      words,
		CharacterCount: chars,
	}
}
