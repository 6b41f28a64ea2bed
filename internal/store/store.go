// Package store persists generated questions and their feedback in
// Postgres. Repeated saves of the same question id upsert rather than
// duplicate.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/GodReaper/PrashnaRachnaAI/internal/config"
	"github.com/GodReaper/PrashnaRachnaAI/internal/models"
)

// Question is the relational shape of a generated question.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            string    `bun:"id,pk"`
	Type          string    `bun:"question_type,notnull"`
	QuestionText  string    `bun:"question_text,notnull"`
	CorrectAnswer any       `bun:"correct_answer,type:jsonb"`
	Options       any       `bun:"options,type:jsonb"`
	Explanation   string    `bun:"explanation"`
	BloomLevel    string    `bun:"bloom_level"`
	Difficulty    string    `bun:"difficulty"`
	Topic         string    `bun:"topic"`
	Provenance    any       `bun:"source_content,type:jsonb"`
	Model         string    `bun:"model_used"`
	GeneratedAt   time.Time `bun:"generated_at,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// QuestionFeedback stores a user's vote and ratings on one question.
type QuestionFeedback struct {
	bun.BaseModel `bun:"table:question_feedback,alias:qf"`

	ID            int64     `bun:"id,pk,autoincrement"`
	QuestionID    string    `bun:"question_id,notnull"`
	Vote          string    `bun:"vote"`
	QualityRating int       `bun:"quality_rating"`
	Comments      string    `bun:"comments"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func ConnectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	return sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(cfg.DSN),
		pgdriver.WithPassword(cfg.Password),
	)), nil
}

func InitDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*Question)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := db.NewCreateTable().Model((*QuestionFeedback)(nil)).IfNotExists().Exec(ctx)
	return err
}

// SaveQuestions upserts question records by id, keeping repeated saves
// idempotent.
func SaveQuestions(ctx context.Context, db *bun.DB, records []models.QuestionRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([]Question, len(records))
	for i, r := range records {
		rows[i] = Question{
			ID:            r.ID,
			Type:          r.Type,
			QuestionText:  r.QuestionText,
			CorrectAnswer: r.CorrectAnswer,
			Options:       r.Options,
			Explanation:   r.Explanation,
			BloomLevel:    r.BloomLevel,
			Difficulty:    r.Difficulty,
			Topic:         r.Topic,
			Provenance:    r.Provenance,
			Model:         r.Model,
			GeneratedAt:   r.GeneratedAt,
		}
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("question_text = EXCLUDED.question_text").
		Set("correct_answer = EXCLUDED.correct_answer").
		Set("options = EXCLUDED.options").
		Set("explanation = EXCLUDED.explanation").
		Exec(ctx)
	return err
}

// QuestionsByType lists stored questions of one type, newest first.
func QuestionsByType(ctx context.Context, db *bun.DB, questionType string, limit int) ([]Question, error) {
	var rows []Question
	q := db.NewSelect().Model(&rows).Order("generated_at DESC")
	if questionType != "" {
		q = q.Where("question_type = ?", questionType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx)
	return rows, err
}

// SaveFeedback records one feedback entry for a question.
func SaveFeedback(ctx context.Context, db *bun.DB, fb *QuestionFeedback) error {
	_, err := db.NewInsert().Model(fb).Exec(ctx)
	return err
}
