package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

// QuestionRepository is the read-only accessor over the RIASEC question
// bank. Content management of the bank lives outside this service.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetRandomActive draws count random active questions of one category,
// without replacement. May return fewer rows than requested when the bank
// is short; the caller decides whether that is an error.
func (r *QuestionRepository) GetRandomActive(ctx context.Context, category model.HollandCategory, count int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_text, category, is_active, created_at
		 FROM questions
		 WHERE category = $1 AND is_active = TRUE
		 ORDER BY random()
		 LIMIT $2`, category, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.Category, &q.IsActive, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountActiveByCategory returns the number of active questions in a category.
func (r *QuestionRepository) CountActiveByCategory(ctx context.Context, category model.HollandCategory) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE category = $1 AND is_active = TRUE`,
		category).Scan(&n)
	return n, err
}

// Create inserts a new question. Only used by the seeding CLI.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, category, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		q.QuestionText, q.Category, q.IsActive,
	).Scan(&q.ID, &q.CreatedAt)
}
