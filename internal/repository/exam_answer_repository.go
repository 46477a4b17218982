package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

// ExamAnswerRepository handles exam answer slot data access. Slots are
// created in bulk by ExamRepository.CreateWithAnswers; this repository only
// reads and mutates existing slots.
type ExamAnswerRepository struct {
	pool *pgxpool.Pool
}

// NewExamAnswerRepository creates a new ExamAnswerRepository.
func NewExamAnswerRepository(pool *pgxpool.Pool) *ExamAnswerRepository {
	return &ExamAnswerRepository{pool: pool}
}

// GetWithQuestion retrieves the answer slot for (examID, questionID) joined
// with its question. Returns pgx.ErrNoRows if the question was never
// assigned to this exam.
func (r *ExamAnswerRepository) GetWithQuestion(ctx context.Context, examID, questionID int64) (*model.ExamAnswer, *model.Question, error) {
	a := &model.ExamAnswer{}
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT a.exam_id, a.question_id, a.sequence, a.user_answer, a.answer_time, a.time_spent_seconds,
		        q.id, q.question_text, q.category, q.is_active, q.created_at
		 FROM exam_answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.exam_id = $1 AND a.question_id = $2`, examID, questionID,
	).Scan(&a.ExamID, &a.QuestionID, &a.Sequence, &a.UserAnswer, &a.AnswerTime, &a.TimeSpentSeconds,
		&q.ID, &q.QuestionText, &q.Category, &q.IsActive, &q.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return a, q, nil
}

// UpdateAnswer writes a submitted answer into an existing slot. The slot set
// is fixed at exam creation, so this never inserts.
func (r *ExamAnswerRepository) UpdateAnswer(ctx context.Context, examID, questionID int64, value int16, timeSpentSeconds int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exam_answers
		 SET user_answer = $1, answer_time = $2, time_spent_seconds = $3
		 WHERE exam_id = $4 AND question_id = $5`,
		value, time.Now(), timeSpentSeconds, examID, questionID)
	return err
}

// CompletionCounts returns the total number of slots and the number holding
// a submitted answer (user_answer >= 0) for an exam.
func (r *ExamAnswerRepository) CompletionCounts(ctx context.Context, examID int64) (total, answered int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE user_answer >= 0)
		 FROM exam_answers WHERE exam_id = $1`, examID,
	).Scan(&total, &answered)
	return total, answered, err
}

// ListAnswered retrieves all answered slots of an exam, in delivery order.
// Used by the fraud evaluation.
func (r *ExamAnswerRepository) ListAnswered(ctx context.Context, examID int64) ([]model.ExamAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT exam_id, question_id, sequence, user_answer, answer_time, time_spent_seconds
		 FROM exam_answers
		 WHERE exam_id = $1 AND user_answer >= 0
		 ORDER BY sequence`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.ExamAnswer
	for rows.Next() {
		var a model.ExamAnswer
		if err := rows.Scan(&a.ExamID, &a.QuestionID, &a.Sequence, &a.UserAnswer, &a.AnswerTime, &a.TimeSpentSeconds); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// ListExamQuestions retrieves the exam's questions in delivery order,
// used to rebuild the paper payload on a cache miss.
func (r *ExamAnswerRepository) ListExamQuestions(ctx context.Context, examID int64) ([]model.ExamQuestionPayload, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.question_id, a.sequence, q.question_text, q.category
		 FROM exam_answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.exam_id = $1
		 ORDER BY a.sequence`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.ExamQuestionPayload
	for rows.Next() {
		var p model.ExamQuestionPayload
		if err := rows.Scan(&p.QuestionID, &p.Sequence, &p.QuestionText, &p.Category); err != nil {
			return nil, err
		}
		questions = append(questions, p)
	}
	return questions, rows.Err()
}
