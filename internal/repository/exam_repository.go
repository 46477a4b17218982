package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

const examColumns = `id, exam_code, user_id, exam_kind, status, total_questions,
	 time_limit_minutes, start_time, ip_address, created_at, updated_at`

// ExamRepository handles exam data access.
type ExamRepository struct {
	pool            *pgxpool.Pool
	codeMaxAttempts int
}

// NewExamRepository creates a new ExamRepository. codeMaxAttempts bounds the
// exam-code regeneration loop on uniqueness collisions.
func NewExamRepository(pool *pgxpool.Pool, codeMaxAttempts int) *ExamRepository {
	if codeMaxAttempts < 1 {
		codeMaxAttempts = 5
	}
	return &ExamRepository{pool: pool, codeMaxAttempts: codeMaxAttempts}
}

func scanExam(row pgx.Row) (*model.Exam, error) {
	e := &model.Exam{}
	var code, ip *string
	err := row.Scan(&e.ID, &code, &e.UserID, &e.Kind, &e.Status, &e.TotalQuestions,
		&e.TimeLimitMinutes, &e.StartTime, &ip, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if code != nil {
		e.ExamCode = *code
	}
	if ip != nil {
		e.IPAddress = *ip
	}
	return e, nil
}

// GetByID retrieves an exam by its numeric id.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id))
}

// GetByCode retrieves an exam by its human-readable code.
func (r *ExamRepository) GetByCode(ctx context.Context, code string) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE exam_code = $1`, code))
}

// FindOpenByUser retrieves the user's exam in DRAFT or IN_PROGRESS status,
// if any. At most one such exam can exist (partial unique index
// uniq_open_exam_per_user). Returns pgx.ErrNoRows when there is none.
func (r *ExamRepository) FindOpenByUser(ctx context.Context, userID int64) (*model.Exam, error) {
	return scanExam(r.pool.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, model.ExamStatusDraft, model.ExamStatusInProgress))
}

// CreateWithAnswers atomically inserts a new exam, one unanswered answer slot
// per selected question (preserving the delivered order), and the generated
// exam code. The partial unique index on open exams makes two concurrent
// creations for the same user impossible: the second insert fails and the
// whole transaction rolls back. The exam code is assigned after the row
// exists, regenerating on collision up to codeMaxAttempts times.
func (r *ExamRepository) CreateWithAnswers(ctx context.Context, e *model.Exam, questionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (user_id, exam_kind, status, total_questions, time_limit_minutes, start_time, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		 RETURNING id, created_at, updated_at`,
		e.UserID, e.Kind, e.Status, e.TotalQuestions, e.TimeLimitMinutes, e.StartTime, e.IPAddress,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}

	rows := make([][]any, len(questionIDs))
	for i, qid := range questionIDs {
		rows[i] = []any{e.ID, qid, i + 1, model.AnswerUnanswered}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"exam_answers"},
		[]string{"exam_id", "question_id", "sequence", "user_answer"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("insert answer slots: %w", err)
	}

	// Assign the exam code after the row exists; regenerate on collision.
	// Each attempt runs under a savepoint so a unique violation does not
	// abort the outer transaction.
	assigned := false
	for attempt := 0; attempt < r.codeMaxAttempts; attempt++ {
		code := model.NewExamCode(time.Now())
		inner, err := tx.Begin(ctx)
		if err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		if _, err := inner.Exec(ctx,
			`UPDATE exams SET exam_code = $1 WHERE id = $2`, code, e.ID); err != nil {
			inner.Rollback(ctx)
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("assign exam code: %w", err)
		}
		if err := inner.Commit(ctx); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
		e.ExamCode = code
		assigned = true
		break
	}
	if !assigned {
		return fmt.Errorf("assign exam code: exhausted %d attempts", r.codeMaxAttempts)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteOpenByUser removes the user's open exams together with their answer
// rows (ON DELETE CASCADE) in a single statement, returning the number of
// exams deleted. Used only by the force-new path.
func (r *ExamRepository) DeleteOpenByUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM exams WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, model.ExamStatusDraft, model.ExamStatusInProgress)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UpdateStatus updates an exam's status.
func (r *ExamRepository) UpdateStatus(ctx context.Context, id int64, status model.ExamStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE exams SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
