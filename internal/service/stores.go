package service

import (
	"context"
	"time"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes. Absence is signaled with
// pgx.ErrNoRows throughout, matching the repository layer.

// ExamStore persists exam records.
type ExamStore interface {
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	FindOpenByUser(ctx context.Context, userID int64) (*model.Exam, error)
	CreateWithAnswers(ctx context.Context, e *model.Exam, questionIDs []int64) error
	DeleteOpenByUser(ctx context.Context, userID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.ExamStatus) error
}

// AnswerStore reads and mutates an exam's answer slots.
type AnswerStore interface {
	GetWithQuestion(ctx context.Context, examID, questionID int64) (*model.ExamAnswer, *model.Question, error)
	UpdateAnswer(ctx context.Context, examID, questionID int64, value int16, timeSpentSeconds int) error
	CompletionCounts(ctx context.Context, examID int64) (total, answered int, err error)
	ListAnswered(ctx context.Context, examID int64) ([]model.ExamAnswer, error)
	ListExamQuestions(ctx context.Context, examID int64) ([]model.ExamQuestionPayload, error)
}

// QuestionPool is the read-only accessor over the RIASEC question bank.
type QuestionPool interface {
	GetRandomActive(ctx context.Context, category model.HollandCategory, count int) ([]model.Question, error)
	CountActiveByCategory(ctx context.Context, category model.HollandCategory) (int, error)
}

// UserLimitsStore is the per-user violation/lock aggregate with explicit
// mutation commands.
type UserLimitsStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*model.UserLimits, error)
	IncrementViolation(ctx context.Context, userID int64, kind model.ExamKind) (int, error)
	ApplyLock(ctx context.Context, userID int64, until time.Time, reason string) error
	Revoke(ctx context.Context, userID int64, reason string) error
	ClearLock(ctx context.Context, userID int64) error
}

// UserStore resolves platform user identities.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// PayloadCache caches serialized exam delivery payloads. Implementations
// signal a miss with redis.Nil.
type PayloadCache interface {
	Set(ctx context.Context, examID int64, payload []byte) error
	Get(ctx context.Context, examID int64) ([]byte, error)
	Delete(ctx context.Context, examID int64) error
}
