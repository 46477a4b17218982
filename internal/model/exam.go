package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates the lifecycle states of an assessment exam.
type ExamStatus string

const (
	ExamStatusDraft      ExamStatus = "DRAFT"
	ExamStatusInProgress ExamStatus = "IN_PROGRESS"
	ExamStatusCompleted  ExamStatus = "COMPLETED"
	ExamStatusTimeout    ExamStatus = "TIMEOUT"
	// ExamStatusCancelled is reachable only through the admin cancel
	// endpoint; the force-new path deletes the row instead.
	ExamStatusCancelled ExamStatus = "CANCELLED"
)

// IsOpen reports whether the exam still accepts answers. DRAFT and
// IN_PROGRESS are equivalent for validation purposes.
func (s ExamStatus) IsOpen() bool {
	return s == ExamStatusDraft || s == ExamStatusInProgress
}

// ExamKind distinguishes the 30-question free variant from the 120-question
// paid variant.
type ExamKind string

const (
	ExamKindFree ExamKind = "FREE"
	ExamKindPaid ExamKind = "PAID"
)

// Valid reports whether k is a known exam kind.
func (k ExamKind) Valid() bool {
	return k == ExamKindFree || k == ExamKindPaid
}

// Exam represents one assessment attempt by a user.
type Exam struct {
	ID                int64      `json:"id"`
	ExamCode          string     `json:"exam_code"`
	UserID            int64      `json:"user_id"`
	Kind              ExamKind   `json:"exam_kind"`
	Status            ExamStatus `json:"status"`
	TotalQuestions    int        `json:"total_questions"`
	AnsweredQuestions int        `json:"answered_questions"`
	StartTime         time.Time  `json:"start_time"`
	TimeLimitMinutes  int        `json:"time_limit"` // 0 = unlimited
	IPAddress         string     `json:"ip_address,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Deadline returns the wall-clock moment the exam times out, and false when
// the exam is untimed.
func (e *Exam) Deadline() (time.Time, bool) {
	if e.TimeLimitMinutes <= 0 {
		return time.Time{}, false
	}
	return e.StartTime.Add(time.Duration(e.TimeLimitMinutes) * time.Minute), true
}

// examCodePrefix is the fixed prefix of every exam code.
const examCodePrefix = "EX"

// NewExamCode generates a human-readable exam code in the form
// EX<YYYYMMDD>_<6 opaque chars>. Uniqueness is enforced by the store; callers
// retry with a fresh code on collision.
func NewExamCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("%s%s_%s", examCodePrefix, now.Format("20060102"), suffix)
}

// CreateExamRequest is the payload for starting a new exam.
type CreateExamRequest struct {
	Kind     ExamKind `json:"exam_kind" binding:"required,oneof=FREE PAID"`
	ForceNew bool     `json:"force_new"`
}

// SubmitAnswerRequest is the payload for answering one question.
type SubmitAnswerRequest struct {
	QuestionID int64  `json:"question_id" binding:"required,min=1"`
	Answer     *int16 `json:"answer" binding:"required"`
	TimeSpent  int    `json:"time_spent" binding:"min=0"`
}

// ExamQuestionPayload is a question as delivered to the client: no category
// outside debug mode, sequence number assigned at generation time.
type ExamQuestionPayload struct {
	QuestionID   int64           `json:"question_id"`
	Sequence     int             `json:"sequence"`
	QuestionText string          `json:"question_text"`
	Category     HollandCategory `json:"category,omitempty"`
	Choices      []AnswerChoice  `json:"choices"`
}

// ExamCreationResult is returned from a successful exam creation.
type ExamCreationResult struct {
	ExamID           int64                 `json:"exam_id"`
	ExamCode         string                `json:"exam_code"`
	Kind             ExamKind              `json:"exam_kind"`
	TotalQuestions   int                   `json:"total_questions"`
	TimeLimitMinutes int                   `json:"time_limit"`
	Instructions     string                `json:"instructions"`
	Questions        []ExamQuestionPayload `json:"questions"`
}

// ExamTimeInfo is the result of a time-limit check.
type ExamTimeInfo struct {
	Unlimited        bool `json:"unlimited"`
	RemainingSeconds int  `json:"remaining_seconds,omitempty"`
}

// CompletionInfo summarizes answer progress over an exam's answer rows.
type CompletionInfo struct {
	TotalQuestions int     `json:"total_questions"`
	Answered       int     `json:"answered"`
	Unanswered     int     `json:"unanswered"`
	IsComplete     bool    `json:"is_complete"`
	CompletionRate float64 `json:"completion_rate"` // percent, one decimal
}

// ExamState is the live view streamed to a client during an exam.
type ExamState struct {
	ExamID           int64      `json:"exam_id"`
	ExamCode         string     `json:"exam_code"`
	Status           ExamStatus `json:"status"`
	TotalQuestions   int        `json:"total_questions"`
	Answered         int        `json:"answered"`
	Unlimited        bool       `json:"unlimited"`
	RemainingSeconds int        `json:"remaining_seconds,omitempty"`
}
