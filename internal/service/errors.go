package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

// Domain errors. Failures carry the context the API layer needs to render an
// actionable message (existing exam code, unlock time, question counts).

var (
	ErrUserInactive       = errors.New("user is not active")
	ErrExamNotFound       = errors.New("exam not found")
	ErrNotExamOwner       = errors.New("not the owner of this exam")
	ErrQuestionNotInExam  = errors.New("question is not part of this exam")
	ErrQuestionInactive   = errors.New("question is no longer active")
	ErrInvalidAnswerValue = errors.New("answer value must be 0, 1 or 2")
	ErrExamTimedOut       = errors.New("exam time limit has elapsed")
	ErrExamNotOpen        = errors.New("exam is not in an open status")
)

// ExamStatusError rejects an operation because the exam is in a terminal
// status not allowed by the caller.
type ExamStatusError struct {
	Status model.ExamStatus
}

func (e *ExamStatusError) Error() string {
	return fmt.Sprintf("exam status is %s", e.Status)
}

// ExamAlreadyInProgressError rejects a creation while an open exam exists.
type ExamAlreadyInProgressError struct {
	ExamCode string
}

func (e *ExamAlreadyInProgressError) Error() string {
	return fmt.Sprintf("exam %s is still in progress", e.ExamCode)
}

// InsufficientQuestionBankError rejects a creation because one category of
// the bank cannot satisfy the draw.
type InsufficientQuestionBankError struct {
	Category  model.HollandCategory
	Required  int
	Available int
}

func (e *InsufficientQuestionBankError) Error() string {
	return fmt.Sprintf("question bank category %s has %d active questions, %d required",
		e.Category, e.Available, e.Required)
}

// TemporarilyLockedError rejects a creation while a time-bounded lock is in
// force.
type TemporarilyLockedError struct {
	Until  time.Time
	Reason string
}

func (e *TemporarilyLockedError) Error() string {
	return fmt.Sprintf("user is locked until %s", e.Until.Format(time.RFC3339))
}

// PermanentlyLockedError rejects any creation for a permanently locked user.
type PermanentlyLockedError struct {
	Reason string
}

func (e *PermanentlyLockedError) Error() string {
	return "user is permanently locked"
}

// FreeExamLimitLockedError rejects a FREE creation after the violation
// threshold, carrying the lock just applied.
type FreeExamLimitLockedError struct {
	Until      time.Time
	Violations int
}

func (e *FreeExamLimitLockedError) Error() string {
	return fmt.Sprintf("free exam violation limit reached (%d), locked until %s",
		e.Violations, e.Until.Format(time.RFC3339))
}

// PaidExamAccessRevokedError rejects a PAID creation for a revoked user.
type PaidExamAccessRevokedError struct {
	Reason     string
	Violations int
}

func (e *PaidExamAccessRevokedError) Error() string {
	return "paid exam access has been revoked"
}

// ExamIncompleteError rejects a finalize call while unanswered slots remain.
type ExamIncompleteError struct {
	Answered int
	Total    int
}

func (e *ExamIncompleteError) Error() string {
	return fmt.Sprintf("exam incomplete: %d of %d questions answered", e.Answered, e.Total)
}
