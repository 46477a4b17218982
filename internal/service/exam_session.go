package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

// ExamSessionService orchestrates the exam lifecycle after creation: answer
// submission, progress reads, finalization with fraud evaluation and the
// administrative cancel path.
type ExamSessionService struct {
	exams     ExamStore
	answers   AnswerStore
	validator *ExamValidatorService
	limits    *UserLimitsService
	cache     PayloadCache
	log       zerolog.Logger
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(exams ExamStore, answers AnswerStore, validator *ExamValidatorService, limits *UserLimitsService, cache PayloadCache, log zerolog.Logger) *ExamSessionService {
	return &ExamSessionService{
		exams:     exams,
		answers:   answers,
		validator: validator,
		limits:    limits,
		cache:     cache,
		log:       log.With().Str("component", "exam_session_service").Logger(),
	}
}

// SubmitAnswer validates and writes one answer. The first answer moves a
// DRAFT exam to IN_PROGRESS.
func (s *ExamSessionService) SubmitAnswer(ctx context.Context, examID, userID, questionID int64, answerValue int16, timeSpentSeconds int) error {
	if !model.ValidAnswerValue(answerValue) {
		return ErrInvalidAnswerValue
	}

	exam, err := s.validator.ValidateExamAccess(ctx, examID, userID,
		model.ExamStatusDraft, model.ExamStatusInProgress)
	if err != nil {
		return err
	}
	if _, err := s.validator.ValidateExamTime(ctx, exam); err != nil {
		return err
	}
	if _, _, err := s.validator.ValidateQuestionInExam(ctx, examID, questionID); err != nil {
		return err
	}

	if err := s.answers.UpdateAnswer(ctx, examID, questionID, answerValue, timeSpentSeconds); err != nil {
		return fmt.Errorf("write answer: %w", err)
	}

	if exam.Status == model.ExamStatusDraft {
		if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusInProgress); err != nil {
			return fmt.Errorf("start exam: %w", err)
		}
	}
	return nil
}

// GetCompletionStatus returns answer progress for an exam owned by the user.
func (s *ExamSessionService) GetCompletionStatus(ctx context.Context, examID, userID int64) (*model.CompletionInfo, error) {
	if _, err := s.validator.ValidateExamAccess(ctx, examID, userID); err != nil {
		return nil, err
	}
	return s.validator.ValidateExamCompletion(ctx, examID)
}

// FinalizeExam completes an open, fully answered exam. The fraud report is
// computed over the answers; a non-empty flag list records exactly one
// violation for the exam's kind, which feeds the eligibility thresholds on
// the next attempt.
func (s *ExamSessionService) FinalizeExam(ctx context.Context, examID, userID int64) (*model.FraudReport, error) {
	exam, err := s.validator.ValidateExamAccess(ctx, examID, userID,
		model.ExamStatusDraft, model.ExamStatusInProgress)
	if err != nil {
		return nil, err
	}
	if _, err := s.validator.ValidateExamTime(ctx, exam); err != nil {
		return nil, err
	}

	completion, err := s.validator.ValidateExamCompletion(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !completion.IsComplete {
		return nil, &ExamIncompleteError{Answered: completion.Answered, Total: completion.TotalQuestions}
	}

	report, err := s.validator.ValidateAnswersForFraud(ctx, examID)
	if err != nil {
		return nil, err
	}

	if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete exam: %w", err)
	}

	if err := s.cache.Delete(ctx, examID); err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Drop payload cache failed")
	}

	if report.Suspicious() {
		codes := make([]string, len(report.Flags))
		for i, f := range report.Flags {
			codes[i] = string(f.Code)
		}
		reason := fmt.Sprintf("Indikasi kecurangan pada %s: %s", exam.ExamCode, strings.Join(codes, ", "))
		if err := s.limits.RecordViolation(ctx, userID, exam.Kind, reason); err != nil {
			// The exam is already completed; surface the failure instead of
			// silently losing the violation.
			return nil, fmt.Errorf("record violation: %w", err)
		}
	}

	s.log.Info().
		Str("exam_code", exam.ExamCode).
		Int("flags", len(report.Flags)).
		Msg("Exam finalized")

	return report, nil
}

// GetExamPaper returns the delivery payload of an open exam, served from the
// Redis cache with a store rebuild on miss.
func (s *ExamSessionService) GetExamPaper(ctx context.Context, examID, userID int64) ([]model.ExamQuestionPayload, error) {
	exam, err := s.validator.ValidateExamAccess(ctx, examID, userID,
		model.ExamStatusDraft, model.ExamStatusInProgress)
	if err != nil {
		return nil, err
	}
	if _, err := s.validator.ValidateExamTime(ctx, exam); err != nil {
		return nil, err
	}

	if data, err := s.cache.Get(ctx, examID); err == nil {
		var questions []model.ExamQuestionPayload
		if jsonErr := json.Unmarshal(data, &questions); jsonErr == nil {
			return questions, nil
		}
		s.log.Warn().Int64("exam_id", examID).Msg("Corrupt payload cache, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Payload cache read failed")
	}

	questions, err := s.answers.ListExamQuestions(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list exam questions: %w", err)
	}
	for i := range questions {
		questions[i].Choices = model.AnswerChoices()
		if !s.validator.cfg.DebugExposeCategory {
			questions[i].Category = ""
		}
	}

	if data, err := json.Marshal(questions); err == nil {
		if err := s.cache.Set(ctx, examID, data); err != nil {
			s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Payload cache refill failed")
		}
	}
	return questions, nil
}

// GetExamState returns the live progress view used by the WebSocket stream.
func (s *ExamSessionService) GetExamState(ctx context.Context, examID, userID int64) (*model.ExamState, error) {
	exam, err := s.validator.ValidateExamAccess(ctx, examID, userID,
		model.ExamStatusDraft, model.ExamStatusInProgress)
	if err != nil {
		return nil, err
	}
	timeInfo, err := s.validator.ValidateExamTime(ctx, exam)
	if err != nil {
		return nil, err
	}
	total, answered, err := s.answers.CompletionCounts(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("completion counts: %w", err)
	}

	return &model.ExamState{
		ExamID:           exam.ID,
		ExamCode:         exam.ExamCode,
		Status:           exam.Status,
		TotalQuestions:   total,
		Answered:         answered,
		Unlimited:        timeInfo.Unlimited,
		RemainingSeconds: timeInfo.RemainingSeconds,
	}, nil
}

// CancelExam moves an open exam to CANCELLED, preserving it for audit.
// Admin only; this is the sole path into the CANCELLED status.
func (s *ExamSessionService) CancelExam(ctx context.Context, examID int64) error {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrExamNotFound
		}
		return fmt.Errorf("get exam: %w", err)
	}
	if !exam.Status.IsOpen() {
		return ErrExamNotOpen
	}
	if err := s.exams.UpdateStatus(ctx, examID, model.ExamStatusCancelled); err != nil {
		return fmt.Errorf("cancel exam: %w", err)
	}
	if err := s.cache.Delete(ctx, examID); err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Drop payload cache failed")
	}
	s.log.Info().Str("exam_code", exam.ExamCode).Msg("Exam cancelled by admin")
	return nil
}
