package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

// ExamValidatorService gates every exam operation: ownership and status
// checks, lazy time-limit enforcement, completion computation and fraud
// evaluation over an exam's answers.
type ExamValidatorService struct {
	exams   ExamStore
	answers AnswerStore
	limits  *UserLimitsService
	cfg     *config.Config
	log     zerolog.Logger
	now     func() time.Time
}

// NewExamValidatorService creates a new ExamValidatorService.
func NewExamValidatorService(exams ExamStore, answers AnswerStore, limits *UserLimitsService, cfg *config.Config, log zerolog.Logger) *ExamValidatorService {
	return &ExamValidatorService{
		exams:   exams,
		answers: answers,
		limits:  limits,
		cfg:     cfg,
		log:     log.With().Str("component", "exam_validator").Logger(),
		now:     time.Now,
	}
}

// ValidateExamAccess loads the exam and verifies ownership and status.
// allowedStatuses empty means any status passes.
func (s *ExamValidatorService) ValidateExamAccess(ctx context.Context, examID, userID int64, allowedStatuses ...model.ExamStatus) (*model.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}

	if exam.UserID != userID {
		return nil, ErrNotExamOwner
	}

	if len(allowedStatuses) == 0 {
		return exam, nil
	}
	for _, st := range allowedStatuses {
		if exam.Status == st {
			return exam, nil
		}
	}
	return nil, &ExamStatusError{Status: exam.Status}
}

// ValidateExamTime enforces the exam's time limit. An elapsed deadline
// transitions the exam to TIMEOUT as a committed side effect and fails the
// call. An exam already in TIMEOUT fails consistently without re-mutating.
func (s *ExamValidatorService) ValidateExamTime(ctx context.Context, exam *model.Exam) (*model.ExamTimeInfo, error) {
	if exam.Status == model.ExamStatusTimeout {
		return nil, ErrExamTimedOut
	}

	deadline, ok := exam.Deadline()
	if !ok {
		return &model.ExamTimeInfo{Unlimited: true}, nil
	}

	remaining := int(deadline.Sub(s.now()).Seconds())
	if remaining <= 0 {
		if exam.Status.IsOpen() {
			if err := s.exams.UpdateStatus(ctx, exam.ID, model.ExamStatusTimeout); err != nil {
				return nil, fmt.Errorf("mark exam timed out: %w", err)
			}
			exam.Status = model.ExamStatusTimeout
			s.log.Info().
				Int64("exam_id", exam.ID).
				Str("exam_code", exam.ExamCode).
				Msg("Exam timed out")
		}
		return nil, ErrExamTimedOut
	}

	return &model.ExamTimeInfo{RemainingSeconds: remaining}, nil
}

// ValidateQuestionInExam verifies the question was assigned to the exam at
// creation time and is still active in the bank.
func (s *ExamValidatorService) ValidateQuestionInExam(ctx context.Context, examID, questionID int64) (*model.ExamAnswer, *model.Question, error) {
	answer, question, err := s.answers.GetWithQuestion(ctx, examID, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrQuestionNotInExam
		}
		return nil, nil, fmt.Errorf("get answer slot: %w", err)
	}
	if !question.IsActive {
		return nil, nil, ErrQuestionInactive
	}
	return answer, question, nil
}

// ValidateExamCompletion recomputes answer progress from the answer rows.
// answered_questions on the exam row is derived, never authoritative.
func (s *ExamValidatorService) ValidateExamCompletion(ctx context.Context, examID int64) (*model.CompletionInfo, error) {
	total, answered, err := s.answers.CompletionCounts(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("completion counts: %w", err)
	}

	info := &model.CompletionInfo{
		TotalQuestions: total,
		Answered:       answered,
		Unanswered:     total - answered,
		IsComplete:     total > 0 && answered == total,
	}
	if total > 0 {
		info.CompletionRate = math.Round(float64(answered)/float64(total)*1000) / 10
	}
	return info, nil
}

// ValidateAnswersForFraud computes fraud signals over the answered rows:
// dominant single-value share, agree share and answering speed. The report
// mutates nothing; the finalize path decides whether to record a violation.
func (s *ExamValidatorService) ValidateAnswersForFraud(ctx context.Context, examID int64) (*model.FraudReport, error) {
	answers, err := s.answers.ListAnswered(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list answered: %w", err)
	}

	report := &model.FraudReport{
		TotalAnswered: len(answers),
		Flags:         []model.FraudFlag{},
	}
	if len(answers) == 0 {
		return report, nil
	}

	distribution := make(map[int16]int)
	timedCount := 0
	timedTotal := 0
	minSpent := 0
	for _, a := range answers {
		distribution[a.UserAnswer]++
		if a.TimeSpentSeconds > 0 {
			timedTotal += a.TimeSpentSeconds
			timedCount++
			if minSpent == 0 || a.TimeSpentSeconds < minSpent {
				minSpent = a.TimeSpentSeconds
			}
		}
	}

	maxCount := 0
	for _, n := range distribution {
		if n > maxCount {
			maxCount = n
		}
	}
	total := float64(len(answers))
	report.SameAnswerRatio = float64(maxCount) / total
	report.YesRatio = float64(distribution[model.AnswerAgree]) / total
	report.MinTimeSpent = minSpent
	if timedCount > 0 {
		report.AvgTimeSpent = float64(timedTotal) / float64(timedCount)
	}

	if report.SameAnswerRatio >= s.cfg.FraudSameAnswerTolerance {
		report.Flags = append(report.Flags, model.FraudFlag{
			Code:     model.FraudSameAnswers,
			Severity: model.FraudSeverityHigh,
			Message:  fmt.Sprintf("%.1f%% jawaban bernilai sama", report.SameAnswerRatio*100),
		})
	}
	if report.YesRatio < s.cfg.FraudMinYesRatio {
		report.Flags = append(report.Flags, model.FraudFlag{
			Code:     model.FraudInsufficientYes,
			Severity: model.FraudSeverityMedium,
			Message:  fmt.Sprintf("hanya %.1f%% jawaban setuju", report.YesRatio*100),
		})
	}
	if timedCount > 0 && report.AvgTimeSpent < s.cfg.FraudMinAvgSeconds {
		report.Flags = append(report.Flags, model.FraudFlag{
			Code:     model.FraudTimeTooFast,
			Severity: model.FraudSeverityMedium,
			Message:  fmt.Sprintf("rata-rata %.1f detik per pertanyaan", report.AvgTimeSpent),
		})
	}

	return report, nil
}

// ValidateUserLimits is the standalone eligibility pre-flight. It delegates
// to the same implementation CreateExam uses, threshold side effects
// included.
func (s *ExamValidatorService) ValidateUserLimits(ctx context.Context, userID int64, kind model.ExamKind) (*model.UserLimits, error) {
	return s.limits.CheckEligibility(ctx, userID, kind)
}
