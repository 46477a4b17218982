package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

const (
	freeExamInstructions = "Tes minat bakat gratis terdiri dari 30 pernyataan. " +
		"Pilih jawaban yang paling menggambarkan diri Anda: Setuju, Netral, atau Tidak Setuju. " +
		"Tidak ada jawaban benar atau salah."
	paidExamInstructions = "Tes minat bakat lengkap terdiri dari 120 pernyataan. " +
		"Pilih jawaban yang paling menggambarkan diri Anda: Setuju, Netral, atau Tidak Setuju. " +
		"Jawablah dengan jujur; pola jawaban yang tidak wajar dapat membatalkan hasil tes."
)

// ExamGeneratorService assembles new assessment exams: eligibility gating,
// category-balanced random question selection and transactional persistence
// of the exam with its answer slots.
type ExamGeneratorService struct {
	exams     ExamStore
	questions QuestionPool
	limits    *UserLimitsService
	cache     PayloadCache
	cfg       *config.Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewExamGeneratorService creates a new ExamGeneratorService.
func NewExamGeneratorService(exams ExamStore, questions QuestionPool, limits *UserLimitsService, cache PayloadCache, cfg *config.Config, log zerolog.Logger) *ExamGeneratorService {
	return &ExamGeneratorService{
		exams:     exams,
		questions: questions,
		limits:    limits,
		cache:     cache,
		cfg:       cfg,
		log:       log.With().Str("component", "exam_generator").Logger(),
		now:       time.Now,
	}
}

// CreateExam creates a new exam for the user. forceNew destroys any open
// exam first; otherwise an open exam blocks creation unless its time limit
// has already elapsed, in which case it is moved to TIMEOUT and no longer
// blocks.
func (s *ExamGeneratorService) CreateExam(ctx context.Context, userID int64, kind model.ExamKind, forceNew bool, ip string) (*model.ExamCreationResult, error) {
	if forceNew {
		deleted, err := s.exams.DeleteOpenByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("delete open exams: %w", err)
		}
		if deleted > 0 {
			s.log.Info().
				Int64("user_id", userID).
				Int64("deleted", deleted).
				Msg("Open exams destroyed by force-new")
		}
	}

	if _, err := s.limits.CheckEligibility(ctx, userID, kind); err != nil {
		return nil, err
	}

	if !forceNew {
		if err := s.checkOpenExam(ctx, userID); err != nil {
			return nil, err
		}
	}

	selected, err := s.assembleQuestions(ctx, kind)
	if err != nil {
		return nil, err
	}

	paid := kind == model.ExamKindPaid
	exam := &model.Exam{
		UserID:           userID,
		Kind:             kind,
		Status:           model.ExamStatusDraft,
		TotalQuestions:   len(selected),
		TimeLimitMinutes: s.cfg.TimeLimitMinutes(paid),
		StartTime:        s.now(),
		IPAddress:        ip,
	}

	questionIDs := make([]int64, len(selected))
	for i, q := range selected {
		questionIDs[i] = q.ID
	}
	if err := s.exams.CreateWithAnswers(ctx, exam, questionIDs); err != nil {
		return nil, fmt.Errorf("persist exam: %w", err)
	}

	result := &model.ExamCreationResult{
		ExamID:           exam.ID,
		ExamCode:         exam.ExamCode,
		Kind:             kind,
		TotalQuestions:   exam.TotalQuestions,
		TimeLimitMinutes: exam.TimeLimitMinutes,
		Instructions:     instructionsFor(kind),
		Questions:        s.buildPayload(selected),
	}

	s.cachePayload(ctx, exam.ID, result.Questions)

	s.log.Info().
		Int64("user_id", userID).
		Str("exam_code", exam.ExamCode).
		Str("exam_kind", string(kind)).
		Int("total_questions", exam.TotalQuestions).
		Msg("Exam created")

	return result, nil
}

// checkOpenExam fails with ExamAlreadyInProgressError when the user has an
// open exam. A stale timed exam is transitioned to TIMEOUT instead and stops
// blocking.
func (s *ExamGeneratorService) checkOpenExam(ctx context.Context, userID int64) error {
	open, err := s.exams.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("find open exam: %w", err)
	}

	if deadline, ok := open.Deadline(); ok && !s.now().Before(deadline) {
		if err := s.exams.UpdateStatus(ctx, open.ID, model.ExamStatusTimeout); err != nil {
			return fmt.Errorf("mark stale exam timed out: %w", err)
		}
		s.log.Info().
			Str("exam_code", open.ExamCode).
			Msg("Stale open exam timed out during eligibility check")
		return nil
	}

	return &ExamAlreadyInProgressError{ExamCode: open.ExamCode}
}

// assembleQuestions draws the per-category quota from each of the six
// RIASEC categories and interleaves the result with a full shuffle. Any
// short category aborts the whole assembly.
func (s *ExamGeneratorService) assembleQuestions(ctx context.Context, kind model.ExamKind) ([]model.Question, error) {
	perCategory := s.cfg.QuestionsPerCategory(kind == model.ExamKindPaid)

	selected := make([]model.Question, 0, perCategory*len(model.HollandCategories))
	for _, category := range model.HollandCategories {
		questions, err := s.questions.GetRandomActive(ctx, category, perCategory)
		if err != nil {
			return nil, fmt.Errorf("draw category %s: %w", category, err)
		}
		if len(questions) < perCategory {
			available, err := s.questions.CountActiveByCategory(ctx, category)
			if err != nil {
				available = len(questions)
			}
			return nil, &InsufficientQuestionBankError{
				Category:  category,
				Required:  perCategory,
				Available: available,
			}
		}
		selected = append(selected, questions...)
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	return selected, nil
}

// buildPayload formats the shuffled questions for delivery. The RIASEC
// category is withheld unless the debug flag is on.
func (s *ExamGeneratorService) buildPayload(selected []model.Question) []model.ExamQuestionPayload {
	payload := make([]model.ExamQuestionPayload, len(selected))
	for i, q := range selected {
		payload[i] = model.ExamQuestionPayload{
			QuestionID:   q.ID,
			Sequence:     i + 1,
			QuestionText: q.QuestionText,
			Choices:      model.AnswerChoices(),
		}
		if s.cfg.DebugExposeCategory {
			payload[i].Category = q.Category
		}
	}
	return payload
}

// cachePayload stores the delivery payload in Redis. Failures only log; the
// paper endpoint rebuilds from the store on a miss.
func (s *ExamGeneratorService) cachePayload(ctx context.Context, examID int64, questions []model.ExamQuestionPayload) {
	data, err := json.Marshal(questions)
	if err != nil {
		s.log.Error().Err(err).Int64("exam_id", examID).Msg("Marshal payload failed")
		return
	}
	if err := s.cache.Set(ctx, examID, data); err != nil {
		s.log.Warn().Err(err).Int64("exam_id", examID).Msg("Cache payload failed")
	}
}

func instructionsFor(kind model.ExamKind) string {
	if kind == model.ExamKindPaid {
		return paidExamInstructions
	}
	return freeExamInstructions
}
