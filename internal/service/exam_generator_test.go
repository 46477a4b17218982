package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

type generatorEnv struct {
	exams     *fakeExamStore
	pool      *fakeQuestionPool
	limits    *fakeLimitsStore
	users     *fakeUserStore
	cache     *fakePayloadCache
	cfg       *config.Config
	generator *ExamGeneratorService
}

func newGeneratorEnv(t *testing.T, bankPerCategory int) *generatorEnv {
	t.Helper()
	env := &generatorEnv{
		exams:  newFakeExamStore(),
		pool:   newFakeQuestionPool(bankPerCategory),
		limits: newFakeLimitsStore(),
		users:  newFakeUserStore(activeUser(1)),
		cache:  newFakePayloadCache(),
		cfg:    testConfig(),
	}
	limitsService := NewUserLimitsService(env.limits, env.users, env.cfg, testLogger())
	env.generator = NewExamGeneratorService(env.exams, env.pool, limitsService, env.cache, env.cfg, testLogger())
	return env
}

func TestCreateExamFree(t *testing.T) {
	env := newGeneratorEnv(t, 25)

	result, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "10.0.0.1")
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	if result.TotalQuestions != 30 {
		t.Errorf("TotalQuestions = %d, want 30", result.TotalQuestions)
	}
	if len(result.Questions) != 30 {
		t.Errorf("len(Questions) = %d, want 30", len(result.Questions))
	}
	if !strings.HasPrefix(result.ExamCode, "EX") {
		t.Errorf("ExamCode = %q, want EX prefix", result.ExamCode)
	}
	if result.Instructions == "" {
		t.Error("Instructions is empty")
	}

	// Category must be withheld outside debug mode.
	for _, q := range result.Questions {
		if q.Category != "" {
			t.Fatalf("question %d leaks category %q", q.QuestionID, q.Category)
		}
		if len(q.Choices) != 3 {
			t.Fatalf("question %d has %d choices, want 3", q.QuestionID, len(q.Choices))
		}
	}

	// No duplicate questions.
	seen := make(map[int64]bool)
	for _, q := range result.Questions {
		if seen[q.QuestionID] {
			t.Fatalf("question %d selected twice", q.QuestionID)
		}
		seen[q.QuestionID] = true
	}

	// Payload must be cached.
	if _, err := env.cache.Get(context.Background(), result.ExamID); err != nil {
		t.Errorf("payload not cached: %v", err)
	}
}

func TestCreateExamPaidCounts(t *testing.T) {
	env := newGeneratorEnv(t, 25)

	result, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindPaid, false, "")
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}
	if result.TotalQuestions != 120 {
		t.Errorf("TotalQuestions = %d, want 120", result.TotalQuestions)
	}
	if len(result.Questions) != 120 {
		t.Errorf("len(Questions) = %d, want 120", len(result.Questions))
	}
}

func TestCreateExamBalancedPerCategory(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	env.cfg.DebugExposeCategory = true

	result, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	counts := make(map[model.HollandCategory]int)
	for _, q := range result.Questions {
		counts[q.Category]++
	}
	for _, cat := range model.HollandCategories {
		if counts[cat] != 5 {
			t.Errorf("category %s has %d questions, want 5", cat, counts[cat])
		}
	}
}

func TestCreateExamInsufficientBank(t *testing.T) {
	env := newGeneratorEnv(t, 3) // fewer than the 5 required per category

	_, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	var bankErr *InsufficientQuestionBankError
	if !errors.As(err, &bankErr) {
		t.Fatalf("err = %v, want InsufficientQuestionBankError", err)
	}
	if bankErr.Required != 5 || bankErr.Available != 3 {
		t.Errorf("required/available = %d/%d, want 5/3", bankErr.Required, bankErr.Available)
	}

	// Nothing persisted.
	if len(env.exams.exams) != 0 {
		t.Errorf("%d exams persisted, want 0", len(env.exams.exams))
	}
}

func TestCreateExamBlockedByOpenExam(t *testing.T) {
	env := newGeneratorEnv(t, 25)

	first, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("first CreateExam: %v", err)
	}

	_, err = env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	var inProgress *ExamAlreadyInProgressError
	if !errors.As(err, &inProgress) {
		t.Fatalf("err = %v, want ExamAlreadyInProgressError", err)
	}
	if inProgress.ExamCode != first.ExamCode {
		t.Errorf("ExamCode = %q, want %q", inProgress.ExamCode, first.ExamCode)
	}
}

func TestCreateExamForceNewDestroysOpenExam(t *testing.T) {
	env := newGeneratorEnv(t, 25)

	first, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("first CreateExam: %v", err)
	}

	second, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, true, "")
	if err != nil {
		t.Fatalf("force-new CreateExam: %v", err)
	}

	if _, ok := env.exams.exams[first.ExamID]; ok {
		t.Error("first exam still exists after force-new")
	}
	if _, ok := env.exams.exams[second.ExamID]; !ok {
		t.Error("second exam not persisted")
	}
}

func TestCreateExamStaleTimedExamStopsBlocking(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	env.cfg.FreeTimeLimitMinutes = 30

	first, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("first CreateExam: %v", err)
	}

	// Pretend the open exam started an hour ago.
	env.exams.exams[first.ExamID].StartTime = time.Now().Add(-time.Hour)

	second, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("second CreateExam after stale timeout: %v", err)
	}

	if got := env.exams.exams[first.ExamID].Status; got != model.ExamStatusTimeout {
		t.Errorf("first exam status = %s, want TIMEOUT", got)
	}
	if second.ExamID == first.ExamID {
		t.Error("second exam reused the stale exam")
	}
}

func TestCreateExamRejectsLockedUser(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	until := time.Now().Add(time.Hour)
	env.limits.rows[1] = &model.UserLimits{UserID: 1, LockUntil: &until, LockReason: "uji coba"}

	_, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	var lockErr *TemporarilyLockedError
	if !errors.As(err, &lockErr) {
		t.Fatalf("err = %v, want TemporarilyLockedError", err)
	}
}

func TestCreateExamFreeViolationThresholdLocks(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	env.limits.rows[1] = &model.UserLimits{UserID: 1, FreeExamViolations: 2}

	_, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	var lockErr *FreeExamLimitLockedError
	if !errors.As(err, &lockErr) {
		t.Fatalf("err = %v, want FreeExamLimitLockedError", err)
	}

	// Side effect must be committed: the lock is now on the row.
	row := env.limits.rows[1]
	if row.LockUntil == nil {
		t.Fatal("lock not applied to limits row")
	}
	remaining := time.Until(*row.LockUntil)
	if remaining < 11*time.Hour || remaining > 13*time.Hour {
		t.Errorf("lock duration = %v, want about 12h", remaining)
	}
}

func TestCreateExamPaidViolationThresholdRevokes(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	env.limits.rows[1] = &model.UserLimits{UserID: 1, PaidExamViolations: 3}

	_, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindPaid, false, "")
	var revokedErr *PaidExamAccessRevokedError
	if !errors.As(err, &revokedErr) {
		t.Fatalf("err = %v, want PaidExamAccessRevokedError", err)
	}

	if !env.limits.rows[1].AccessRevoked {
		t.Error("revocation not committed to limits row")
	}

	// FREE access is unaffected by PAID revocation.
	if _, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, ""); err != nil {
		t.Errorf("FREE exam after PAID revocation: %v", err)
	}
}

func TestCreateExamInactiveUser(t *testing.T) {
	env := newGeneratorEnv(t, 25)
	env.users.users[1].IsActive = false

	_, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("err = %v, want ErrUserInactive", err)
	}
}

func TestCreateExamAnswerSlotsMatchQuestions(t *testing.T) {
	env := newGeneratorEnv(t, 25)

	result, err := env.generator.CreateExam(context.Background(), 1, model.ExamKindFree, false, "")
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	slots := env.exams.questionsByE[result.ExamID]
	if len(slots) != len(result.Questions) {
		t.Fatalf("%d answer slots, want %d", len(slots), len(result.Questions))
	}
	for i, q := range result.Questions {
		if slots[i] != q.QuestionID {
			t.Fatalf("slot %d holds question %d, payload has %d", i, slots[i], q.QuestionID)
		}
	}
}
