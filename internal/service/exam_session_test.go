package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

type sessionEnv struct {
	exams   *fakeExamStore
	answers *fakeAnswerStore
	limits  *fakeLimitsStore
	users   *fakeUserStore
	cache   *fakePayloadCache
	cfg     *config.Config
	session *ExamSessionService
}

func newSessionEnv(t *testing.T) *sessionEnv {
	t.Helper()
	env := &sessionEnv{
		exams:   newFakeExamStore(),
		answers: newFakeAnswerStore(),
		limits:  newFakeLimitsStore(),
		users:   newFakeUserStore(activeUser(1)),
		cache:   newFakePayloadCache(),
		cfg:     testConfig(),
	}
	limitsService := NewUserLimitsService(env.limits, env.users, env.cfg, testLogger())
	validatorService := NewExamValidatorService(env.exams, env.answers, limitsService, env.cfg, testLogger())
	env.session = NewExamSessionService(env.exams, env.answers, validatorService, limitsService, env.cache, testLogger())
	return env
}

func (env *sessionEnv) seedExam(t *testing.T, userID int64, kind model.ExamKind, n int) *model.Exam {
	t.Helper()
	exam := &model.Exam{
		UserID:         userID,
		Kind:           kind,
		Status:         model.ExamStatusDraft,
		TotalQuestions: n,
		StartTime:      time.Now(),
	}
	questionIDs := make([]int64, n)
	for i := range questionIDs {
		questionIDs[i] = int64(i + 1)
	}
	if err := env.exams.CreateWithAnswers(context.Background(), exam, questionIDs); err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	env.answers.seedExam(exam.ID, questionIDs)
	return exam
}

func (env *sessionEnv) answerAll(t *testing.T, examID int64, n int, secondsEach int) {
	t.Helper()
	ctx := context.Background()
	for i := int64(1); i <= int64(n); i++ {
		v := model.AnswerAgree
		if i%3 == 0 {
			v = model.AnswerDisagree
		} else if i%3 == 1 {
			v = model.AnswerNeutral
		}
		if err := env.session.SubmitAnswer(ctx, examID, 1, i, v, secondsEach); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}
}

func TestSubmitAnswerStartsDraftExam(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 6)
	ctx := context.Background()

	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerAgree, 5); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusInProgress {
		t.Errorf("status after first answer = %s, want IN_PROGRESS", got)
	}

	// Re-answering the same question overwrites the slot, not the status.
	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerDisagree, 3); err != nil {
		t.Fatalf("re-answer: %v", err)
	}
	slot := env.answers.find(exam.ID, 1)
	if slot.UserAnswer != model.AnswerDisagree {
		t.Errorf("slot value = %d, want %d", slot.UserAnswer, model.AnswerDisagree)
	}
}

func TestSubmitAnswerRejections(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 3)
	ctx := context.Background()

	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 1, 7, 5); !errors.Is(err, ErrInvalidAnswerValue) {
		t.Errorf("out-of-scale err = %v, want ErrInvalidAnswerValue", err)
	}
	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerUnanswered, 5); !errors.Is(err, ErrInvalidAnswerValue) {
		t.Errorf("unanswered sentinel err = %v, want ErrInvalidAnswerValue", err)
	}
	if err := env.session.SubmitAnswer(ctx, exam.ID, 2, 1, model.AnswerAgree, 5); !errors.Is(err, ErrNotExamOwner) {
		t.Errorf("foreign user err = %v, want ErrNotExamOwner", err)
	}
	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 99, model.AnswerAgree, 5); !errors.Is(err, ErrQuestionNotInExam) {
		t.Errorf("foreign question err = %v, want ErrQuestionNotInExam", err)
	}

	env.exams.exams[exam.ID].Status = model.ExamStatusCompleted
	var statusErr *ExamStatusError
	if err := env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerAgree, 5); !errors.As(err, &statusErr) {
		t.Errorf("completed exam err = %v, want ExamStatusError", err)
	}
}

func TestSubmitAnswerTimedOutExam(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 3)
	env.exams.exams[exam.ID].TimeLimitMinutes = 10
	env.exams.exams[exam.ID].StartTime = time.Now().Add(-time.Hour)

	err := env.session.SubmitAnswer(context.Background(), exam.ID, 1, 1, model.AnswerAgree, 5)
	if !errors.Is(err, ErrExamTimedOut) {
		t.Fatalf("err = %v, want ErrExamTimedOut", err)
	}
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusTimeout {
		t.Errorf("status = %s, want TIMEOUT", got)
	}
}

func TestFinalizeExamIncomplete(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 6)
	ctx := context.Background()

	env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerAgree, 5)

	_, err := env.session.FinalizeExam(ctx, exam.ID, 1)
	var incomplete *ExamIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("err = %v, want ExamIncompleteError", err)
	}
	if incomplete.Answered != 1 || incomplete.Total != 6 {
		t.Errorf("answered/total = %d/%d, want 1/6", incomplete.Answered, incomplete.Total)
	}
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS after failed finalize", got)
	}
}

func TestFinalizeExamHonest(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 6)
	ctx := context.Background()

	env.answerAll(t, exam.ID, 6, 6)

	report, err := env.session.FinalizeExam(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("FinalizeExam: %v", err)
	}
	if report.Suspicious() {
		t.Errorf("honest exam flagged: %v", report.Flags)
	}
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", got)
	}
	if env.limits.rows[1] != nil && env.limits.rows[1].FreeExamViolations != 0 {
		t.Errorf("violations = %d, want 0", env.limits.rows[1].FreeExamViolations)
	}
}

func TestFinalizeExamFraudRecordsOneViolation(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 6)
	ctx := context.Background()

	// All identical and fast: multiple flags, still one violation.
	for i := int64(1); i <= 6; i++ {
		if err := env.session.SubmitAnswer(ctx, exam.ID, 1, i, model.AnswerNeutral, 1); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
	}

	report, err := env.session.FinalizeExam(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("FinalizeExam: %v", err)
	}
	if len(report.Flags) < 2 {
		t.Fatalf("flags = %v, want at least SAME_ANSWERS and TIME_TOO_FAST", report.Flags)
	}

	// The exam completes despite the flags.
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", got)
	}
	if got := env.limits.rows[1].FreeExamViolations; got != 1 {
		t.Errorf("violations = %d, want exactly 1", got)
	}
	if got := env.limits.rows[1].PaidExamViolations; got != 0 {
		t.Errorf("paid violations = %d, want 0", got)
	}
}

func TestFinalizeExamDropsCachedPayload(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 3)
	ctx := context.Background()

	env.cache.Set(ctx, exam.ID, []byte(`[]`))
	env.answerAll(t, exam.ID, 3, 6)

	if _, err := env.session.FinalizeExam(ctx, exam.ID, 1); err != nil {
		t.Fatalf("FinalizeExam: %v", err)
	}
	if _, err := env.cache.Get(ctx, exam.ID); err == nil {
		t.Error("payload cache entry survived finalize")
	}
}

func TestGetCompletionStatus(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 4)
	ctx := context.Background()

	env.session.SubmitAnswer(ctx, exam.ID, 1, 1, model.AnswerAgree, 5)

	info, err := env.session.GetCompletionStatus(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("GetCompletionStatus: %v", err)
	}
	if info.Answered != 1 || info.TotalQuestions != 4 || info.IsComplete {
		t.Errorf("got %+v, want 1/4 incomplete", info)
	}

	if _, err := env.session.GetCompletionStatus(ctx, exam.ID, 2); !errors.Is(err, ErrNotExamOwner) {
		t.Errorf("foreign user err = %v, want ErrNotExamOwner", err)
	}
}

func TestGetExamPaperRebuildsOnCacheMiss(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 3)
	ctx := context.Background()

	questions, err := env.session.GetExamPaper(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("GetExamPaper: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("len(questions) = %d, want 3", len(questions))
	}
	for _, q := range questions {
		if q.Category != "" {
			t.Fatalf("question %d leaks category %q", q.QuestionID, q.Category)
		}
		if len(q.Choices) != 3 {
			t.Fatalf("question %d has %d choices, want 3", q.QuestionID, len(q.Choices))
		}
	}

	// The rebuild refills the cache.
	if _, err := env.cache.Get(ctx, exam.ID); err != nil {
		t.Errorf("cache not refilled: %v", err)
	}

	// Second read is served from cache.
	again, err := env.session.GetExamPaper(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("second GetExamPaper: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("cached read len = %d, want 3", len(again))
	}
}

func TestGetExamState(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 4)
	ctx := context.Background()

	env.session.SubmitAnswer(ctx, exam.ID, 1, 2, model.AnswerNeutral, 5)

	state, err := env.session.GetExamState(ctx, exam.ID, 1)
	if err != nil {
		t.Fatalf("GetExamState: %v", err)
	}
	if state.Answered != 1 || state.TotalQuestions != 4 {
		t.Errorf("answered/total = %d/%d, want 1/4", state.Answered, state.TotalQuestions)
	}
	if !state.Unlimited {
		t.Error("untimed exam should report unlimited")
	}
	if state.Status != model.ExamStatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", state.Status)
	}
}

func TestCancelExam(t *testing.T) {
	env := newSessionEnv(t)
	exam := env.seedExam(t, 1, model.ExamKindFree, 3)
	ctx := context.Background()

	env.cache.Set(ctx, exam.ID, []byte(`[]`))

	if err := env.session.CancelExam(ctx, exam.ID); err != nil {
		t.Fatalf("CancelExam: %v", err)
	}
	if got := env.exams.exams[exam.ID].Status; got != model.ExamStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", got)
	}
	if _, err := env.cache.Get(ctx, exam.ID); err == nil {
		t.Error("payload cache entry survived cancel")
	}

	// Terminal exams cannot be cancelled again.
	if err := env.session.CancelExam(ctx, exam.ID); !errors.Is(err, ErrExamNotOpen) {
		t.Errorf("second cancel err = %v, want ErrExamNotOpen", err)
	}
	if err := env.session.CancelExam(ctx, 999); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("missing exam err = %v, want ErrExamNotFound", err)
	}
}
