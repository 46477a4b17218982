package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

// In-memory fakes of the store interfaces. They mirror the repository
// contracts: pgx.ErrNoRows for absence, redis.Nil for cache misses.

func testConfig() *config.Config {
	return &config.Config{
		FreeQuestionsPerCategory: 5,
		PaidQuestionsPerCategory: 20,
		FreeTimeLimitMinutes:     0,
		PaidTimeLimitMinutes:     0,
		FreeViolationLimit:       2,
		PaidViolationLimit:       3,
		FreeLockDuration:         12 * time.Hour,
		ExamCodeMaxAttempts:      5,
		FraudSameAnswerTolerance: 0.9,
		FraudMinYesRatio:         0.1,
		FraudMinAvgSeconds:       2.0,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// ─── fakeExamStore ──────────────────────────────────────────────────

type fakeExamStore struct {
	exams        map[int64]*model.Exam
	questionsByE map[int64][]int64
	nextID       int64
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{
		exams:        make(map[int64]*model.Exam),
		questionsByE: make(map[int64][]int64),
		nextID:       1,
	}
}

func (s *fakeExamStore) GetByID(_ context.Context, id int64) (*model.Exam, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (s *fakeExamStore) FindOpenByUser(_ context.Context, userID int64) (*model.Exam, error) {
	for _, e := range s.exams {
		if e.UserID == userID && e.Status.IsOpen() {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *fakeExamStore) CreateWithAnswers(_ context.Context, e *model.Exam, questionIDs []int64) error {
	for _, existing := range s.exams {
		if existing.UserID == e.UserID && existing.Status.IsOpen() {
			return fmt.Errorf("duplicate open exam for user %d", e.UserID)
		}
	}
	e.ID = s.nextID
	s.nextID++
	e.ExamCode = model.NewExamCode(time.Now())
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	s.exams[e.ID] = &cp
	s.questionsByE[e.ID] = append([]int64(nil), questionIDs...)
	return nil
}

func (s *fakeExamStore) DeleteOpenByUser(_ context.Context, userID int64) (int64, error) {
	var n int64
	for id, e := range s.exams {
		if e.UserID == userID && e.Status.IsOpen() {
			delete(s.exams, id)
			delete(s.questionsByE, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeExamStore) UpdateStatus(_ context.Context, id int64, status model.ExamStatus) error {
	e, ok := s.exams[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}

// ─── fakeAnswerStore ────────────────────────────────────────────────

type fakeAnswerStore struct {
	slots     map[int64][]*model.ExamAnswer // by exam, in sequence order
	questions map[int64]*model.Question
}

func newFakeAnswerStore() *fakeAnswerStore {
	return &fakeAnswerStore{
		slots:     make(map[int64][]*model.ExamAnswer),
		questions: make(map[int64]*model.Question),
	}
}

// seedExam creates unanswered slots for the given question IDs, registering
// active questions for each.
func (s *fakeAnswerStore) seedExam(examID int64, questionIDs []int64) {
	for i, qid := range questionIDs {
		s.slots[examID] = append(s.slots[examID], &model.ExamAnswer{
			ExamID:     examID,
			QuestionID: qid,
			Sequence:   i + 1,
			UserAnswer: model.AnswerUnanswered,
		})
		if _, ok := s.questions[qid]; !ok {
			s.questions[qid] = &model.Question{
				ID:           qid,
				QuestionText: fmt.Sprintf("pernyataan %d", qid),
				Category:     model.HollandCategories[int(qid)%len(model.HollandCategories)],
				IsActive:     true,
			}
		}
	}
}

func (s *fakeAnswerStore) find(examID, questionID int64) *model.ExamAnswer {
	for _, a := range s.slots[examID] {
		if a.QuestionID == questionID {
			return a
		}
	}
	return nil
}

func (s *fakeAnswerStore) GetWithQuestion(_ context.Context, examID, questionID int64) (*model.ExamAnswer, *model.Question, error) {
	a := s.find(examID, questionID)
	if a == nil {
		return nil, nil, pgx.ErrNoRows
	}
	q, ok := s.questions[questionID]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	ac, qc := *a, *q
	return &ac, &qc, nil
}

func (s *fakeAnswerStore) UpdateAnswer(_ context.Context, examID, questionID int64, value int16, timeSpentSeconds int) error {
	a := s.find(examID, questionID)
	if a == nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	a.UserAnswer = value
	a.AnswerTime = &now
	a.TimeSpentSeconds = timeSpentSeconds
	return nil
}

func (s *fakeAnswerStore) CompletionCounts(_ context.Context, examID int64) (total, answered int, err error) {
	for _, a := range s.slots[examID] {
		total++
		if a.Answered() {
			answered++
		}
	}
	return total, answered, nil
}

func (s *fakeAnswerStore) ListAnswered(_ context.Context, examID int64) ([]model.ExamAnswer, error) {
	var out []model.ExamAnswer
	for _, a := range s.slots[examID] {
		if a.Answered() {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeAnswerStore) ListExamQuestions(_ context.Context, examID int64) ([]model.ExamQuestionPayload, error) {
	var out []model.ExamQuestionPayload
	for _, a := range s.slots[examID] {
		q := s.questions[a.QuestionID]
		out = append(out, model.ExamQuestionPayload{
			QuestionID:   a.QuestionID,
			Sequence:     a.Sequence,
			QuestionText: q.QuestionText,
			Category:     q.Category,
		})
	}
	return out, nil
}

// ─── fakeQuestionPool ───────────────────────────────────────────────

type fakeQuestionPool struct {
	byCategory map[model.HollandCategory][]model.Question
}

// newFakeQuestionPool builds a bank with perCategory active questions in
// every RIASEC category.
func newFakeQuestionPool(perCategory int) *fakeQuestionPool {
	p := &fakeQuestionPool{byCategory: make(map[model.HollandCategory][]model.Question)}
	id := int64(1)
	for _, cat := range model.HollandCategories {
		for i := 0; i < perCategory; i++ {
			p.byCategory[cat] = append(p.byCategory[cat], model.Question{
				ID:           id,
				QuestionText: fmt.Sprintf("pernyataan %s %d", cat, i+1),
				Category:     cat,
				IsActive:     true,
			})
			id++
		}
	}
	return p
}

func (p *fakeQuestionPool) GetRandomActive(_ context.Context, category model.HollandCategory, count int) ([]model.Question, error) {
	qs := p.byCategory[category]
	if len(qs) > count {
		qs = qs[:count]
	}
	return append([]model.Question(nil), qs...), nil
}

func (p *fakeQuestionPool) CountActiveByCategory(_ context.Context, category model.HollandCategory) (int, error) {
	return len(p.byCategory[category]), nil
}

// ─── fakeLimitsStore ────────────────────────────────────────────────

type fakeLimitsStore struct {
	rows map[int64]*model.UserLimits
}

func newFakeLimitsStore() *fakeLimitsStore {
	return &fakeLimitsStore{rows: make(map[int64]*model.UserLimits)}
}

func (s *fakeLimitsStore) GetOrCreate(_ context.Context, userID int64) (*model.UserLimits, error) {
	l, ok := s.rows[userID]
	if !ok {
		l = &model.UserLimits{UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		s.rows[userID] = l
	}
	cp := *l
	return &cp, nil
}

func (s *fakeLimitsStore) IncrementViolation(_ context.Context, userID int64, kind model.ExamKind) (int, error) {
	l, ok := s.rows[userID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	if kind == model.ExamKindPaid {
		l.PaidExamViolations++
		return l.PaidExamViolations, nil
	}
	l.FreeExamViolations++
	return l.FreeExamViolations, nil
}

func (s *fakeLimitsStore) ApplyLock(_ context.Context, userID int64, until time.Time, reason string) error {
	l, ok := s.rows[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	l.LockUntil = &until
	l.LockReason = reason
	return nil
}

func (s *fakeLimitsStore) Revoke(_ context.Context, userID int64, reason string) error {
	l, ok := s.rows[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	if !l.AccessRevoked {
		now := time.Now()
		l.AccessRevoked = true
		l.RevokeReason = reason
		l.RevokedAt = &now
	}
	return nil
}

func (s *fakeLimitsStore) ClearLock(_ context.Context, userID int64) error {
	l, ok := s.rows[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	l.LockUntil = nil
	l.LockReason = ""
	return nil
}

// ─── fakeUserStore ──────────────────────────────────────────────────

type fakeUserStore struct {
	users map[int64]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[int64]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// ─── fakePayloadCache ───────────────────────────────────────────────

type fakePayloadCache struct {
	data map[int64][]byte
}

func newFakePayloadCache() *fakePayloadCache {
	return &fakePayloadCache{data: make(map[int64][]byte)}
}

func (c *fakePayloadCache) Set(_ context.Context, examID int64, payload []byte) error {
	c.data[examID] = append([]byte(nil), payload...)
	return nil
}

func (c *fakePayloadCache) Get(_ context.Context, examID int64) ([]byte, error) {
	p, ok := c.data[examID]
	if !ok {
		return nil, redis.Nil
	}
	return p, nil
}

func (c *fakePayloadCache) Delete(_ context.Context, examID int64) error {
	delete(c.data, examID)
	return nil
}

// activeUser returns an active non-admin user for tests.
func activeUser(id int64) *model.User {
	return &model.User{
		ID:       id,
		Name:     fmt.Sprintf("User %d", id),
		Email:    fmt.Sprintf("user%d@example.com", id),
		IsActive: true,
	}
}
