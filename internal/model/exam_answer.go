package model

import "time"

// ExamAnswer is one answer slot of an exam, keyed by (exam_id, question_id).
// The question set of an exam is fixed at creation; only UserAnswer,
// AnswerTime and TimeSpentSeconds mutate afterwards.
type ExamAnswer struct {
	ExamID           int64      `json:"exam_id"`
	QuestionID       int64      `json:"question_id"`
	Sequence         int        `json:"sequence"`
	UserAnswer       int16      `json:"user_answer"` // -1 = unanswered
	AnswerTime       *time.Time `json:"answer_time,omitempty"`
	TimeSpentSeconds int        `json:"time_spent"`
}

// Answered reports whether the slot holds a submitted answer.
func (a *ExamAnswer) Answered() bool {
	return a.UserAnswer >= AnswerDisagree
}
