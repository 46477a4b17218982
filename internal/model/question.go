package model

import "time"

// HollandCategory is one of the six RIASEC personality codes.
type HollandCategory string

const (
	CategoryRealistic     HollandCategory = "R"
	CategoryInvestigative HollandCategory = "I"
	CategoryArtistic      HollandCategory = "A"
	CategorySocial        HollandCategory = "S"
	CategoryEnterprising  HollandCategory = "E"
	CategoryConventional  HollandCategory = "C"
)

// HollandCategories lists all six codes in canonical order. Every question
// bank draw and every balanced exam iterates this slice.
var HollandCategories = []HollandCategory{
	CategoryRealistic,
	CategoryInvestigative,
	CategoryArtistic,
	CategorySocial,
	CategoryEnterprising,
	CategoryConventional,
}

// Valid reports whether c is one of the six RIASEC codes.
func (c HollandCategory) Valid() bool {
	switch c {
	case CategoryRealistic, CategoryInvestigative, CategoryArtistic,
		CategorySocial, CategoryEnterprising, CategoryConventional:
		return true
	}
	return false
}

// Question is a single statement from the RIASEC question bank. The bank is
// owned by the content-management side; this service only reads active rows.
type Question struct {
	ID           int64           `json:"id"`
	QuestionText string          `json:"question_text"`
	Category     HollandCategory `json:"category"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Answer scale. Every question shares the same fixed 3-choice Likert scale.
const (
	AnswerUnanswered int16 = -1
	AnswerDisagree   int16 = 0
	AnswerNeutral    int16 = 1
	AnswerAgree      int16 = 2
)

// AnswerChoice is one option of the fixed answer scale as delivered to clients.
type AnswerChoice struct {
	Value int16  `json:"value"`
	Label string `json:"label"`
}

// AnswerChoices returns the fixed 3-choice scale shared by all questions.
func AnswerChoices() []AnswerChoice {
	return []AnswerChoice{
		{Value: AnswerDisagree, Label: "Tidak Setuju"},
		{Value: AnswerNeutral, Label: "Netral"},
		{Value: AnswerAgree, Label: "Setuju"},
	}
}

// ValidAnswerValue reports whether v is a submittable answer (the scale,
// excluding the unanswered sentinel).
func ValidAnswerValue(v int16) bool {
	return v >= AnswerDisagree && v <= AnswerAgree
}
