package model

// FraudFlagCode identifies one fraud signal over an exam's answers.
type FraudFlagCode string

const (
	FraudSameAnswers     FraudFlagCode = "SAME_ANSWERS"
	FraudInsufficientYes FraudFlagCode = "INSUFFICIENT_YES"
	FraudTimeTooFast     FraudFlagCode = "TIME_TOO_FAST"
)

// FraudSeverity ranks a fraud flag.
type FraudSeverity string

const (
	FraudSeverityHigh   FraudSeverity = "HIGH"
	FraudSeverityMedium FraudSeverity = "MEDIUM"
)

// FraudFlag is a single raised signal with its severity.
type FraudFlag struct {
	Code     FraudFlagCode `json:"code"`
	Severity FraudSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// FraudReport aggregates the fraud signals computed over the answered rows
// of an exam. An empty Flags slice means no signal was raised. The report
// itself mutates nothing; translating flags into a violation happens in the
// finalize path.
type FraudReport struct {
	TotalAnswered   int         `json:"total_answered"`
	SameAnswerRatio float64     `json:"same_answer_ratio"`
	YesRatio        float64     `json:"yes_ratio"`
	AvgTimeSpent    float64     `json:"avg_time_spent"`
	MinTimeSpent    int         `json:"min_time_spent"`
	Flags           []FraudFlag `json:"flags"`
}

// Suspicious reports whether any flag was raised.
func (r *FraudReport) Suspicious() bool {
	return len(r.Flags) > 0
}
