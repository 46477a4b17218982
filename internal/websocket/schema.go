package websocket

import "github.com/karirlab/arahkarir-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer Action = "answer"
	ActionState  Action = "state"
	ActionPing   Action = "ping"
)

// RequestPayload carries every client message; fields beyond Action are
// only read for the answer action.
type RequestPayload struct {
	Action     Action `json:"action"`
	QuestionID int64  `json:"question_id,omitempty"`
	Answer     *int16 `json:"answer,omitempty"`
	TimeSpent  int    `json:"time_spent,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventAnswered Event = "answered"
	EventState    Event = "state"
	EventTimeout  Event = "timeout"
	EventPong     Event = "pong"
)

type AnsweredResponse struct {
	Event      Event `json:"event"`
	QuestionID int64 `json:"question_id"`
}

type StateResponse struct {
	Event Event            `json:"event"`
	State *model.ExamState `json:"state"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
