package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/middleware"
	"github.com/karirlab/arahkarir-backend/internal/model"
	"github.com/karirlab/arahkarir-backend/internal/service"
	ws "github.com/karirlab/arahkarir-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket exam stream: live answering plus state
// snapshots with the remaining time.
type WSHandler struct {
	session  *service.ExamSessionService
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(session *service.ExamSessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		session:  session,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ExamStream godoc
// WS /ws/v1/exams/:exam_id/stream
// Upgrades to WebSocket for live answering and progress snapshots.
func (h *WSHandler) ExamStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil || examID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exam ID"})
		return
	}

	// Ownership and open-status check before the upgrade.
	state, err := h.session.GetExamState(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no open exam for this user"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int64("user_id", claims.UserID).
		Str("exam_code", state.ExamCode).
		Logger()

	wsLog.Info().Msg("Exam stream connected")
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: state})

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionAnswer:
			h.handleAnswer(conn, wsLog, examID, claims.UserID, &msg)
		case ws.ActionState:
			h.handleState(conn, wsLog, examID, claims.UserID)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleAnswer records one answer received over the stream.
func (h *WSHandler) handleAnswer(conn *websocket.Conn, wsLog zerolog.Logger, examID, userID int64, msg *ws.RequestPayload) {
	ctx := context.Background()

	if msg.QuestionID < 1 || msg.Answer == nil {
		ws.WriteError(conn, "question_id and answer are required")
		return
	}

	err := h.session.SubmitAnswer(ctx, examID, userID, msg.QuestionID, *msg.Answer, msg.TimeSpent)
	if err != nil {
		if errors.Is(err, service.ErrExamTimedOut) {
			ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventTimeout, State: &model.ExamState{
				ExamID: examID,
				Status: model.ExamStatusTimeout,
			}})
			return
		}
		wsLog.Warn().Err(err).Int64("question_id", msg.QuestionID).Msg("Answer rejected")
		ws.WriteError(conn, err.Error())
		return
	}

	ws.WriteTyped(conn, ws.AnsweredResponse{Event: ws.EventAnswered, QuestionID: msg.QuestionID})
}

// handleState sends a fresh state snapshot.
func (h *WSHandler) handleState(conn *websocket.Conn, wsLog zerolog.Logger, examID, userID int64) {
	state, err := h.session.GetExamState(context.Background(), examID, userID)
	if err != nil {
		if errors.Is(err, service.ErrExamTimedOut) {
			ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventTimeout, State: &model.ExamState{
				ExamID: examID,
				Status: model.ExamStatusTimeout,
			}})
			return
		}
		wsLog.Warn().Err(err).Msg("State snapshot failed")
		ws.WriteError(conn, "state unavailable")
		return
	}
	ws.WriteTyped(conn, ws.StateResponse{Event: ws.EventState, State: state})
}
