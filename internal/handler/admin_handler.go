package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/model"
	"github.com/karirlab/arahkarir-backend/internal/response"
	"github.com/karirlab/arahkarir-backend/internal/service"
)

// AdminHandler handles the administrative surface: limits inspection,
// lock resets and exam cancellation.
type AdminHandler struct {
	limits  *service.UserLimitsService
	session *service.ExamSessionService
	log     zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(limits *service.UserLimitsService, session *service.ExamSessionService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		limits:  limits,
		session: session,
		log:     log.With().Str("component", "admin_handler").Logger(),
	}
}

// GetUserLimits godoc
// GET /api/v1/admin/users/:user_id/limits
// Returns a user's violation counters and lock state.
func (h *AdminHandler) GetUserLimits(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	lim, err := h.limits.GetLimits(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, lim)
}

// ClearUserLock godoc
// POST /api/v1/admin/users/:user_id/clear-lock
// Removes a time-bounded lock so the user can retry.
func (h *AdminHandler) ClearUserLock(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.limits.ClearLock(c.Request.Context(), userID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "cleared"})
}

// CancelExam godoc
// POST /api/v1/admin/exams/:exam_id/cancel
// Moves an open exam to CANCELLED.
func (h *AdminHandler) CancelExam(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	if err := h.session.CancelExam(c.Request.Context(), examID); err != nil {
		switch err {
		case service.ErrExamNotFound:
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case service.ErrExamNotOpen:
			response.Fail(c, http.StatusConflict, response.ErrExamNotOpen)
		default:
			h.log.Error().Err(err).Int64("exam_id", examID).Msg("Cancel exam failed")
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": string(model.ExamStatusCancelled)})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
