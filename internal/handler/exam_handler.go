package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/middleware"
	"github.com/karirlab/arahkarir-backend/internal/model"
	"github.com/karirlab/arahkarir-backend/internal/response"
	"github.com/karirlab/arahkarir-backend/internal/service"
	"github.com/karirlab/arahkarir-backend/internal/validator"
)

// ExamHandler handles the assessment exam endpoints.
type ExamHandler struct {
	generator *service.ExamGeneratorService
	session   *service.ExamSessionService
	validator *service.ExamValidatorService
	log       zerolog.Logger
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(
	generator *service.ExamGeneratorService,
	session *service.ExamSessionService,
	examValidator *service.ExamValidatorService,
	log zerolog.Logger,
) *ExamHandler {
	return &ExamHandler{
		generator: generator,
		session:   session,
		validator: examValidator,
		log:       log.With().Str("component", "exam_handler").Logger(),
	}
}

// CreateExam godoc
// POST /api/v1/exams
// Generates a new balanced assessment exam for the authenticated user.
func (h *ExamHandler) CreateExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.generator.CreateExam(c.Request.Context(), claims.UserID, req.Kind, req.ForceNew, c.ClientIP())
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetExamPaper godoc
// GET /api/v1/exams/:exam_id/paper
// Returns the question payload of an open exam.
func (h *ExamHandler) GetExamPaper(c *gin.Context) {
	claims, examID, ok := h.claimsAndExamID(c)
	if !ok {
		return
	}

	questions, err := h.session.GetExamPaper(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer godoc
// POST /api/v1/exams/:exam_id/answers
// Records one answer. The first answer starts the exam.
func (h *ExamHandler) SubmitAnswer(c *gin.Context) {
	claims, examID, ok := h.claimsAndExamID(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.session.SubmitAnswer(c.Request.Context(), examID, claims.UserID, req.QuestionID, *req.Answer, req.TimeSpent)
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// GetCompletion godoc
// GET /api/v1/exams/:exam_id/completion
// Returns answer progress for the exam.
func (h *ExamHandler) GetCompletion(c *gin.Context) {
	claims, examID, ok := h.claimsAndExamID(c)
	if !ok {
		return
	}

	info, err := h.session.GetCompletionStatus(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, info)
}

// FinalizeExam godoc
// POST /api/v1/exams/:exam_id/finalize
// Completes a fully answered exam and returns the integrity report.
func (h *ExamHandler) FinalizeExam(c *gin.Context) {
	claims, examID, ok := h.claimsAndExamID(c)
	if !ok {
		return
	}

	report, err := h.session.FinalizeExam(c.Request.Context(), examID, claims.UserID)
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status": string(model.ExamStatusCompleted),
		"report": report,
	})
}

// GetEligibility godoc
// GET /api/v1/eligibility?exam_kind=FREE|PAID
// Pre-flight eligibility check. Threshold side effects apply here exactly as
// they do on creation.
func (h *ExamHandler) GetEligibility(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	kind := model.ExamKind(c.DefaultQuery("exam_kind", string(model.ExamKindFree)))
	if !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	lim, err := h.validator.ValidateUserLimits(c.Request.Context(), claims.UserID, kind)
	if err != nil {
		h.failDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"eligible":   true,
		"exam_kind":  kind,
		"violations": lim.ViolationsFor(kind),
	})
}

// claimsAndExamID extracts the authenticated claims and the :exam_id path
// param, writing the error response itself on failure.
func (h *ExamHandler) claimsAndExamID(c *gin.Context) (*service.Claims, int64, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, 0, false
	}

	examID, err := strconv.ParseInt(c.Param("exam_id"), 10, 64)
	if err != nil || examID < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, 0, false
	}

	return claims, examID, true
}

// failDomainError translates service-layer errors into the API error
// envelope, attaching structured details where the client can act on them.
func (h *ExamHandler) failDomainError(c *gin.Context, err error) {
	var (
		statusErr     *service.ExamStatusError
		inProgressErr *service.ExamAlreadyInProgressError
		bankErr       *service.InsufficientQuestionBankError
		tempLockErr   *service.TemporarilyLockedError
		permLockErr   *service.PermanentlyLockedError
		freeLockErr   *service.FreeExamLimitLockedError
		revokedErr    *service.PaidExamAccessRevokedError
		incompleteErr *service.ExamIncompleteError
	)

	switch {
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotExamOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrUserInactive):
		response.Fail(c, http.StatusForbidden, response.ErrUserInactive)
	case errors.Is(err, service.ErrExamTimedOut):
		response.Fail(c, http.StatusConflict, response.ErrExamTimedOut)
	case errors.Is(err, service.ErrExamNotOpen):
		response.Fail(c, http.StatusConflict, response.ErrExamNotOpen)
	case errors.Is(err, service.ErrQuestionNotInExam):
		response.Fail(c, http.StatusBadRequest, response.ErrQuestionNotInExam)
	case errors.Is(err, service.ErrQuestionInactive):
		response.Fail(c, http.StatusConflict, response.ErrQuestionInactive)
	case errors.Is(err, service.ErrInvalidAnswerValue):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)

	case errors.As(err, &statusErr):
		response.FailWithDetails(c, http.StatusConflict, response.ErrExamNotOpen, gin.H{
			"status": statusErr.Status,
		})
	case errors.As(err, &inProgressErr):
		response.FailWithDetails(c, http.StatusConflict, response.ErrExamAlreadyInProgress, gin.H{
			"exam_code": inProgressErr.ExamCode,
		})
	case errors.As(err, &bankErr):
		response.FailWithDetails(c, http.StatusServiceUnavailable, response.ErrInsufficientBank, gin.H{
			"category":  bankErr.Category,
			"required":  bankErr.Required,
			"available": bankErr.Available,
		})
	case errors.As(err, &tempLockErr):
		response.FailWithDetails(c, http.StatusForbidden, response.ErrTemporarilyLocked, gin.H{
			"lock_until": tempLockErr.Until.Format(time.RFC3339),
			"reason":     tempLockErr.Reason,
		})
	case errors.As(err, &permLockErr):
		response.FailWithDetails(c, http.StatusForbidden, response.ErrPermanentlyLocked, gin.H{
			"reason": permLockErr.Reason,
		})
	case errors.As(err, &freeLockErr):
		response.FailWithDetails(c, http.StatusForbidden, response.ErrFreeExamLimitLocked, gin.H{
			"lock_until": freeLockErr.Until.Format(time.RFC3339),
			"violations": freeLockErr.Violations,
		})
	case errors.As(err, &revokedErr):
		response.FailWithDetails(c, http.StatusForbidden, response.ErrPaidExamAccessRevoked, gin.H{
			"reason":     revokedErr.Reason,
			"violations": revokedErr.Violations,
		})
	case errors.As(err, &incompleteErr):
		response.FailWithDetails(c, http.StatusConflict, response.ErrExamIncomplete, gin.H{
			"answered": incompleteErr.Answered,
			"total":    incompleteErr.Total,
		})

	default:
		h.log.Error().Err(err).Msg("Unhandled exam error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
