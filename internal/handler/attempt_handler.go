package handler

import (
	"errors"
	"net/http"

	"github.com/Ramandaygy/tutor-app/internal/assessment"
	"github.com/Ramandaygy/tutor-app/internal/middleware"
	"github.com/Ramandaygy/tutor-app/internal/model"
	"github.com/Ramandaygy/tutor-app/internal/response"
	"github.com/Ramandaygy/tutor-app/internal/service"
	"github.com/Ramandaygy/tutor-app/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AttemptHandler handles attempt lifecycle endpoints: start, navigation,
// answering, completion and the post-completion views.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// failFromError maps domain errors onto the API's typed error codes.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTryoutNotAvailable):
		response.Fail(c, http.StatusBadRequest, response.ErrTryoutNotAvailable)
	case errors.Is(err, service.ErrInvalidAccessCode):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidAccessCode)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrNotAttemptOwner):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrAttemptNotCompleted):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, assessment.ErrOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrOutOfRange)
	case errors.Is(err, assessment.ErrSessionClosed):
		response.Fail(c, http.StatusConflict, response.ErrSessionClosed)
	case errors.Is(err, assessment.ErrInvalidCatalog):
		response.Fail(c, http.StatusConflict, response.ErrInvalidCatalog)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// attemptParams pulls the authenticated student and the attempt ID out of
// the request, failing the request itself when either is missing.
func attemptParams(c *gin.Context) (uuid.UUID, int, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return uuid.Nil, 0, false
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, 0, false
	}
	return attemptID, claims.StudentID, true
}

// StartAttempt godoc
// POST /api/v1/portal/tryouts/:tryout_id/start
// Starts the student's attempt, or resumes the existing one (idempotent).
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	tryoutID, err := uuid.Parse(c.Param("tryout_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), claims.StudentID, tryoutID, req.AccessCode)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// ListMyAttempts godoc
// GET /api/v1/portal/attempts
// Returns the student's attempt history, newest first.
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempts, err := h.attemptService.ListByStudent(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// GetActiveAttempt godoc
// GET /api/v1/portal/attempts/active
// Returns the student's in-progress attempt for resuming, 404 when none.
func (h *AttemptHandler) GetActiveAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attempt, err := h.attemptService.ActiveAttempt(c.Request.Context(), claims.StudentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// GetPaper godoc
// GET /api/v1/portal/attempts/:attempt_id/paper
// Returns the question payload for the attempt. Answers never ride along.
func (h *AttemptHandler) GetPaper(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	paper, err := h.attemptService.Paper(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, paper)
}

// GetState godoc
// GET /api/v1/portal/attempts/:attempt_id/state
// Returns the resumable state: position, answers, marks, locks, clock.
// This endpoint covers the page reload.
func (h *AttemptHandler) GetState(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	state, err := h.attemptService.State(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// GoTo godoc
// POST /api/v1/portal/attempts/:attempt_id/goto
func (h *AttemptHandler) GoTo(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	var req model.PositionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.GoTo(c.Request.Context(), attemptID, studentID, req.Position); err != nil {
		failFromError(c, err)
		return
	}
	h.respondState(c, attemptID, studentID)
}

// Next godoc
// POST /api/v1/portal/attempts/:attempt_id/next
func (h *AttemptHandler) Next(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	if err := h.attemptService.Next(c.Request.Context(), attemptID, studentID); err != nil {
		failFromError(c, err)
		return
	}
	h.respondState(c, attemptID, studentID)
}

// Prev godoc
// POST /api/v1/portal/attempts/:attempt_id/prev
func (h *AttemptHandler) Prev(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	if err := h.attemptService.Prev(c.Request.Context(), attemptID, studentID); err != nil {
		failFromError(c, err)
		return
	}
	h.respondState(c, attemptID, studentID)
}

// ToggleMark godoc
// POST /api/v1/portal/attempts/:attempt_id/mark
func (h *AttemptHandler) ToggleMark(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	var req model.PositionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.ToggleMark(c.Request.Context(), attemptID, studentID, req.Position); err != nil {
		failFromError(c, err)
		return
	}
	h.respondState(c, attemptID, studentID)
}

// SubmitAnswer godoc
// POST /api/v1/portal/attempts/:attempt_id/answer
// Records an answer. On a locked question this succeeds without changing
// anything, mirroring the disabled control the student sees.
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attemptService.SubmitAnswer(c.Request.Context(), attemptID, studentID, req.Position, req.Value); err != nil {
		failFromError(c, err)
		return
	}
	h.respondState(c, attemptID, studentID)
}

// Finish godoc
// POST /api/v1/portal/attempts/:attempt_id/finish
// Completes the attempt and returns the score summary.
func (h *AttemptHandler) Finish(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	summary, err := h.attemptService.Finish(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// GetResult godoc
// GET /api/v1/portal/attempts/:attempt_id/result
func (h *AttemptHandler) GetResult(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	summary, err := h.attemptService.Result(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// GetReview godoc
// GET /api/v1/portal/attempts/:attempt_id/review
// Returns per-question verdicts. Only available after completion.
func (h *AttemptHandler) GetReview(c *gin.Context) {
	attemptID, studentID, ok := attemptParams(c)
	if !ok {
		return
	}

	verdicts, err := h.attemptService.Review(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verdicts": verdicts})
}

func (h *AttemptHandler) respondState(c *gin.Context, attemptID uuid.UUID, studentID int) {
	state, err := h.attemptService.State(c.Request.Context(), attemptID, studentID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, state)
}
