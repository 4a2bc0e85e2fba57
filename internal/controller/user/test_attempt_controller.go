package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/nhatminh-le/prepquest/internal/service"
	"github.com/rs/zerolog/log"
)

type TestAttemptController struct {
	attemptService service.TestAttemptService
}

func NewTestAttemptController(attemptService service.TestAttemptService) *TestAttemptController {
	return &TestAttemptController{attemptService: attemptService}
}

// CreateAttempt godoc
// @Summary Start a new practice test attempt
// @Description Creates an attempt bound to a fixed, ordered list of question ids. total_questions must equal the number of question ids.
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.CreateAttemptRequest true "Attempt creation data"
// @Success 201 {object} dto.APIResponse{data=dto.AttemptResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/create [post]
func (c *TestAttemptController) CreateAttempt(ctx *gin.Context) {
	var req dto.CreateAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	attempt, err := c.attemptService.Create(req)
	if err != nil {
		respondError(ctx, err, "CreateAttempt")
		return
	}
	ctx.JSON(http.StatusCreated, dto.OK(attempt))
}

// ListAttempts godoc
// @Summary List all test attempts, newest first
// @Tags Test Attempts
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.AttemptResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/list [get]
func (c *TestAttemptController) ListAttempts(ctx *gin.Context) {
	attempts, err := c.attemptService.List()
	if err != nil {
		respondError(ctx, err, "ListAttempts")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(attempts))
}

// GetAttemptDetail godoc
// @Summary Get an attempt with hydrated question content
// @Description Resolves the attempt's question ids against the question bank, then the demo bank, preserving question order. Unresolved ids are omitted.
// @Tags Test Attempts
// @Produce json
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptDetailResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid attempt ID format"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/getDetail/{id} [get]
func (c *TestAttemptController) GetAttemptDetail(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("id"))
	if !ok {
		return
	}
	detail, err := c.attemptService.GetDetail(attemptID)
	if err != nil {
		respondError(ctx, err, "GetAttemptDetail")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(detail))
}

// SaveAnswer godoc
// @Summary Save one answer on an in-progress attempt
// @Description Upserts the per-question entry by question id. Aggregate counts are recomputed only when is_correct is provided.
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param answer body dto.SaveAnswerRequest true "Answer patch"
// @Success 200 {object} dto.APIResponse{data=dto.QuestionStateResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or attempt already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/questions/answer/{attemptId} [patch]
func (c *TestAttemptController) SaveAnswer(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("attemptId"))
	if !ok {
		return
	}
	var req dto.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveAnswer: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	state, err := c.attemptService.SaveAnswer(attemptID, req)
	if err != nil {
		respondError(ctx, err, "SaveAnswer")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(state))
}

// BulkSaveAnswers godoc
// @Summary Save a batch of answers on an in-progress attempt
// @Description Upserts every submitted answer, marks each as answered and recomputes the aggregate counts.
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param answers body dto.BulkSaveAnswersRequest true "Answers"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreSummaryResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or attempt already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/questions/bulk/{attemptId} [patch]
func (c *TestAttemptController) BulkSaveAnswers(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("attemptId"))
	if !ok {
		return
	}
	var req dto.BulkSaveAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("BulkSaveAnswers: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	summary, err := c.attemptService.BulkSaveAnswers(attemptID, req)
	if err != nil {
		respondError(ctx, err, "BulkSaveAnswers")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(summary))
}

// SaveNote godoc
// @Summary Save a note on one question of an in-progress attempt
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param questionId path string true "Question ID"
// @Param note body dto.SaveNoteRequest true "Note text (may be empty)"
// @Success 200 {object} dto.APIResponse{data=string}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or attempt already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/questions/note/{attemptId}/{questionId} [patch]
func (c *TestAttemptController) SaveNote(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("attemptId"))
	if !ok {
		return
	}
	var req dto.SaveNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveNote: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	note, err := c.attemptService.SaveNote(attemptID, ctx.Param("questionId"), req)
	if err != nil {
		respondError(ctx, err, "SaveNote")
		return
	}
	ctx.JSON(http.StatusOK, dto.OKWithMessage("Note saved", note))
}

// SaveMark godoc
// @Summary Mark or unmark one question of an in-progress attempt
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param questionId path string true "Question ID"
// @Param mark body dto.SaveMarkRequest true "Mark flag"
// @Success 200 {object} dto.APIResponse{data=bool}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or attempt already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/questions/mark/{attemptId}/{questionId} [patch]
func (c *TestAttemptController) SaveMark(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("attemptId"))
	if !ok {
		return
	}
	var req dto.SaveMarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SaveMark: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	marked, err := c.attemptService.SaveMark(attemptID, ctx.Param("questionId"), req)
	if err != nil {
		respondError(ctx, err, "SaveMark")
		return
	}
	ctx.JSON(http.StatusOK, dto.OKWithMessage("Mark saved", marked))
}

// CompleteAttempt godoc
// @Summary Complete an attempt, merging the submitted per-question snapshot
// @Description Merges the submitted entries over the server-held state (submitted fields win), preserves untouched entries, recomputes the aggregates and sets the terminal status.
// @Tags Test Attempts
// @Accept json
// @Produce json
// @Param attemptId path string true "Attempt ID"
// @Param completion body dto.CompleteAttemptRequest true "Final counts and per-question snapshot"
// @Success 200 {object} dto.APIResponse{data=dto.AttemptResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input or re-completion disabled"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test-attempts/complete/{attemptId} [patch]
func (c *TestAttemptController) CompleteAttempt(ctx *gin.Context) {
	attemptID, ok := parseAttemptID(ctx, ctx.Param("attemptId"))
	if !ok {
		return
	}
	var req dto.CompleteAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CompleteAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	attempt, err := c.attemptService.Complete(attemptID, req)
	if err != nil {
		respondError(ctx, err, "CompleteAttempt")
		return
	}
	ctx.JSON(http.StatusOK, dto.OKWithMessage("Test attempt completed", attempt))
}

func parseAttemptID(ctx *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid attempt ID format"))
		return uuid.Nil, false
	}
	return id, true
}

func respondError(ctx *gin.Context, err error, op string) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		ctx.JSON(http.StatusNotFound, dto.Error(service.ErrAttemptNotFound.Error()))
	case errors.Is(err, service.ErrAttemptCompleted):
		ctx.JSON(http.StatusBadRequest, dto.Error(service.ErrAttemptCompleted.Error()))
	case errors.As(err, &vErr):
		ctx.JSON(http.StatusBadRequest, dto.Error(vErr.Reason))
	default:
		log.Error().Err(err).Str("op", op).Msg("Unexpected service error")
		ctx.JSON(http.StatusInternalServerError, dto.Error("Unexpected server error"))
	}
}
