package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nhatminh-le/prepquest/internal/dto"
	"github.com/nhatminh-le/prepquest/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// CreateQuestion godoc
// @Summary (Admin) Create a question in the question bank
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	question, err := c.questionService.CreateQuestion(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OK(question))
}

// CreateDemoQuestion godoc
// @Summary (Admin) Create a question in the demo bank
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.APIResponse{data=dto.QuestionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/demo-questions [post]
func (c *QuestionController) CreateDemoQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateDemoQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.Error("Invalid request body", err.Error()))
		return
	}
	question, err := c.questionService.CreateDemoQuestion(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.OK(question))
}

// ListQuestions godoc
// @Summary (Admin) List bank questions, optionally filtered
// @Tags Admin - Questions
// @Produce json
// @Param subject_id query string false "Filter by subject"
// @Param chapter_id query string false "Filter by chapter"
// @Success 200 {object} dto.APIResponse{data=[]dto.QuestionResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Query("subject_id"), ctx.Query("chapter_id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(questions))
}

func respondError(ctx *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		ctx.JSON(http.StatusBadRequest, dto.Error(vErr.Reason))
		return
	}
	log.Error().Err(err).Msg("Admin questions: unexpected service error")
	ctx.JSON(http.StatusInternalServerError, dto.Error("Unexpected server error"))
}
