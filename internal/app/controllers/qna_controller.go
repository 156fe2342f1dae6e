package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/qnaboard/internal/app/models/dto"
	"github.com/yigit/qnaboard/internal/app/services"
	"github.com/yigit/qnaboard/internal/middleware"
	"github.com/yigit/qnaboard/internal/pkg/helpers"
)

// QnAController handles question and answer endpoints
type QnAController struct {
	qnaService *services.QnAService
	logger     zerolog.Logger
}

// NewQnAController creates a new QnAController
func NewQnAController(qnaService *services.QnAService, logger zerolog.Logger) *QnAController {
	return &QnAController{
		qnaService: qnaService,
		logger:     logger,
	}
}

// ListQuestions lists one page of a department or course board
// @Summary List questions of a department or course
// @Description Returns 10 questions per page, latest first, each with all of its answers embedded. A "/" in the name is sent as "!".
// @Tags questions
// @Produce json
// @Param type path string true "Scope type" Enums(department, course)
// @Param name path string true "Department or course name, \"/\" written as \"!\""
// @Param page query int false "Page number (1-based)" default(1)
// @Success 200 {object} dto.APIResponse{data=dto.QuestionListResponse} "Questions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid scope type or page"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /boards/{type}/{name} [get]
func (c *QnAController) ListQuestions(ctx *gin.Context) {
	page, err := helpers.ParsePageParam(ctx.Query("page"), helpers.DefaultPage)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.qnaService.ListQuestions(ctx.Request.Context(), ctx.Param("type"), ctx.Param("name"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetQuestionDetail returns a question with its answers
// @Summary Get question detail
// @Description Returns the question with course and department embedded, and its answers oldest first
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.QuestionDetailResponse} "Question retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{id} [get]
func (c *QnAController) GetQuestionDetail(ctx *gin.Context) {
	questionID, ok := parseUUIDParam(ctx, "id", "Invalid question ID")
	if !ok {
		return
	}
	email, _ := middleware.ActingEmail(ctx)

	resp, err := c.qnaService.GetQuestionDetail(ctx.Request.Context(), questionID, email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// CreateQuestion posts a new question
// @Summary Create a question
// @Description Creates a question written by the caller. courseName is optional and must match an existing course.
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=models.QuestionView} "Question created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [post]
func (c *QnAController) CreateQuestion(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}

	var req dto.CreateQuestionRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	question, err := c.qnaService.CreateQuestion(ctx.Request.Context(), email, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(question))
}

// CreateAnswer posts an answer to a question
// @Summary Answer a question
// @Tags answers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID" Format(uuid)
// @Param request body dto.CreateAnswerRequest true "Answer"
// @Success 201 {object} dto.APIResponse{data=models.Answer} "Answer created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{id}/answers [post]
func (c *QnAController) CreateAnswer(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}
	questionID, ok := parseUUIDParam(ctx, "id", "Invalid question ID")
	if !ok {
		return
	}

	var req dto.CreateAnswerRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	answer, err := c.qnaService.CreateAnswer(ctx.Request.Context(), questionID, email, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(answer))
}

// Recommend adds the caller to an answer's recommenders
// @Summary Recommend an answer
// @Description The writer of an answer cannot recommend it
// @Tags answers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Answer ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Recommendation recorded"
// @Failure 400 {object} dto.ErrorResponse "Self-recommendation or invalid answer ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Answer or user not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /answers/{id}/recommend [post]
func (c *QnAController) Recommend(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}
	answerID, ok := parseUUIDParam(ctx, "id", "Invalid answer ID")
	if !ok {
		return
	}

	if _, err := c.qnaService.Recommend(ctx.Request.Context(), answerID, email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "success"}))
}

// ListMyQuestions lists the caller's questions
// @Summary List my questions
// @Description Latest first, each with its answer count
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param perPage query int false "Page size, at most 100" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.MyQuestionsResponse} "Questions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/questions [get]
func (c *QnAController) ListMyQuestions(ctx *gin.Context) {
	email, page, perPage, ok := c.mineParams(ctx)
	if !ok {
		return
	}

	resp, err := c.qnaService.ListMyQuestions(ctx.Request.Context(), email, page, perPage)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// ListMyAnswers lists the caller's answers
// @Summary List my answers
// @Description Latest first, each with its question, course and department embedded
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param perPage query int false "Page size, at most 100" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.MyAnswersResponse} "Answers retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid pagination parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /me/answers [get]
func (c *QnAController) ListMyAnswers(ctx *gin.Context) {
	email, page, perPage, ok := c.mineParams(ctx)
	if !ok {
		return
	}

	resp, err := c.qnaService.ListMyAnswers(ctx.Request.Context(), email, page, perPage)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

func (c *QnAController) mineParams(ctx *gin.Context) (email string, page, perPage int, ok bool) {
	if email, ok = requireEmail(ctx); !ok {
		return "", 0, 0, false
	}

	page, err := helpers.ParsePageParam(ctx.Query("page"), helpers.DefaultPage)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", 0, 0, false
	}
	perPage, err = helpers.ParsePerPageParam(ctx.Query("perPage"), helpers.DefaultPageSize, c.qnaService.MaxPerPage())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", 0, 0, false
	}

	return email, page, perPage, true
}

// requireEmail reads the caller identity set by the auth middleware
func requireEmail(ctx *gin.Context) (string, bool) {
	email, ok := middleware.ActingEmail(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("User information not found")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return "", false
	}
	return email, true
}

func parseUUIDParam(ctx *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).
			WithField(name).
			WithDetails("ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
