package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
	"github.com/surveyforge/surveyforge_backend/internal/services"
)

// SurveyHandler handles survey authoring endpoints
// #INTEGRATION_POINT: The owner dashboard uses these endpoints to build surveys
type SurveyHandler struct {
	surveyService services.SurveyService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveyService services.SurveyService) *SurveyHandler {
	return &SurveyHandler{
		surveyService: surveyService,
	}
}

// PaginatedSurveysResponse represents paginated surveys
type PaginatedSurveysResponse struct {
	Items      []models.Survey `json:"items"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// ReorderQuestionsRequest maps question ids to their new order_index
type ReorderQuestionsRequest struct {
	Orders map[string]int `json:"orders" binding:"required"`
}

// QuestionsResponse wraps a question list
type QuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// CreateSurvey handles POST /api/v1/surveys
// @Summary Create a survey
// @Description Creates a new unpublished survey owned by the caller
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateSurveyRequest true "Create request"
// @Success 201 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /surveys [post]
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	var req services.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Title is required",
		})
		return
	}

	survey, err := h.surveyService.CreateSurvey(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create survey")
		return
	}

	c.JSON(http.StatusCreated, survey)
}

// ListSurveys handles GET /api/v1/surveys
// @Summary List surveys
// @Description Lists the caller's surveys
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param sort_by query string false "Sort field" default(created_at)
// @Param sort_dir query string false "asc or desc" default(desc)
// @Success 200 {object} PaginatedSurveysResponse
// @Failure 401 {object} ErrorResponse
// @Router /surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}

	result, err := h.surveyService.ListSurveys(c.Request.Context(), userID, paginationFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to list surveys")
		return
	}

	items := result.Items
	if items == nil {
		items = []models.Survey{}
	}

	c.JSON(http.StatusOK, PaginatedSurveysResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// GetSurvey handles GET /api/v1/surveys/:id
// @Summary Get survey
// @Description Gets a survey with its questions, including correct answers
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} services.SurveyWithQuestions
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	result, err := h.surveyService.GetSurveyWithQuestions(c.Request.Context(), surveyID, userID)
	if err != nil {
		respondError(c, err, "Failed to get survey")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateSurvey handles PATCH /api/v1/surveys/:id
// @Summary Update survey
// @Description Updates title, description or settings
// @Tags Surveys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.UpdateSurveyRequest true "Update request"
// @Success 200 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [patch]
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	var req services.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	survey, err := h.surveyService.UpdateSurvey(c.Request.Context(), surveyID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update survey")
		return
	}

	c.JSON(http.StatusOK, survey)
}

// DeleteSurvey handles DELETE /api/v1/surveys/:id
// @Summary Delete survey
// @Description Deletes a survey with its questions, responses and answers
// @Tags Surveys
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), surveyID, userID); err != nil {
		respondError(c, err, "Failed to delete survey")
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishSurvey handles POST /api/v1/surveys/:id/publish
// @Summary Publish survey
// @Description Opens the survey to respondents
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/publish [post]
func (h *SurveyHandler) PublishSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	survey, err := h.surveyService.PublishSurvey(c.Request.Context(), surveyID, userID)
	if err != nil {
		respondError(c, err, "Failed to publish survey")
		return
	}

	c.JSON(http.StatusOK, survey)
}

// UnpublishSurvey handles POST /api/v1/surveys/:id/unpublish
// @Summary Unpublish survey
// @Description Closes the survey to new sessions
// @Tags Surveys
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} models.Survey
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /surveys/{id}/unpublish [post]
func (h *SurveyHandler) UnpublishSurvey(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	survey, err := h.surveyService.UnpublishSurvey(c.Request.Context(), surveyID, userID)
	if err != nil {
		respondError(c, err, "Failed to unpublish survey")
		return
	}

	c.JSON(http.StatusOK, survey)
}

// AddQuestion handles POST /api/v1/surveys/:id/questions
// @Summary Add question
// @Description Adds a question; without order_index it is appended
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body services.CreateQuestionRequest true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/questions [post]
func (h *SurveyHandler) AddQuestion(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "question_text and question_type are required",
		})
		return
	}

	question, err := h.surveyService.AddQuestion(c.Request.Context(), surveyID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to add question")
		return
	}

	c.JSON(http.StatusCreated, question)
}

// ReorderQuestions handles PUT /api/v1/surveys/:id/question-order
// @Summary Reorder questions
// @Description Assigns new order_index values; every skip-logic rule must stay valid
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param request body ReorderQuestionsRequest true "New order"
// @Success 200 {object} QuestionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/question-order [put]
func (h *SurveyHandler) ReorderQuestions(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	var req ReorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "orders is required",
		})
		return
	}

	questions, err := h.surveyService.ReorderQuestions(c.Request.Context(), surveyID, userID, req.Orders)
	if err != nil {
		respondError(c, err, "Failed to reorder questions")
		return
	}

	c.JSON(http.StatusOK, QuestionsResponse{Questions: questions})
}

// UpdateQuestion handles PATCH /api/v1/questions/:id
// @Summary Update question
// @Description Updates a question; skip logic is revalidated against its survey
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Param request body services.UpdateQuestionRequest true "Update request"
// @Success 200 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [patch]
func (h *SurveyHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	questionID, ok := objectIDParam(c, "id", "question")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
		return
	}

	question, err := h.surveyService.UpdateQuestion(c.Request.Context(), questionID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update question")
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion handles DELETE /api/v1/questions/:id
// @Summary Delete question
// @Description Deletes a question not referenced by other questions' skip logic
// @Tags Questions
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	questionID, ok := objectIDParam(c, "id", "question")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteQuestion(c.Request.Context(), questionID, userID); err != nil {
		respondError(c, err, "Failed to delete question")
		return
	}

	c.Status(http.StatusNoContent)
}

// paginationFromQuery reads page, limit, sort_by and sort_dir
func paginationFromQuery(c *gin.Context) repository.PaginationOptions {
	opts := repository.DefaultPaginationOptions()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		opts.Limit = limit
	}
	if sortBy := c.Query("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}
	if sortDir := c.Query("sort_dir"); sortDir == "asc" {
		opts.SortDir = 1
	}
	return opts
}

// RegisterRoutes registers survey authoring routes
func (h *SurveyHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	surveys := rg.Group("/surveys", authMiddleware)
	{
		surveys.POST("", h.CreateSurvey)
		surveys.GET("", h.ListSurveys)
		surveys.GET("/:id", h.GetSurvey)
		surveys.PATCH("/:id", h.UpdateSurvey)
		surveys.DELETE("/:id", h.DeleteSurvey)
		surveys.POST("/:id/publish", h.PublishSurvey)
		surveys.POST("/:id/unpublish", h.UnpublishSurvey)
		surveys.POST("/:id/questions", h.AddQuestion)
		surveys.PUT("/:id/question-order", h.ReorderQuestions)
	}

	questions := rg.Group("/questions", authMiddleware)
	{
		questions.PATCH("/:id", h.UpdateQuestion)
		questions.DELETE("/:id", h.DeleteQuestion)
	}
}
