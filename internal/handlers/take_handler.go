package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/surveyforge_backend/internal/middleware"
	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/services"
	"github.com/surveyforge/surveyforge_backend/internal/session"
)

// RespondentKeyHeader carries the respondent's saved-progress key between sessions
const RespondentKeyHeader = "X-Respondent-Key"

// TakeHandler handles the public survey-taking endpoints
// #INTEGRATION_POINT: The take page drives one session through these endpoints
// #SECURITY_CONCERN: Unauthenticated; protected by the per-IP rate limiter
type TakeHandler struct {
	takeService services.TakeService
}

// NewTakeHandler creates a new take handler
func NewTakeHandler(takeService services.TakeService) *TakeHandler {
	return &TakeHandler{
		takeService: takeService,
	}
}

// SetAnswerRequest carries one answer. The value's JSON shape follows the question type.
type SetAnswerRequest struct {
	Value models.AnswerValue `json:"value" swaggertype:"object"`
}

// SubmitRequest carries respondent metadata
type SubmitRequest struct {
	RespondentEmail string `json:"respondent_email,omitempty"`
}

// AnswerErrorResponse is returned when an answer is rejected
type AnswerErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Result  session.AnswerResult `json:"result"`
}

// StartSession handles POST /api/v1/take/surveys/:id/sessions
// @Summary Start a session
// @Description Loads a published survey into a new session. Saved progress is restored for a known respondent key.
// @Tags Take
// @Produce json
// @Param id path string true "Survey ID"
// @Param X-Respondent-Key header string false "Respondent key from an earlier session"
// @Success 201 {object} services.StartedSession
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /take/surveys/{id}/sessions [post]
func (h *TakeHandler) StartSession(c *gin.Context) {
	started, err := h.takeService.StartSession(c.Request.Context(), c.Param("id"), c.GetHeader(RespondentKeyHeader))
	if err != nil {
		respondError(c, err, "Failed to load survey")
		return
	}

	c.Header(RespondentKeyHeader, started.RespondentKey)
	c.JSON(http.StatusCreated, started)
}

// GetSession handles GET /api/v1/take/sessions/:sessionId
// @Summary Get session
// @Description Returns the current state of a session
// @Tags Take
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} session.View
// @Failure 404 {object} ErrorResponse
// @Router /take/sessions/{sessionId} [get]
func (h *TakeHandler) GetSession(c *gin.Context) {
	view, err := h.takeService.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err, "Failed to get session")
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetAnswer handles PUT /api/v1/take/sessions/:sessionId/answers/:questionId
// @Summary Answer a question
// @Description Validates and records one answer, returning the visible questions and progress
// @Tags Take
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param questionId path string true "Question ID"
// @Param request body SetAnswerRequest true "Answer"
// @Success 200 {object} session.AnswerResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} AnswerErrorResponse
// @Router /take/sessions/{sessionId}/answers/{questionId} [put]
func (h *TakeHandler) SetAnswer(c *gin.Context) {
	var req SetAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid answer value",
		})
		return
	}

	result, err := h.takeService.SetAnswer(c.Request.Context(), c.Param("sessionId"), c.Param("questionId"), req.Value)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) && result != nil {
			c.JSON(http.StatusUnprocessableEntity, AnswerErrorResponse{
				Error:   "validation_failed",
				Message: verr.Message,
				Code:    verr.Code,
				Result:  *result,
			})
			return
		}
		respondError(c, err, "Failed to record answer")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Submit handles POST /api/v1/take/sessions/:sessionId/submit
// @Summary Submit a session
// @Description Checks required questions, scores quizzes and stores the response. A failed submit may be retried.
// @Tags Take
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body SubmitRequest false "Respondent metadata"
// @Success 200 {object} session.SubmitResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /take/sessions/{sessionId}/submit [post]
func (h *TakeHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: "Invalid request body",
			})
			return
		}
	}

	// A signed-in respondent's token email fills in an omitted address
	email := req.RespondentEmail
	if email == "" {
		email = middleware.GetEmail(c)
	}

	result, err := h.takeService.Submit(c.Request.Context(), c.Param("sessionId"), session.Metadata{
		RespondentEmail: email,
		IPAddress:       c.ClientIP(),
	})
	if err != nil {
		respondError(c, err, "Failed to submit response")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers the public take routes behind the given middleware
func (h *TakeHandler) RegisterRoutes(rg *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	take := rg.Group("/take", middleware...)
	{
		take.POST("/surveys/:id/sessions", h.StartSession)
		take.GET("/sessions/:sessionId", h.GetSession)
		take.PUT("/sessions/:sessionId/answers/:questionId", h.SetAnswer)
		take.POST("/sessions/:sessionId/submit", h.Submit)
	}
}
