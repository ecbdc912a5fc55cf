package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/services"
)

// AnalyticsHandler handles response analytics endpoints
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// PaginatedResponsesResponse represents paginated survey responses
type PaginatedResponsesResponse struct {
	Items      []models.Response `json:"items"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// GetAnalytics handles GET /api/v1/surveys/:id/analytics
// @Summary Survey analytics
// @Description Aggregates completion, per-question distributions and quiz results
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Success 200 {object} services.SurveyAnalytics
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	result, err := h.analyticsService.GetAnalytics(c.Request.Context(), surveyID, userID)
	if err != nil {
		respondError(c, err, "Failed to get analytics")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListResponses handles GET /api/v1/surveys/:id/responses
// @Summary List responses
// @Description Lists a survey's stored responses
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} PaginatedResponsesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/responses [get]
func (h *AnalyticsHandler) ListResponses(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}

	result, err := h.analyticsService.ListResponses(c.Request.Context(), surveyID, userID, paginationFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to list responses")
		return
	}

	items := result.Items
	if items == nil {
		items = []models.Response{}
	}

	c.JSON(http.StatusOK, PaginatedResponsesResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// GetResponse handles GET /api/v1/surveys/:id/responses/:responseId
// @Summary Get response
// @Description Gets one stored response with its answers
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Survey ID"
// @Param responseId path string true "Response ID"
// @Success 200 {object} services.ResponseDetail
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /surveys/{id}/responses/{responseId} [get]
func (h *AnalyticsHandler) GetResponse(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	surveyID, ok := objectIDParam(c, "id", "survey")
	if !ok {
		return
	}
	responseID, ok := objectIDParam(c, "responseId", "response")
	if !ok {
		return
	}

	result, err := h.analyticsService.GetResponse(c.Request.Context(), surveyID, responseID, userID)
	if err != nil {
		respondError(c, err, "Failed to get response")
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	surveys := rg.Group("/surveys", authMiddleware)
	{
		surveys.GET("/:id/analytics", h.GetAnalytics)
		surveys.GET("/:id/responses", h.ListResponses)
		surveys.GET("/:id/responses/:responseId", h.GetResponse)
	}
}
