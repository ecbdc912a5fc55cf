package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/middleware"
	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps a service error onto a status code and error body.
// fallback is the message used for unexpected errors, whose detail is only logged.
// #SECURITY_CONCERN: Internal error text never reaches the client
func respondError(c *gin.Context, err error, fallback string) {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation_failed",
			Message: verr.Message,
		})
	case errors.Is(err, models.ErrRequiredFieldMissing):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "required_missing",
			Message: models.ErrRequiredFieldMissing.Error(),
		})
	case errors.Is(err, models.ErrSurveyUnavailable):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "survey_unavailable",
			Message: "Survey not found or not published",
		})
	case models.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case models.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case models.IsConflictError(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	case models.IsAuthError(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
	case models.IsTransportError(err):
		log.Printf("[API] request %s: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "submission_failed",
			Message: "Failed to submit response. Please try again.",
		})
	default:
		log.Printf("[API] request %s: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: fallback,
		})
	}
}

// ownerID reads the authenticated user, writing 401 when absent
func ownerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid session",
		})
		return "", false
	}
	return userID, true
}

// objectIDParam parses a path parameter as an ObjectID, writing 400 when malformed
func objectIDParam(c *gin.Context, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid " + label + " ID",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}
