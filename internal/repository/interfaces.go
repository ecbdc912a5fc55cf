// Package repository defines interfaces for data access and their MongoDB implementations
// #ORM_PATTERN: Repository pattern with interfaces for testability and abstraction
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// PaginationOptions contains pagination parameters
type PaginationOptions struct {
	Page    int
	Limit   int
	SortBy  string
	SortDir int // 1 for ascending, -1 for descending
}

// DefaultPaginationOptions returns default pagination settings
// #DATA_ASSUMPTION: Pagination defaults to 20 items per page
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{
		Page:    1,
		Limit:   20,
		SortBy:  "created_at",
		SortDir: -1,
	}
}

// Normalize clamps page and limit to usable values
func (o PaginationOptions) Normalize() PaginationOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 || o.Limit > 100 {
		o.Limit = 20
	}
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if o.SortDir != 1 {
		o.SortDir = -1
	}
	return o
}

// PaginatedResult contains paginated query results
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// SurveyRepository defines operations for surveys
// #QUERY_INTERFACE: Survey data access patterns
type SurveyRepository interface {
	// Create creates a new survey
	Create(ctx context.Context, survey *models.Survey) error

	// GetByID finds a survey by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error)

	// Update updates a survey
	Update(ctx context.Context, survey *models.Survey) error

	// Delete deletes a survey
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListByOwner lists an owner's surveys with pagination
	ListByOwner(ctx context.Context, ownerID string, opts PaginationOptions) (*PaginatedResult[models.Survey], error)

	// CountByOwner counts an owner's surveys
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}

// QuestionRepository defines operations for survey questions
// #QUERY_INTERFACE: Question data access patterns
type QuestionRepository interface {
	// Create creates a new question
	Create(ctx context.Context, question *models.Question) error

	// GetByID finds a question by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error)

	// Update updates a question
	Update(ctx context.Context, question *models.Question) error

	// Delete deletes a question
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListBySurvey lists all questions of a survey ordered by order_index
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error)

	// DeleteBySurvey deletes all questions of a survey
	DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)

	// UpdateOrder sets order_index for the given questions
	UpdateOrder(ctx context.Context, surveyID primitive.ObjectID, orders map[primitive.ObjectID]int) error

	// CountBySurvey counts questions of a survey
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)
}

// ResponseRepository defines operations for completed responses
// #QUERY_INTERFACE: Response data access patterns
type ResponseRepository interface {
	// Create creates a new response
	Create(ctx context.Context, response *models.Response) error

	// GetByID finds a response by ID
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error)

	// GetBySession finds the response stored for a session
	GetBySession(ctx context.Context, sessionID string) (*models.Response, error)

	// Update replaces a stored response
	Update(ctx context.Context, response *models.Response) error

	// ListBySurvey lists responses of a survey with pagination
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.Response], error)

	// ListAllBySurvey lists every response of a survey
	ListAllBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error)

	// CountBySurvey counts responses of a survey
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)

	// DeleteBySurvey deletes all responses of a survey
	DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)
}

// AnswerRepository defines operations for stored answers
// #QUERY_INTERFACE: Answer data access patterns
type AnswerRepository interface {
	// CreateMany inserts the answers of one response
	CreateMany(ctx context.Context, answers []models.Answer) error

	// ListBySurvey lists every stored answer of a survey
	ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Answer, error)

	// ListByResponse lists the answers of one response
	ListByResponse(ctx context.Context, responseID primitive.ObjectID) ([]models.Answer, error)

	// DeleteByResponse deletes the answers of one response
	DeleteByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error)

	// DeleteBySurvey deletes all answers of a survey
	DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)
}
