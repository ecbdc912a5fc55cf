// Package services provides business logic implementations.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
)

// SurveyService handles survey authoring for owners
// #INTEGRATION_POINT: Used by survey handler for CRUD operations
type SurveyService interface {
	// CreateSurvey creates a new unpublished survey
	CreateSurvey(ctx context.Context, ownerID string, req CreateSurveyRequest) (*models.Survey, error)

	// GetSurvey retrieves an owner's survey by ID
	GetSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error)

	// GetSurveyWithQuestions retrieves an owner's survey with its questions
	GetSurveyWithQuestions(ctx context.Context, id primitive.ObjectID, ownerID string) (*SurveyWithQuestions, error)

	// ListSurveys lists an owner's surveys
	ListSurveys(ctx context.Context, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error)

	// UpdateSurvey updates title, description and settings
	UpdateSurvey(ctx context.Context, id primitive.ObjectID, ownerID string, req UpdateSurveyRequest) (*models.Survey, error)

	// PublishSurvey opens the survey to respondents
	PublishSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error)

	// UnpublishSurvey closes the survey to new sessions
	UnpublishSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error)

	// DeleteSurvey deletes a survey with its questions, responses and answers
	DeleteSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) error

	// AddQuestion adds a question to a survey
	AddQuestion(ctx context.Context, surveyID primitive.ObjectID, ownerID string, req CreateQuestionRequest) (*models.Question, error)

	// UpdateQuestion updates a question
	UpdateQuestion(ctx context.Context, questionID primitive.ObjectID, ownerID string, req UpdateQuestionRequest) (*models.Question, error)

	// DeleteQuestion deletes a question
	DeleteQuestion(ctx context.Context, questionID primitive.ObjectID, ownerID string) error

	// ReorderQuestions assigns new order_index values
	ReorderQuestions(ctx context.Context, surveyID primitive.ObjectID, ownerID string, orders map[string]int) ([]models.Question, error)
}

// CreateSurveyRequest represents the request to create a survey
type CreateSurveyRequest struct {
	Title       string                `json:"title" binding:"required"`
	Description string                `json:"description,omitempty"`
	Settings    models.SurveySettings `json:"settings"`
}

// UpdateSurveyRequest represents the request to update a survey
type UpdateSurveyRequest struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	Settings    *models.SurveySettings `json:"settings,omitempty"`
}

// CreateQuestionRequest represents the request to create a question
type CreateQuestionRequest struct {
	Text          string                 `json:"question_text" binding:"required"`
	Type          models.QuestionType    `json:"question_type" binding:"required"`
	Options       []string               `json:"options,omitempty"`
	HelpText      string                 `json:"help_text,omitempty"`
	Required      bool                   `json:"is_required"`
	Validation    models.ValidationRules `json:"validation_rules"`
	SkipLogic     models.SkipLogic       `json:"skip_logic"`
	OrderIndex    *int                   `json:"order_index,omitempty"`
	Score         float64                `json:"score,omitempty"`
	CorrectAnswer *models.AnswerValue    `json:"correct_answer,omitempty"`
}

// UpdateQuestionRequest represents the request to update a question
type UpdateQuestionRequest struct {
	Text          *string                 `json:"question_text,omitempty"`
	Type          *models.QuestionType    `json:"question_type,omitempty"`
	Options       []string                `json:"options,omitempty"`
	HelpText      *string                 `json:"help_text,omitempty"`
	Required      *bool                   `json:"is_required,omitempty"`
	Validation    *models.ValidationRules `json:"validation_rules,omitempty"`
	SkipLogic     *models.SkipLogic       `json:"skip_logic,omitempty"`
	OrderIndex    *int                    `json:"order_index,omitempty"`
	Score         *float64                `json:"score,omitempty"`
	CorrectAnswer *models.AnswerValue     `json:"correct_answer,omitempty"`
}

// SurveyWithQuestions combines a survey with its questions
type SurveyWithQuestions struct {
	Survey    *models.Survey    `json:"survey"`
	Questions []models.Question `json:"questions"`
}

// surveyService implements SurveyService
type surveyService struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	answerRepo   repository.AnswerRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	answerRepo repository.AnswerRepository,
) SurveyService {
	return &surveyService{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		answerRepo:   answerRepo,
	}
}

// CreateSurvey creates a new unpublished survey
func (s *surveyService) CreateSurvey(ctx context.Context, ownerID string, req CreateSurveyRequest) (*models.Survey, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}

	survey := &models.Survey{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Settings:    req.Settings,
	}

	if err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to create survey: %w", err)
	}

	return survey, nil
}

// GetSurvey retrieves an owner's survey by ID
// #SECURITY_CONCERN: Surveys of other owners are reported as not found
func (s *surveyService) GetSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrSurveyNotFound) {
			return nil, models.ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}

	if !survey.IsOwnedBy(ownerID) {
		return nil, models.ErrSurveyNotFound
	}

	return survey, nil
}

// GetSurveyWithQuestions retrieves an owner's survey with its questions
func (s *surveyService) GetSurveyWithQuestions(ctx context.Context, id primitive.ObjectID, ownerID string) (*SurveyWithQuestions, error) {
	survey, err := s.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	return &SurveyWithQuestions{
		Survey:    survey,
		Questions: questions,
	}, nil
}

// ListSurveys lists an owner's surveys
func (s *surveyService) ListSurveys(ctx context.Context, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	return s.surveyRepo.ListByOwner(ctx, ownerID, opts)
}

// UpdateSurvey updates title, description and settings
func (s *surveyService) UpdateSurvey(ctx context.Context, id primitive.ObjectID, ownerID string, req UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
		}
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.Settings != nil {
		if err := req.Settings.Validate(); err != nil {
			return nil, err
		}
		survey.Settings = *req.Settings
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to update survey: %w", err)
	}

	return survey, nil
}

// PublishSurvey opens the survey to respondents
// #BUSINESS_RULE: A survey must have at least one question to be published
func (s *surveyService) PublishSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error) {
	survey, err := s.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	count, err := s.questionRepo.CountBySurvey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: survey has no questions", models.ErrInvalidInput)
	}

	if err := survey.Publish(); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to publish survey: %w", err)
	}

	log.Printf("[SURVEY] Published survey %s with %d questions", survey.ID.Hex(), count)
	return survey, nil
}

// UnpublishSurvey closes the survey to new sessions
func (s *surveyService) UnpublishSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error) {
	survey, err := s.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := survey.Unpublish(); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, fmt.Errorf("failed to unpublish survey: %w", err)
	}

	return survey, nil
}

// DeleteSurvey deletes a survey with its questions, responses and answers
// #CASCADE_STRATEGY: Children first so a failure never leaves orphans behind a deleted survey
func (s *surveyService) DeleteSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	if _, err := s.GetSurvey(ctx, id, ownerID); err != nil {
		return err
	}

	if _, err := s.answerRepo.DeleteBySurvey(ctx, id); err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}
	if _, err := s.responseRepo.DeleteBySurvey(ctx, id); err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}
	if _, err := s.questionRepo.DeleteBySurvey(ctx, id); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}

	if err := s.surveyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}

	log.Printf("[SURVEY] Deleted survey %s", id.Hex())
	return nil
}

// AddQuestion adds a question to a survey
// #BUSINESS_RULE: Without an explicit order_index the question is appended
func (s *surveyService) AddQuestion(ctx context.Context, surveyID primitive.ObjectID, ownerID string, req CreateQuestionRequest) (*models.Question, error) {
	if _, err := s.GetSurvey(ctx, surveyID, ownerID); err != nil {
		return nil, err
	}

	siblings, err := s.questionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	question := &models.Question{
		ID:            primitive.NewObjectID(),
		SurveyID:      surveyID,
		Text:          req.Text,
		Type:          req.Type,
		Options:       req.Options,
		HelpText:      req.HelpText,
		Required:      req.Required,
		Validation:    req.Validation,
		SkipLogic:     req.SkipLogic,
		Score:         req.Score,
		CorrectAnswer: req.CorrectAnswer,
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	} else {
		question.OrderIndex = nextOrderIndex(siblings)
	}

	if err := validateQuestion(question, siblings); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	return question, nil
}

// UpdateQuestion updates a question
func (s *surveyService) UpdateQuestion(ctx context.Context, questionID primitive.ObjectID, ownerID string, req UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetSurvey(ctx, question.SurveyID, ownerID); err != nil {
		return nil, models.ErrQuestionNotFound
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Type != nil {
		question.Type = *req.Type
	}
	if req.Options != nil {
		question.Options = req.Options
	}
	if req.HelpText != nil {
		question.HelpText = *req.HelpText
	}
	if req.Required != nil {
		question.Required = *req.Required
	}
	if req.Validation != nil {
		question.Validation = *req.Validation
	}
	if req.SkipLogic != nil {
		question.SkipLogic = *req.SkipLogic
	}
	if req.OrderIndex != nil {
		question.OrderIndex = *req.OrderIndex
	}
	if req.Score != nil {
		question.Score = *req.Score
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}

	siblings, err := s.questionRepo.ListBySurvey(ctx, question.SurveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	if err := validateQuestion(question, siblings); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

// DeleteQuestion deletes a question
// #BUSINESS_RULE: A question referenced by another question's skip logic cannot be deleted
func (s *surveyService) DeleteQuestion(ctx context.Context, questionID primitive.ObjectID, ownerID string) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if _, err := s.GetSurvey(ctx, question.SurveyID, ownerID); err != nil {
		return models.ErrQuestionNotFound
	}

	siblings, err := s.questionRepo.ListBySurvey(ctx, question.SurveyID)
	if err != nil {
		return fmt.Errorf("failed to get questions: %w", err)
	}
	key := question.Key()
	for _, other := range siblings {
		for _, rule := range other.SkipLogic.Rules {
			if rule.QuestionID == key || rule.TargetQuestionID == key {
				return fmt.Errorf("%w: question is referenced by %q", models.ErrInvalidSkipLogic, other.Text)
			}
		}
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// ReorderQuestions assigns new order_index values
// #BUSINESS_RULE: The new order must keep every skip-logic rule valid
func (s *surveyService) ReorderQuestions(ctx context.Context, surveyID primitive.ObjectID, ownerID string, orders map[string]int) ([]models.Question, error) {
	if _, err := s.GetSurvey(ctx, surveyID, ownerID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}

	byKey := make(map[string]int, len(questions))
	for i := range questions {
		byKey[questions[i].Key()] = i
	}

	updates := make(map[primitive.ObjectID]int, len(orders))
	for id, order := range orders {
		i, ok := byKey[id]
		if !ok {
			return nil, models.ErrQuestionNotFound
		}
		if order < 0 {
			return nil, fmt.Errorf("%w: order_index must not be negative", models.ErrInvalidInput)
		}
		questions[i].OrderIndex = order
		updates[questions[i].ID] = order
	}

	for i := range questions {
		if err := questions[i].ValidateSkipLogic(questions); err != nil {
			return nil, err
		}
	}

	if err := s.questionRepo.UpdateOrder(ctx, surveyID, updates); err != nil {
		return nil, fmt.Errorf("failed to reorder questions: %w", err)
	}

	sortByOrder(questions)
	return questions, nil
}

// validateQuestion checks q on its own and against the other questions of its survey
func validateQuestion(q *models.Question, siblings []models.Question) error {
	if err := q.ValidateDefinition(); err != nil {
		return err
	}

	all := make([]models.Question, 0, len(siblings)+1)
	for _, other := range siblings {
		if other.ID != q.ID {
			all = append(all, other)
		}
	}
	all = append(all, *q)

	if err := q.ValidateSkipLogic(all); err != nil {
		return err
	}

	// Rules of later questions may point at q
	for i := range all {
		if all[i].ID == q.ID {
			continue
		}
		if err := all[i].ValidateSkipLogic(all); err != nil {
			return err
		}
	}
	return nil
}

func nextOrderIndex(questions []models.Question) int {
	next := 0
	for _, q := range questions {
		if q.OrderIndex >= next {
			next = q.OrderIndex + 1
		}
	}
	return next
}
