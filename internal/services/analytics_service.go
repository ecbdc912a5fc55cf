package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
)

// SurveyAnalytics summarizes the responses of one survey
type SurveyAnalytics struct {
	SurveyID           string              `json:"survey_id"`
	TotalResponses     int                 `json:"total_responses"`
	CompletedResponses int                 `json:"completed_responses"`
	CompletionRate     int                 `json:"completion_rate"`
	AverageScore       *float64            `json:"average_score,omitempty"`
	PassRate           *int                `json:"pass_rate,omitempty"`
	Questions          []QuestionAnalytics `json:"question_analytics"`
	Responses          []ResponseSummary   `json:"responses"`
}

// QuestionAnalytics summarizes the answers to one question.
// Only the fields of the question's type are set.
type QuestionAnalytics struct {
	QuestionID         string              `json:"question_id"`
	QuestionText       string              `json:"question_text"`
	QuestionType       models.QuestionType `json:"question_type"`
	TotalResponses     int                 `json:"total_responses"`
	OptionCounts       map[string]int      `json:"option_counts,omitempty"`
	AverageRating      *float64            `json:"average_rating,omitempty"`
	RatingDistribution map[string]int      `json:"rating_distribution,omitempty"`
	AveragePositions   map[string]float64  `json:"average_positions,omitempty"`
	Responses          []string            `json:"responses,omitempty"`
}

// ResponseSummary lists one response in the analytics view
type ResponseSummary struct {
	ID              string              `json:"id"`
	RespondentEmail string              `json:"respondent_email,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	Score           *models.ScoreResult `json:"score,omitempty"`
	Passed          *bool               `json:"passed,omitempty"`
}

// ResponseDetail is one stored response with its answers keyed by question id
type ResponseDetail struct {
	Response *models.Response `json:"response"`
	Answers  models.Answers   `json:"answers"`
}

// AnalyticsService aggregates and lists survey responses for owners
type AnalyticsService interface {
	// GetAnalytics aggregates every response of a survey
	GetAnalytics(ctx context.Context, surveyID primitive.ObjectID, ownerID string) (*SurveyAnalytics, error)

	// ListResponses lists a survey's responses, newest first by default
	ListResponses(ctx context.Context, surveyID primitive.ObjectID, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error)

	// GetResponse returns one response with its answers
	GetResponse(ctx context.Context, surveyID, responseID primitive.ObjectID, ownerID string) (*ResponseDetail, error)
}

// analyticsService implements AnalyticsService
type analyticsService struct {
	surveys      SurveyService
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	answerRepo   repository.AnswerRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	surveys SurveyService,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	answerRepo repository.AnswerRepository,
) AnalyticsService {
	return &analyticsService{
		surveys:      surveys,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		answerRepo:   answerRepo,
	}
}

// GetAnalytics aggregates the responses of an owner's survey
func (s *analyticsService) GetAnalytics(ctx context.Context, surveyID primitive.ObjectID, ownerID string) (*SurveyAnalytics, error) {
	if _, err := s.surveys.GetSurvey(ctx, surveyID, ownerID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	responses, err := s.responseRepo.ListAllBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	answers, err := s.answerRepo.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	result := AggregateAnalytics(questions, responses, answers)
	result.SurveyID = surveyID.Hex()
	return result, nil
}

// ListResponses lists a survey's responses
func (s *analyticsService) ListResponses(ctx context.Context, surveyID primitive.ObjectID, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	if _, err := s.surveys.GetSurvey(ctx, surveyID, ownerID); err != nil {
		return nil, err
	}

	result, err := s.responseRepo.ListBySurvey(ctx, surveyID, opts.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return result, nil
}

// GetResponse returns one response with its answers
// #SECURITY_CONCERN: A response id from another survey is reported as not found
func (s *analyticsService) GetResponse(ctx context.Context, surveyID, responseID primitive.ObjectID, ownerID string) (*ResponseDetail, error) {
	if _, err := s.surveys.GetSurvey(ctx, surveyID, ownerID); err != nil {
		return nil, err
	}

	response, err := s.responseRepo.GetByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response.SurveyID != surveyID {
		return nil, models.ErrResponseNotFound
	}

	stored, err := s.answerRepo.ListByResponse(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	answers := make(models.Answers, len(stored))
	for _, a := range stored {
		answers[a.QuestionID.Hex()] = a.AnswerValue
	}

	return &ResponseDetail{
		Response: response,
		Answers:  answers,
	}, nil
}

// AggregateAnalytics computes the analytics view from stored records.
// Answers whose response is not in responses are ignored.
func AggregateAnalytics(questions []models.Question, responses []models.Response, answers []models.Answer) *SurveyAnalytics {
	result := &SurveyAnalytics{
		TotalResponses: len(responses),
		Questions:      make([]QuestionAnalytics, 0, len(questions)),
		Responses:      make([]ResponseSummary, 0, len(responses)),
	}

	known := make(map[primitive.ObjectID]bool, len(responses))
	var scoreSum float64
	scored, passed := 0, 0
	for _, r := range responses {
		known[r.ID] = true
		if r.IsCompleted() {
			result.CompletedResponses++
		}
		if r.Score != nil {
			scoreSum += float64(r.Score.Percentage)
			scored++
		}
		if r.Passed != nil && *r.Passed {
			passed++
		}
		result.Responses = append(result.Responses, ResponseSummary{
			ID:              r.ID.Hex(),
			RespondentEmail: r.RespondentEmail,
			StartedAt:       r.StartedAt,
			CompletedAt:     r.CompletedAt,
			Score:           r.Score,
			Passed:          r.Passed,
		})
	}
	result.CompletionRate = percent(result.CompletedResponses, result.TotalResponses)
	if scored > 0 {
		avg := round2(scoreSum / float64(scored))
		rate := percent(passed, scored)
		result.AverageScore = &avg
		result.PassRate = &rate
	}

	byQuestion := make(map[primitive.ObjectID][]models.AnswerValue, len(questions))
	for _, a := range answers {
		if known[a.ResponseID] {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a.AnswerValue)
		}
	}

	sortByOrder(questions)
	for i := range questions {
		result.Questions = append(result.Questions, aggregateQuestion(&questions[i], byQuestion[questions[i].ID]))
	}
	return result
}

func aggregateQuestion(q *models.Question, values []models.AnswerValue) QuestionAnalytics {
	qa := QuestionAnalytics{
		QuestionID:     q.Key(),
		QuestionText:   q.Text,
		QuestionType:   q.Type,
		TotalResponses: len(values),
	}

	switch q.Type {
	case models.QuestionTypeMultipleChoice, models.QuestionTypeDropdown, models.QuestionTypeCheckbox:
		qa.OptionCounts = make(map[string]int)
		for _, v := range values {
			for _, option := range v.Strings() {
				qa.OptionCounts[option]++
			}
		}

	case models.QuestionTypeRating:
		qa.RatingDistribution = make(map[string]int)
		sum := 0
		for _, v := range values {
			sum += v.Rating
			qa.RatingDistribution[strconv.Itoa(v.Rating)]++
		}
		avg := 0.0
		if len(values) > 0 {
			avg = round2(float64(sum) / float64(len(values)))
		}
		qa.AverageRating = &avg

	case models.QuestionTypeRanking:
		sums := make(map[string]int)
		counts := make(map[string]int)
		for _, v := range values {
			for pos, option := range v.Choices {
				sums[option] += pos + 1
				counts[option]++
			}
		}
		qa.AveragePositions = make(map[string]float64, len(sums))
		for option, total := range sums {
			qa.AveragePositions[option] = round2(float64(total) / float64(counts[option]))
		}

	case models.QuestionTypeText:
		qa.Responses = make([]string, 0, len(values))
		for _, v := range values {
			qa.Responses = append(qa.Responses, v.Text)
		}
	}

	return qa
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
