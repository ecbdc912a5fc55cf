package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
	"github.com/surveyforge/surveyforge_backend/internal/session"
)

// notifyTimeout bounds a detached webhook delivery
const notifyTimeout = 30 * time.Second

// Transactor runs fn inside a database transaction. Repository calls made
// with the ctx passed to fn join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// sessionPersistence implements session.Persistence over the MongoDB repositories
// #INTEGRATION_POINT: The only path by which a session reads surveys or writes responses
type sessionPersistence struct {
	surveyRepo   repository.SurveyRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
	answerRepo   repository.AnswerRepository
	tx           Transactor
	notifier     WebhookNotifier

	// notified, when set, runs after each notification attempt
	notified func()
}

// NewSessionPersistence creates the persistence collaborator used by survey sessions.
// With a nil tx the response and its answers are written without a transaction.
func NewSessionPersistence(
	surveyRepo repository.SurveyRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
	answerRepo repository.AnswerRepository,
	tx Transactor,
	notifier WebhookNotifier,
) session.Persistence {
	if notifier == nil {
		notifier = NoopWebhookNotifier{}
	}
	return &sessionPersistence{
		surveyRepo:   surveyRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		answerRepo:   answerRepo,
		tx:           tx,
		notifier:     notifier,
	}
}

// FetchSurvey loads a survey by its hex id
func (p *sessionPersistence) FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	id, err := primitive.ObjectIDFromHex(surveyID)
	if err != nil {
		return nil, models.ErrSurveyNotFound
	}
	return p.surveyRepo.GetByID(ctx, id)
}

// FetchQuestions loads a survey's questions ordered by order_index
func (p *sessionPersistence) FetchQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	id, err := primitive.ObjectIDFromHex(surveyID)
	if err != nil {
		return nil, models.ErrSurveyNotFound
	}

	questions, err := p.questionRepo.ListBySurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	sortByOrder(questions)
	return questions, nil
}

// SubmitResponse stores the response and its answers, then notifies subscribers.
// #IMPLEMENTATION_DECISION: A retried submit of the same session overwrites the stored response and its answer set
func (p *sessionPersistence) SubmitResponse(ctx context.Context, req session.SubmitRequest) (*session.Receipt, error) {
	surveyID, err := primitive.ObjectIDFromHex(req.SurveyID)
	if err != nil {
		return nil, models.ErrSurveyNotFound
	}

	response := &models.Response{
		SurveyID:  surveyID,
		SessionID: req.SessionID,
		StartedAt: req.StartedAt,
	}
	applySubmission(response, req)

	err = p.inTransaction(ctx, func(ctx context.Context) error {
		if err := p.responseRepo.Create(ctx, response); err != nil {
			return err
		}
		return p.storeAnswers(ctx, response.ID, surveyID, req.Answers)
	})
	switch {
	case errors.Is(err, models.ErrAlreadyExists):
		// A duplicate key aborts the transaction, so the retry runs in a new one
		response, err = p.resumeSubmission(ctx, req, surveyID)
		if err != nil {
			return nil, err
		}
		log.Printf("[TAKE] Rewrote response %s for survey %s with %d answers", response.ID.Hex(), req.SurveyID, len(req.Answers))
	case err != nil:
		return nil, fmt.Errorf("failed to store response: %w", err)
	default:
		log.Printf("[TAKE] Stored response %s for survey %s with %d answers", response.ID.Hex(), req.SurveyID, len(req.Answers))
	}

	go p.notify(context.WithoutCancel(ctx), surveyID, response, req.Answers)

	return &session.Receipt{ResponseID: response.ID.Hex()}, nil
}

// resumeSubmission replaces the response already stored for the session
// with the submitted one: metadata, score and the whole answer set
func (p *sessionPersistence) resumeSubmission(ctx context.Context, req session.SubmitRequest, surveyID primitive.ObjectID) (*models.Response, error) {
	var existing *models.Response
	err := p.inTransaction(ctx, func(ctx context.Context) error {
		stored, err := p.responseRepo.GetBySession(ctx, req.SessionID)
		if err != nil {
			return fmt.Errorf("failed to load stored response: %w", err)
		}

		applySubmission(stored, req)
		if err := p.responseRepo.Update(ctx, stored); err != nil {
			return fmt.Errorf("failed to update stored response: %w", err)
		}
		if _, err := p.answerRepo.DeleteByResponse(ctx, stored.ID); err != nil {
			return fmt.Errorf("failed to clear stored answers: %w", err)
		}
		if err := p.storeAnswers(ctx, stored.ID, surveyID, req.Answers); err != nil {
			return err
		}

		existing = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (p *sessionPersistence) storeAnswers(ctx context.Context, responseID, surveyID primitive.ObjectID, answers models.Answers) error {
	if err := p.answerRepo.CreateMany(ctx, buildAnswers(responseID, surveyID, answers)); err != nil {
		return fmt.Errorf("failed to store answers: %w", err)
	}
	return nil
}

func (p *sessionPersistence) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.tx == nil {
		return fn(ctx)
	}
	return p.tx.WithTransaction(ctx, fn)
}

// applySubmission copies the submitted metadata and score onto a response
// and marks it completed
func applySubmission(response *models.Response, req session.SubmitRequest) {
	response.RespondentEmail = req.RespondentEmail
	response.IPAddress = req.IPAddress
	response.Score = req.Score
	response.Passed = req.Passed
	response.Complete()
}

func (p *sessionPersistence) notify(ctx context.Context, surveyID primitive.ObjectID, response *models.Response, answers models.Answers) {
	if p.notified != nil {
		defer p.notified()
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	survey, err := p.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to load survey %s for notification: %v", surveyID.Hex(), err)
		return
	}

	if err := p.notifier.NotifyResponseCompleted(ctx, survey, response, answers); err != nil {
		log.Printf("[WEBHOOK] Notification for response %s failed: %v", response.ID.Hex(), err)
	}
}

// buildAnswers converts an answer set into stored records; ids that are not
// question ids are skipped
func buildAnswers(responseID, surveyID primitive.ObjectID, answers models.Answers) []models.Answer {
	out := make([]models.Answer, 0, len(answers))
	for qid, value := range answers {
		questionID, err := primitive.ObjectIDFromHex(qid)
		if err != nil {
			continue
		}
		out = append(out, models.Answer{
			ResponseID:  responseID,
			SurveyID:    surveyID,
			QuestionID:  questionID,
			AnswerValue: value,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QuestionID.Hex() < out[j].QuestionID.Hex()
	})
	return out
}

func sortByOrder(questions []models.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})
}
