package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// IndexManager handles MongoDB index creation and management
type IndexManager struct {
	db *mongo.Database
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *mongo.Database) *IndexManager {
	return &IndexManager{db: db}
}

// CreateAllIndexes creates indexes for all domain collections
// #MIGRATION_DECISION: Indexes created at application startup if they don't exist
func (m *IndexManager) CreateAllIndexes(ctx context.Context) error {
	log.Println("Creating MongoDB indexes...")

	if err := m.createSurveyIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create survey indexes: %w", err)
	}

	if err := m.createQuestionIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create question indexes: %w", err)
	}

	if err := m.createResponseIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create response indexes: %w", err)
	}

	if err := m.createAnswerIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create answer indexes: %w", err)
	}

	log.Println("All indexes created successfully")
	return nil
}

// createSurveyIndexes creates indexes for the surveys collection
// #INDEX_IMPLEMENTATION: Owner dashboard sorted by recency
func (m *IndexManager) createSurveyIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Survey{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_owner_created"),
		},
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}},
			Options: options.Index().SetName("idx_published"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createQuestionIndexes creates indexes for the survey_questions collection
// #INDEX_IMPLEMENTATION: Unique presentation order within a survey
func (m *IndexManager) createQuestionIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Question{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "order_index", Value: 1}},
			Options: options.Index().SetName("idx_survey_order"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createResponseIndexes creates indexes for the survey_responses collection
// #INDEX_IMPLEMENTATION: Analytics reads all responses of a survey
func (m *IndexManager) createResponseIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Response{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_survey_created"),
		},
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("idx_session_unique_sparse"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// createAnswerIndexes creates indexes for the response_answers collection
func (m *IndexManager) createAnswerIndexes(ctx context.Context) error {
	collection := m.db.Collection(models.Answer{}.CollectionName())

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "response_id", Value: 1}},
			Options: options.Index().SetName("idx_response"),
		},
		{
			Keys:    bson.D{{Key: "survey_id", Value: 1}, {Key: "question_id", Value: 1}},
			Options: options.Index().SetName("idx_survey_question"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
