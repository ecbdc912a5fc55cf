package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// MongoAnswerRepository implements AnswerRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoAnswerRepository struct {
	collection *mongo.Collection
}

// NewMongoAnswerRepository creates a new MongoDB answer repository
func NewMongoAnswerRepository(db *mongo.Database) *MongoAnswerRepository {
	return &MongoAnswerRepository{
		collection: db.Collection(models.Answer{}.CollectionName()),
	}
}

// CreateMany inserts the answers of one response
func (r *MongoAnswerRepository) CreateMany(ctx context.Context, answers []models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	docs := make([]interface{}, len(answers))
	for i := range answers {
		answers[i].BeforeCreate()
		docs[i] = answers[i]
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// ListBySurvey lists every stored answer of a survey
// #INDEX_IMPLEMENTATION: Served by the survey_id + question_id compound index
func (r *MongoAnswerRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Answer, error) {
	return r.find(ctx, bson.M{"survey_id": surveyID})
}

// ListByResponse lists the answers of one response
func (r *MongoAnswerRepository) ListByResponse(ctx context.Context, responseID primitive.ObjectID) ([]models.Answer, error) {
	return r.find(ctx, bson.M{"response_id": responseID})
}

func (r *MongoAnswerRepository) find(ctx context.Context, filter bson.M) ([]models.Answer, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// DeleteByResponse deletes the answers of one response
func (r *MongoAnswerRepository) DeleteByResponse(ctx context.Context, responseID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"response_id": responseID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// DeleteBySurvey deletes all answers of a survey
// #CASCADE_STRATEGY: CASCADE DELETE - answers deleted with survey
func (r *MongoAnswerRepository) DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Ensure MongoAnswerRepository implements AnswerRepository
var _ AnswerRepository = (*MongoAnswerRepository)(nil)
