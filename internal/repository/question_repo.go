package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// MongoQuestionRepository implements QuestionRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoQuestionRepository struct {
	collection *mongo.Collection
}

// NewMongoQuestionRepository creates a new MongoDB question repository
func NewMongoQuestionRepository(db *mongo.Database) *MongoQuestionRepository {
	return &MongoQuestionRepository{
		collection: db.Collection(models.Question{}.CollectionName()),
	}
}

// Create creates a new question
func (r *MongoQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	question.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, question)
	return err
}

// GetByID finds a question by ID
func (r *MongoQuestionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Question, error) {
	var question models.Question
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// Update updates a question
func (r *MongoQuestionRepository) Update(ctx context.Context, question *models.Question) error {
	question.BeforeUpdate()
	filter := bson.M{"_id": question.ID}
	update := bson.M{"$set": question}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

// Delete deletes a question
func (r *MongoQuestionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrQuestionNotFound
	}
	return nil
}

// ListBySurvey lists all questions of a survey
// #QUERY_PATTERN: Fetch all questions for a survey at once, sorted by order_index
func (r *MongoQuestionRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Question, error) {
	filter := bson.M{"survey_id": surveyID}
	findOpts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

// DeleteBySurvey deletes all questions of a survey
// #CASCADE_STRATEGY: CASCADE DELETE - questions deleted with survey
func (r *MongoQuestionRepository) DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// UpdateOrder updates the order of questions
func (r *MongoQuestionRepository) UpdateOrder(ctx context.Context, surveyID primitive.ObjectID, orders map[primitive.ObjectID]int) error {
	var operations []mongo.WriteModel
	for questionID, order := range orders {
		filter := bson.M{
			"_id":       questionID,
			"survey_id": surveyID,
		}
		update := bson.M{"$set": bson.M{"order_index": order}}
		operations = append(operations, mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update))
	}

	if len(operations) == 0 {
		return nil
	}

	_, err := r.collection.BulkWrite(ctx, operations)
	return err
}

// CountBySurvey counts questions of a survey
func (r *MongoQuestionRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}

// Ensure MongoQuestionRepository implements QuestionRepository
var _ QuestionRepository = (*MongoQuestionRepository)(nil)
