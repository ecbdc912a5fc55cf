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

// MongoSurveyRepository implements SurveyRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoSurveyRepository struct {
	collection *mongo.Collection
}

// NewMongoSurveyRepository creates a new MongoDB survey repository
func NewMongoSurveyRepository(db *mongo.Database) *MongoSurveyRepository {
	return &MongoSurveyRepository{
		collection: db.Collection(models.Survey{}.CollectionName()),
	}
}

// Create creates a new survey
func (r *MongoSurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	survey.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, survey)
	return err
}

// GetByID finds a survey by ID
func (r *MongoSurveyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Survey, error) {
	var survey models.Survey
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&survey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// Update updates a survey
func (r *MongoSurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	survey.BeforeUpdate()
	filter := bson.M{"_id": survey.ID}
	update := bson.M{"$set": survey}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrSurveyNotFound
	}
	return nil
}

// Delete deletes a survey
func (r *MongoSurveyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrSurveyNotFound
	}
	return nil
}

// ListByOwner lists an owner's surveys with pagination
// #QUERY_PATTERN: Uses the owner_id + created_at compound index
func (r *MongoSurveyRepository) ListByOwner(ctx context.Context, ownerID string, opts PaginationOptions) (*PaginatedResult[models.Survey], error) {
	opts = opts.Normalize()
	filter := bson.M{"owner_id": ownerID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	skip := int64((opts.Page - 1) * opts.Limit)
	findOpts := options.Find().
		SetSkip(skip).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: opts.SortBy, Value: opts.SortDir}})

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := []models.Survey{}
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.Survey]{
		Items:      surveys,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// CountByOwner counts an owner's surveys
func (r *MongoSurveyRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

// Ensure MongoSurveyRepository implements SurveyRepository
var _ SurveyRepository = (*MongoSurveyRepository)(nil)
