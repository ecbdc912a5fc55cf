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

// MongoResponseRepository implements ResponseRepository for MongoDB
// #ORM_INTEGRATION: MongoDB driver-based repository implementation
type MongoResponseRepository struct {
	collection *mongo.Collection
}

// NewMongoResponseRepository creates a new MongoDB response repository
func NewMongoResponseRepository(db *mongo.Database) *MongoResponseRepository {
	return &MongoResponseRepository{
		collection: db.Collection(models.Response{}.CollectionName()),
	}
}

// Create creates a new response
// #INDEX_IMPLEMENTATION: The unique sparse session_id index rejects a second response per session
func (r *MongoResponseRepository) Create(ctx context.Context, response *models.Response) error {
	response.BeforeCreate()
	_, err := r.collection.InsertOne(ctx, response)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrAlreadyExists
	}
	return err
}

// GetByID finds a response by ID
func (r *MongoResponseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Response, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetBySession finds the response stored for a session
func (r *MongoResponseRepository) GetBySession(ctx context.Context, sessionID string) (*models.Response, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

// Update replaces a stored response, keeping its id and created_at
func (r *MongoResponseRepository) Update(ctx context.Context, response *models.Response) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": response.ID}, response)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrResponseNotFound
	}
	return nil
}

func (r *MongoResponseRepository) findOne(ctx context.Context, filter bson.M) (*models.Response, error) {
	var response models.Response
	err := r.collection.FindOne(ctx, filter).Decode(&response)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListBySurvey lists responses of a survey with pagination
func (r *MongoResponseRepository) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, opts PaginationOptions) (*PaginatedResult[models.Response], error) {
	opts = opts.Normalize()
	filter := bson.M{"survey_id": surveyID}

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

	responses := []models.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit > 0 {
		totalPages++
	}

	return &PaginatedResult[models.Response]{
		Items:      responses,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}, nil
}

// ListAllBySurvey lists every response of a survey, newest first
// #QUERY_PATTERN: Analytics reads the whole response set of one survey
func (r *MongoResponseRepository) ListAllBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]models.Response, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"survey_id": surveyID}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []models.Response{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// CountBySurvey counts responses of a survey
func (r *MongoResponseRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"survey_id": surveyID})
}

// DeleteBySurvey deletes all responses of a survey
// #CASCADE_STRATEGY: CASCADE DELETE - responses deleted with survey
func (r *MongoResponseRepository) DeleteBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Ensure MongoResponseRepository implements ResponseRepository
var _ ResponseRepository = (*MongoResponseRepository)(nil)
