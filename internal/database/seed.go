package database

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// SampleSurveyTitle identifies the seeded survey of an owner
const SampleSurveyTitle = "Customer Feedback (sample)"

// Seeder handles database seeding operations
// #SEED_DATA: One published sample survey exercising skip logic, validation and quiz scoring
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a new database seeder
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

// SeedSampleSurvey inserts the sample survey for the owner unless it already exists
func (s *Seeder) SeedSampleSurvey(ctx context.Context, ownerID string) (*models.Survey, error) {
	surveys := s.db.Collection(models.Survey{}.CollectionName())

	var existing models.Survey
	err := surveys.FindOne(ctx, bson.M{"owner_id": ownerID, "title": SampleSurveyTitle}).Decode(&existing)
	if err == nil {
		log.Printf("Sample survey already exists for owner %s, skipping seeding", ownerID)
		return &existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	survey := sampleSurvey(ownerID)
	survey.BeforeCreate()
	if err := survey.Publish(); err != nil {
		return nil, err
	}

	questions := sampleQuestions(survey)
	docs := make([]interface{}, len(questions))
	for i := range questions {
		docs[i] = questions[i]
	}

	if _, err := surveys.InsertOne(ctx, survey); err != nil {
		return nil, err
	}
	if _, err := s.db.Collection(models.Question{}.CollectionName()).InsertMany(ctx, docs); err != nil {
		return nil, err
	}

	log.Printf("Seeded sample survey %s with %d questions", survey.ID.Hex(), len(questions))
	return survey, nil
}

func sampleSurvey(ownerID string) *models.Survey {
	showBar := true
	passing := 60
	return &models.Survey{
		OwnerID:     ownerID,
		Title:       SampleSurveyTitle,
		Description: "Tell us about your recent experience.",
		Settings: models.SurveySettings{
			Randomization: &models.RandomizationSettings{RandomizeOptions: false},
			Progress:      &models.ProgressSettings{ShowProgressBar: &showBar, AllowSaveProgress: true},
			Scoring:       &models.ScoringSettings{IsQuiz: true, ShowScore: true, PassingScore: &passing},
			Languages:     []string{models.DefaultLanguage},
		},
	}
}

func sampleQuestions(survey *models.Survey) []*models.Question {
	recommend := &models.Question{
		Text:       "Would you recommend us to a friend?",
		Type:       models.QuestionTypeMultipleChoice,
		Options:    []string{"Yes", "No"},
		Required:   true,
		OrderIndex: 0,
		Score:      10,
	}
	recommend.BeforeCreate()

	liked := &models.Question{
		Text:       "What did you like most?",
		Type:       models.QuestionTypeText,
		Required:   true,
		OrderIndex: 1,
		Score:      10,
		SkipLogic: models.SkipLogic{Rules: []models.SkipLogicRule{
			{QuestionID: recommend.Key(), Condition: models.ConditionEquals, Value: "Yes", Action: models.ActionShow},
		}},
	}
	improve := &models.Question{
		Text:       "What should we improve?",
		Type:       models.QuestionTypeText,
		OrderIndex: 2,
		SkipLogic: models.SkipLogic{Rules: []models.SkipLogicRule{
			{QuestionID: recommend.Key(), Condition: models.ConditionEquals, Value: "No", Action: models.ActionShow},
		}},
	}
	rating := &models.Question{
		Text:       "How would you rate your experience?",
		Type:       models.QuestionTypeRating,
		Required:   true,
		OrderIndex: 3,
		Score:      10,
	}
	channels := &models.Question{
		Text:       "Which channels have you used?",
		Type:       models.QuestionTypeCheckbox,
		Options:    []string{"Email", "Phone", "Chat"},
		OrderIndex: 4,
	}
	channels.BeforeCreate()

	email := &models.Question{
		Text:       "Your email (optional)",
		Type:       models.QuestionTypeText,
		OrderIndex: 5,
		Validation: models.ValidationRules{Type: models.ValidationFormatEmail},
		SkipLogic: models.SkipLogic{Rules: []models.SkipLogicRule{
			{QuestionID: channels.Key(), Condition: models.ConditionContains, Value: "email", Action: models.ActionShow},
		}},
	}

	questions := []*models.Question{recommend, liked, improve, rating, channels, email}
	for _, q := range questions {
		q.SurveyID = survey.ID
		q.BeforeCreate()
	}
	return questions
}

// ClearSeededData removes the sample survey of the owner and its questions
func (s *Seeder) ClearSeededData(ctx context.Context, ownerID string) error {
	surveys := s.db.Collection(models.Survey{}.CollectionName())

	var survey models.Survey
	err := surveys.FindOne(ctx, bson.M{"owner_id": ownerID, "title": SampleSurveyTitle}).Decode(&survey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}

	result, err := s.db.Collection(models.Question{}.CollectionName()).DeleteMany(ctx, bson.M{"survey_id": survey.ID})
	if err != nil {
		return err
	}
	if _, err := surveys.DeleteOne(ctx, bson.M{"_id": survey.ID}); err != nil {
		return err
	}

	log.Printf("Removed sample survey %s and %d questions", survey.ID.Hex(), result.DeletedCount)
	return nil
}
