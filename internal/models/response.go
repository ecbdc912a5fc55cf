package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoreResult is the aggregate quiz score of one response
type ScoreResult struct {
	Total      float64 `bson:"total" json:"total"`
	Max        float64 `bson:"max" json:"max"`
	Percentage int     `bson:"percentage" json:"percentage"`
}

// Passed returns true if the percentage reaches the passing threshold
func (s ScoreResult) Passed(threshold int) bool {
	return s.Percentage >= threshold
}

// Response represents one respondent's completed survey submission
// #CARDINALITY_ASSUMPTION: Survey 1:N Responses
// #NORMALIZATION_DECISION: Score denormalized onto the response for dashboard performance
type Response struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID        primitive.ObjectID `bson:"survey_id" json:"survey_id"`
	SessionID       string             `bson:"session_id,omitempty" json:"session_id,omitempty"`
	RespondentEmail string             `bson:"respondent_email,omitempty" json:"respondent_email,omitempty"`
	IPAddress       string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`

	// Scoring (quiz mode only)
	Score  *ScoreResult `bson:"score,omitempty" json:"score,omitempty"`
	Passed *bool        `bson:"passed,omitempty" json:"passed,omitempty"`

	// Audit fields
	StartedAt   time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for responses
func (Response) CollectionName() string {
	return "survey_responses"
}

// BeforeCreate sets default values before inserting a new response
func (r *Response) BeforeCreate() {
	now := time.Now().UTC()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	r.CreatedAt = now
	if r.StartedAt.IsZero() {
		r.StartedAt = now
	}
}

// Complete marks the response as completed now
func (r *Response) Complete() {
	now := time.Now().UTC()
	r.CompletedAt = &now
}

// IsCompleted returns true if the response was completed
func (r *Response) IsCompleted() bool {
	return r.CompletedAt != nil
}

// SetScore records the quiz score and pass flag
func (r *Response) SetScore(score ScoreResult, passingScore int) {
	passed := score.Passed(passingScore)
	r.Score = &score
	r.Passed = &passed
}
