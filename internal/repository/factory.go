// Package repository provides data access layer factories
// #IMPLEMENTATION_DECISION: Factory functions wrap raw MongoDB constructors for our database.Client
package repository

import (
	"github.com/surveyforge/surveyforge_backend/internal/database"
)

// NewSurveyRepository creates a new survey repository using our database client
func NewSurveyRepository(client *database.Client) SurveyRepository {
	return NewMongoSurveyRepository(client.Database())
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(client *database.Client) QuestionRepository {
	return NewMongoQuestionRepository(client.Database())
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(client *database.Client) ResponseRepository {
	return NewMongoResponseRepository(client.Database())
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(client *database.Client) AnswerRepository {
	return NewMongoAnswerRepository(client.Database())
}
