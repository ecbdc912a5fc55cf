package models

import (
	"errors"
	"fmt"
)

// Model validation and operation errors
var (
	// General errors
	ErrNotFound                = errors.New("resource not found")
	ErrAlreadyExists           = errors.New("resource already exists")
	ErrInvalidInput            = errors.New("invalid input")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// Survey errors
	ErrSurveyNotFound         = errors.New("survey not found")
	ErrSurveyUnavailable      = errors.New("survey is not available")
	ErrSurveyAlreadyPublished = errors.New("survey is already published")
	ErrSurveyNotPublished     = errors.New("survey is not published")
	ErrInvalidSettings        = errors.New("invalid survey settings")

	// Question errors
	ErrQuestionNotFound       = errors.New("question not found")
	ErrInvalidQuestionType    = errors.New("invalid question type")
	ErrMissingQuestionOptions = errors.New("choice questions require options")
	ErrInvalidMatrixOptions   = errors.New("matrix questions require rows and columns separated by |")
	ErrInvalidAnswerFormat    = errors.New("invalid answer format")
	ErrInvalidScoreWeight     = errors.New("score weight must not be negative")
	ErrInvalidSkipLogic       = errors.New("invalid skip logic rule")

	// Answer validation errors
	ErrValidationFailed     = errors.New("answer failed validation")
	ErrRequiredFieldMissing = errors.New("Please answer all required questions")

	// Session errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionCompleted     = errors.New("session has already been completed")
	ErrSubmissionInProgress = errors.New("submission is already in progress")
	ErrSessionNotReady      = errors.New("session is not ready")
	ErrSubmissionTransport  = errors.New("failed to submit response")

	// Progress errors
	ErrProgressNotFound = errors.New("saved progress not found")

	// Response errors
	ErrResponseNotFound = errors.New("response not found")
)

// ValidationError carries the per-field message produced when an answer is rejected.
type ValidationError struct {
	QuestionID string
	Code       string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSurveyNotFound) ||
		errors.Is(err, ErrSurveyUnavailable) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrProgressNotFound) ||
		errors.Is(err, ErrResponseNotFound)
}

// IsValidationError returns true if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrInvalidQuestionType) ||
		errors.Is(err, ErrMissingQuestionOptions) ||
		errors.Is(err, ErrInvalidMatrixOptions) ||
		errors.Is(err, ErrInvalidAnswerFormat) ||
		errors.Is(err, ErrInvalidScoreWeight) ||
		errors.Is(err, ErrInvalidSkipLogic) ||
		errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrRequiredFieldMissing)
}

// IsAuthError returns true if the error is an authentication/authorization error
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}

// IsConflictError returns true if the error is a conflict/state error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrSurveyAlreadyPublished) ||
		errors.Is(err, ErrSurveyNotPublished) ||
		errors.Is(err, ErrSessionCompleted) ||
		errors.Is(err, ErrSubmissionInProgress) ||
		errors.Is(err, ErrSessionNotReady)
}

// IsTransportError returns true if the error came from the downstream persistence call
func IsTransportError(err error) bool {
	return errors.Is(err, ErrSubmissionTransport)
}
