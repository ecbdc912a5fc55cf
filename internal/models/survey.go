package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScoringMode represents how a quiz survey awards points
// #IMPLEMENTATION_DECISION: COMPLETION awards the full weight for any non-empty answer,
// CORRECTNESS compares against the question's correct answer when one is set
type ScoringMode string

const (
	ScoringModeCompletion  ScoringMode = "COMPLETION"
	ScoringModeCorrectness ScoringMode = "CORRECTNESS"
)

// MarshalJSON converts ScoringMode to lowercase for JSON serialization
func (sm ScoringMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(sm)))
}

// UnmarshalJSON converts lowercase JSON to ScoringMode
func (sm *ScoringMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*sm = ScoringMode(strings.ToUpper(s))
	return nil
}

// IsValid checks if the ScoringMode is a valid value. Empty means the default.
func (sm ScoringMode) IsValid() bool {
	switch sm {
	case "", ScoringModeCompletion, ScoringModeCorrectness:
		return true
	}
	return false
}

// EventResponseCompleted is the only webhook event currently emitted
const EventResponseCompleted = "response.completed"

// Settings defaults
const (
	DefaultPassingScore  = 70
	DefaultMaxFileSizeMB = 10
	DefaultMaxFiles      = 5
	DefaultLanguage      = "en"
)

// ThemeSettings is stored and returned as-is for the renderer
type ThemeSettings struct {
	PrimaryColor    string `bson:"primary_color,omitempty" json:"primary_color,omitempty"`
	SecondaryColor  string `bson:"secondary_color,omitempty" json:"secondary_color,omitempty"`
	BackgroundColor string `bson:"background_color,omitempty" json:"background_color,omitempty"`
	FontFamily      string `bson:"font_family,omitempty" json:"font_family,omitempty"`
	LogoURL         string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
}

// RandomizationSettings controls per-session ordering
type RandomizationSettings struct {
	RandomizeQuestions bool `bson:"randomize_questions" json:"randomize_questions"`
	RandomizeOptions   bool `bson:"randomize_options" json:"randomize_options"`
}

// ProgressSettings controls the progress bar and save-progress
// #DATA_ASSUMPTION: ShowProgressBar is a pointer because an unset value means true
type ProgressSettings struct {
	ShowProgressBar   *bool `bson:"show_progress_bar,omitempty" json:"show_progress_bar,omitempty"`
	AllowSaveProgress bool  `bson:"allow_save_progress" json:"allow_save_progress"`
}

// LimitSettings bounds file-upload answers
type LimitSettings struct {
	MaxFileSizeMB    int      `bson:"max_file_size_mb,omitempty" json:"max_file_size_mb,omitempty"`
	MaxFiles         int      `bson:"max_files,omitempty" json:"max_files,omitempty"`
	AllowedFileTypes []string `bson:"allowed_file_types,omitempty" json:"allowed_file_types,omitempty"`
}

// ScoringSettings enables quiz mode
type ScoringSettings struct {
	IsQuiz       bool        `bson:"is_quiz" json:"is_quiz"`
	ShowScore    bool        `bson:"show_score" json:"show_score"`
	PassingScore *int        `bson:"passing_score,omitempty" json:"passing_score,omitempty"`
	Mode         ScoringMode `bson:"mode,omitempty" json:"mode,omitempty"`
}

// WebhookSettings configures the completion notification
type WebhookSettings struct {
	URL    string   `bson:"url,omitempty" json:"url,omitempty"`
	Events []string `bson:"events,omitempty" json:"events,omitempty"`
}

// SurveySettings groups the optional per-survey behavior switches
// #NORMALIZATION_DECISION: Embedded in the survey document, never queried independently
type SurveySettings struct {
	Theme           *ThemeSettings         `bson:"theme,omitempty" json:"theme,omitempty"`
	Randomization   *RandomizationSettings `bson:"randomization,omitempty" json:"randomization,omitempty"`
	Progress        *ProgressSettings      `bson:"progress,omitempty" json:"progress,omitempty"`
	Limits          *LimitSettings         `bson:"limits,omitempty" json:"limits,omitempty"`
	Scoring         *ScoringSettings       `bson:"scoring,omitempty" json:"scoring,omitempty"`
	Languages       []string               `bson:"languages,omitempty" json:"languages,omitempty"`
	DefaultLanguage string                 `bson:"default_language,omitempty" json:"default_language,omitempty"`
	Webhooks        *WebhookSettings       `bson:"webhooks,omitempty" json:"webhooks,omitempty"`
}

// Validate checks the settings for values that can never be honored
func (s *SurveySettings) Validate() error {
	if s.Scoring != nil {
		if !s.Scoring.Mode.IsValid() {
			return ErrInvalidSettings
		}
		if s.Scoring.PassingScore != nil && (*s.Scoring.PassingScore < 0 || *s.Scoring.PassingScore > 100) {
			return ErrInvalidSettings
		}
	}
	if s.Limits != nil && (s.Limits.MaxFileSizeMB < 0 || s.Limits.MaxFiles < 0) {
		return ErrInvalidSettings
	}
	return nil
}

// WantsEvent reports whether the webhook is configured for the given event
func (w *WebhookSettings) WantsEvent(event string) bool {
	if w == nil || w.URL == "" {
		return false
	}
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Survey represents a questionnaire authored by a user and answered by respondents
// #CARDINALITY_ASSUMPTION: User 1:N Surveys - an owner authors many surveys
// #CARDINALITY_ASSUMPTION: Survey 1:N Questions, Survey 1:N Responses
type Survey struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"owner_id" json:"owner_id"`

	// Basic info
	Title       string         `bson:"title" json:"title"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Settings    SurveySettings `bson:"settings" json:"settings"`
	IsPublished bool           `bson:"is_published" json:"is_published"`

	// Audit fields
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for surveys
func (Survey) CollectionName() string {
	return "surveys"
}

// BeforeCreate sets default values before inserting a new survey
func (s *Survey) BeforeCreate() {
	now := time.Now().UTC()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	s.IsPublished = false
	s.PublishedAt = nil

	if s.Settings.DefaultLanguage == "" {
		s.Settings.DefaultLanguage = DefaultLanguage
	}
}

// BeforeUpdate sets the UpdatedAt timestamp
func (s *Survey) BeforeUpdate() {
	s.UpdatedAt = time.Now().UTC()
}

// Publish makes the survey available to respondents
func (s *Survey) Publish() error {
	if s.IsPublished {
		return ErrSurveyAlreadyPublished
	}
	now := time.Now().UTC()
	s.IsPublished = true
	s.PublishedAt = &now
	s.UpdatedAt = now
	return nil
}

// Unpublish closes the survey to new sessions
func (s *Survey) Unpublish() error {
	if !s.IsPublished {
		return ErrSurveyNotPublished
	}
	s.IsPublished = false
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// IsAvailable returns true if respondents may take the survey
func (s *Survey) IsAvailable() bool {
	return s != nil && s.IsPublished
}

// IsOwnedBy returns true if the given user authored the survey
func (s *Survey) IsOwnedBy(userID string) bool {
	return userID != "" && s.OwnerID == userID
}

// IsQuiz returns true if quiz scoring is enabled
func (s *Survey) IsQuiz() bool {
	return s.Settings.Scoring != nil && s.Settings.Scoring.IsQuiz
}
