package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestScoringMode_MarshalJSON(t *testing.T) {
	got, err := json.Marshal(ScoringModeCorrectness)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(got) != `"correctness"` {
		t.Errorf("MarshalJSON() = %s, want %s", got, `"correctness"`)
	}

	var mode ScoringMode
	if err := json.Unmarshal([]byte(`"completion"`), &mode); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if mode != ScoringModeCompletion {
		t.Errorf("UnmarshalJSON() = %v, want %v", mode, ScoringModeCompletion)
	}
}

func TestSurvey_PublishLifecycle(t *testing.T) {
	s := &Survey{OwnerID: "user-1", Title: "Feedback"}
	s.BeforeCreate()

	if s.IsAvailable() {
		t.Fatal("IsAvailable() = true for a new survey, want false")
	}
	if s.Settings.DefaultLanguage != DefaultLanguage {
		t.Errorf("DefaultLanguage = %q, want %q", s.Settings.DefaultLanguage, DefaultLanguage)
	}
	if err := s.Unpublish(); !errors.Is(err, ErrSurveyNotPublished) {
		t.Errorf("Unpublish() error = %v, want ErrSurveyNotPublished", err)
	}
	if err := s.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !s.IsAvailable() || s.PublishedAt == nil {
		t.Error("Publish() did not make the survey available")
	}
	if err := s.Publish(); !errors.Is(err, ErrSurveyAlreadyPublished) {
		t.Errorf("Publish() error = %v, want ErrSurveyAlreadyPublished", err)
	}
	if err := s.Unpublish(); err != nil {
		t.Errorf("Unpublish() error = %v", err)
	}
}

func TestSurvey_IsOwnedBy(t *testing.T) {
	s := &Survey{OwnerID: "user-1"}
	tests := []struct {
		name     string
		userID   string
		expected bool
	}{
		{"Owner", "user-1", true},
		{"Other user", "user-2", false},
		{"Empty user", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsOwnedBy(tt.userID); got != tt.expected {
				t.Errorf("IsOwnedBy() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSurveySettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings SurveySettings
		wantErr  bool
	}{
		{"Empty settings", SurveySettings{}, false},
		{"Quiz", SurveySettings{Scoring: &ScoringSettings{IsQuiz: true, PassingScore: intPtr(80)}}, false},
		{"Passing score over 100", SurveySettings{Scoring: &ScoringSettings{PassingScore: intPtr(120)}}, true},
		{"Unknown mode", SurveySettings{Scoring: &ScoringSettings{Mode: "PARTIAL"}}, true},
		{"Negative file limit", SurveySettings{Limits: &LimitSettings{MaxFiles: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWebhookSettings_WantsEvent(t *testing.T) {
	tests := []struct {
		name     string
		webhook  *WebhookSettings
		expected bool
	}{
		{"Nil", nil, false},
		{"No URL", &WebhookSettings{Events: []string{EventResponseCompleted}}, false},
		{"Subscribed", &WebhookSettings{URL: "https://example.com/hook", Events: []string{EventResponseCompleted}}, true},
		{"Other event", &WebhookSettings{URL: "https://example.com/hook", Events: []string{"survey.published"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.webhook.WantsEvent(EventResponseCompleted); got != tt.expected {
				t.Errorf("WantsEvent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResponse_SetScore(t *testing.T) {
	r := &Response{}
	r.SetScore(ScoreResult{Total: 10, Max: 30, Percentage: 33}, DefaultPassingScore)

	if r.Score == nil || r.Score.Percentage != 33 {
		t.Fatalf("SetScore() Score = %v, want percentage 33", r.Score)
	}
	if r.Passed == nil || *r.Passed {
		t.Errorf("SetScore() Passed = %v, want false", r.Passed)
	}
}
