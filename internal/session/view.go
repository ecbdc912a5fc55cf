package session

import (
	"time"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// SurveyView is the respondent-facing part of a survey
type SurveyView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Theme           *models.ThemeSettings `json:"theme,omitempty"`
	ShowProgressBar bool                  `json:"show_progress_bar"`
	SaveProgress    bool                  `json:"save_progress"`
	IsQuiz          bool                  `json:"is_quiz"`
	Languages       []string              `json:"languages,omitempty"`
	DefaultLanguage string                `json:"default_language,omitempty"`
	MaxFileSizeMB   int                   `json:"max_file_size_mb"`
	MaxFiles        int                   `json:"max_files"`
	AllowedTypes    []string              `json:"allowed_file_types"`
}

// View is a point-in-time snapshot of a session
// #IMPLEMENTATION_DECISION: Questions never carry correct answers to respondents
type View struct {
	SessionID          string              `json:"session_id"`
	Survey             SurveyView          `json:"survey"`
	State              State               `json:"state"`
	Questions          []models.Question   `json:"questions"`
	VisibleQuestionIDs []string            `json:"visible_question_ids"`
	Answers            models.Answers      `json:"answers"`
	Progress           int                 `json:"progress"`
	Error              string              `json:"error,omitempty"`
	Score              *models.ScoreResult `json:"score,omitempty"`
	Passed             *bool               `json:"passed,omitempty"`
	ResponseID         string              `json:"response_id,omitempty"`
	StartedAt          time.Time           `json:"started_at"`
	LastActivityAt     time.Time           `json:"last_activity_at"`
}

// Snapshot returns a copy of the session safe to hand to respondents
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]models.Question, len(s.questions))
	for i, q := range s.questions {
		q.CorrectAnswer = nil
		q.Options = append([]string{}, q.Options...)
		questions[i] = q
	}

	v := View{
		SessionID:          s.id,
		Survey:             s.surveyView(),
		State:              s.state,
		Questions:          questions,
		VisibleQuestionIDs: append([]string{}, s.visible...),
		Answers:            s.answers.Clone(),
		Progress:           s.progressPercent(),
		Error:              s.lastError,
		ResponseID:         s.responseID,
		StartedAt:          s.startedAt,
		LastActivityAt:     s.touchedAt,
	}
	if s.state == StateCompleted && s.config.ShowScore {
		v.Score = s.score
		v.Passed = s.passed
	}
	return v
}

func (s *Session) surveyView() SurveyView {
	return SurveyView{
		ID:              s.survey.ID.Hex(),
		Title:           s.survey.Title,
		Description:     s.survey.Description,
		Theme:           s.survey.Settings.Theme,
		ShowProgressBar: s.config.ShowProgressBar,
		SaveProgress:    s.config.SaveProgress,
		IsQuiz:          s.config.IsQuiz,
		Languages:       s.survey.Settings.Languages,
		DefaultLanguage: s.survey.Settings.DefaultLanguage,
		MaxFileSizeMB:   s.config.FileLimits.MaxFileSizeMB,
		MaxFiles:        s.config.FileLimits.MaxFiles,
		AllowedTypes:    s.config.FileLimits.AllowedTypes,
	}
}
