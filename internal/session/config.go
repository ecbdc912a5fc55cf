package session

import (
	"github.com/surveyforge/surveyforge_backend/internal/engine"
	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// Config is the resolved per-session behavior of a survey. It is built once
// at load time so no other code reads optional settings fields.
type Config struct {
	RandomizeQuestions bool
	RandomizeOptions   bool

	ShowProgressBar bool // default true
	SaveProgress    bool

	IsQuiz       bool
	ShowScore    bool
	PassingScore int                // default 70
	ScoringMode  models.ScoringMode // default completion

	FileLimits engine.FileLimits // defaults 10MB, 5 files, images/pdf/doc
}

// ConfigFromSettings applies the documented defaults to a survey's settings
func ConfigFromSettings(s models.SurveySettings) Config {
	cfg := Config{
		ShowProgressBar: true,
		PassingScore:    models.DefaultPassingScore,
		ScoringMode:     models.ScoringModeCompletion,
		FileLimits: engine.FileLimits{
			MaxFileSizeMB: models.DefaultMaxFileSizeMB,
			MaxFiles:      models.DefaultMaxFiles,
			AllowedTypes:  engine.DefaultAllowedFileTypes,
		},
	}

	if r := s.Randomization; r != nil {
		cfg.RandomizeQuestions = r.RandomizeQuestions
		cfg.RandomizeOptions = r.RandomizeOptions
	}
	if p := s.Progress; p != nil {
		if p.ShowProgressBar != nil {
			cfg.ShowProgressBar = *p.ShowProgressBar
		}
		cfg.SaveProgress = p.AllowSaveProgress
	}
	if sc := s.Scoring; sc != nil {
		cfg.IsQuiz = sc.IsQuiz
		cfg.ShowScore = sc.ShowScore
		if sc.PassingScore != nil {
			cfg.PassingScore = *sc.PassingScore
		}
		if sc.Mode != "" {
			cfg.ScoringMode = sc.Mode
		}
	}
	if l := s.Limits; l != nil {
		if l.MaxFileSizeMB > 0 {
			cfg.FileLimits.MaxFileSizeMB = l.MaxFileSizeMB
		}
		if l.MaxFiles > 0 {
			cfg.FileLimits.MaxFiles = l.MaxFiles
		}
		if len(l.AllowedFileTypes) > 0 {
			cfg.FileLimits.AllowedTypes = l.AllowedFileTypes
		}
	}
	return cfg
}

func (c Config) randomizeOptions() engine.RandomizeOptions {
	return engine.RandomizeOptions{Questions: c.RandomizeQuestions, Options: c.RandomizeOptions}
}
