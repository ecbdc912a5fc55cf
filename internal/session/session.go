// Package session runs one respondent's pass through a survey: it loads and
// orders the questions once, validates each answer, keeps the visible set
// current, saves partial progress and hands the finished response to the
// persistence collaborator.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surveyforge/surveyforge_backend/internal/engine"
	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/progress"
)

// State is the lifecycle position of a session
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Persistence is the collaborator that owns surveys and stored responses
// #INTEGRATION_POINT: Implemented over the MongoDB repositories by the services package
type Persistence interface {
	FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
	// FetchQuestions returns the survey's questions ordered by order_index
	FetchQuestions(ctx context.Context, surveyID string) ([]models.Question, error)
	SubmitResponse(ctx context.Context, req SubmitRequest) (*Receipt, error)
}

// SubmitRequest is the finished response handed to the collaborator
type SubmitRequest struct {
	SurveyID        string
	SessionID       string
	Answers         models.Answers
	Score           *models.ScoreResult
	Passed          *bool
	RespondentEmail string
	IPAddress       string
	StartedAt       time.Time
}

// Receipt acknowledges a stored response
type Receipt struct {
	ResponseID string
}

// Metadata describes the respondent at submit time
type Metadata struct {
	RespondentEmail string
	IPAddress       string
}

// AnswerResult is returned for every answer mutation
type AnswerResult struct {
	Validation         engine.ValidationResult `json:"validation"`
	VisibleQuestionIDs []string                `json:"visible_question_ids"`
	Progress           int                     `json:"progress"`
}

// SubmitResult is returned by a successful submit
type SubmitResult struct {
	ResponseID string              `json:"response_id"`
	Score      *models.ScoreResult `json:"score,omitempty"`
	Passed     *bool               `json:"passed,omitempty"`
}

// progressRecord is the saved partial answer set
type progressRecord struct {
	Answers   map[string]json.RawMessage `json:"answers"`
	Timestamp int64                      `json:"timestamp"`
}

// Session is one respondent's pass through a survey. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id          string
	survey      *models.Survey
	config      Config
	questions   []models.Question
	byID        map[string]int
	persistence Persistence
	store       progress.Store
	now         func() time.Time

	state      State
	answers    models.Answers
	visible    []string
	lastError  string
	score      *models.ScoreResult
	passed     *bool
	responseID string
	startedAt  time.Time
	touchedAt  time.Time
}

// Option customizes Load
type Option func(*options)

type options struct {
	id         string
	store      progress.Store
	randomizer *engine.Randomizer
	now        func() time.Time
}

// WithID sets the session id instead of generating one
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithProgressStore enables saving partial progress into store
func WithProgressStore(store progress.Store) Option {
	return func(o *options) { o.store = store }
}

// WithRandomizer sets the randomizer used to order questions and options
func WithRandomizer(r *engine.Randomizer) Option {
	return func(o *options) { o.randomizer = r }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Load fetches the survey and its questions and starts a session.
// A missing or unpublished survey yields models.ErrSurveyUnavailable.
// The question order is randomized here, once, for the session's lifetime.
func Load(ctx context.Context, p Persistence, surveyID string, opts ...Option) (*Session, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.New().String()
	}
	if o.randomizer == nil {
		o.randomizer = engine.NewRandomizer(nil)
	}

	survey, err := p.FetchSurvey(ctx, surveyID)
	if err != nil {
		if models.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrSurveyUnavailable, surveyID)
		}
		return nil, fmt.Errorf("failed to fetch survey: %w", err)
	}
	if !survey.IsAvailable() {
		return nil, fmt.Errorf("%w: %s", models.ErrSurveyUnavailable, surveyID)
	}

	questions, err := p.FetchQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})

	cfg := ConfigFromSettings(survey.Settings)
	ordered := o.randomizer.Apply(questions, cfg.randomizeOptions())

	now := o.now()
	s := &Session{
		id:          o.id,
		survey:      survey,
		config:      cfg,
		questions:   ordered,
		byID:        make(map[string]int, len(ordered)),
		persistence: p,
		store:       o.store,
		now:         o.now,
		state:       StateLoading,
		answers:     models.Answers{},
		startedAt:   now,
		touchedAt:   now,
	}
	for i := range ordered {
		s.byID[ordered[i].Key()] = i
	}

	if cfg.SaveProgress && s.store != nil {
		s.restoreProgress(ctx)
	}
	s.visible = engine.VisibleIDs(s.questions, s.answers)
	s.state = StateInProgress

	return s, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// SurveyID returns the id of the survey being taken
func (s *Session) SurveyID() string {
	return s.survey.ID.Hex()
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns the resolved survey behavior
func (s *Session) Config() Config {
	return s.config
}

// LastActivity returns the time of the last accepted mutation
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// SetAnswer validates value for the question and, when valid, records it,
// saves progress and recomputes the visible set. A rejected answer leaves the
// answer set untouched and returns an error wrapping models.ErrValidationFailed.
func (s *Session) SetAnswer(ctx context.Context, questionID string, value models.AnswerValue) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkMutable(); err != nil {
		return AnswerResult{}, err
	}

	idx, ok := s.byID[questionID]
	if !ok {
		return AnswerResult{}, models.ErrQuestionNotFound
	}
	q := &s.questions[idx]

	value, err := value.ConformTo(q.Type)
	if err != nil {
		return AnswerResult{}, err
	}
	if err := q.AcceptsAnswer(value); err != nil {
		return AnswerResult{}, err
	}

	result := engine.Validate(q, value)
	if result.Valid && q.Type == models.QuestionTypeFile {
		result = engine.ValidateFiles(value.Files, s.config.FileLimits)
	}
	if !result.Valid {
		return s.answerResult(result), result.Err(questionID)
	}

	answers := s.answers.Clone()
	answers[questionID] = value
	s.answers = answers
	s.touchedAt = s.now()
	if s.state == StateFailed {
		s.state = StateInProgress
		s.lastError = ""
	}

	if s.config.SaveProgress && s.store != nil {
		s.saveProgress(ctx)
	}
	s.visible = engine.VisibleIDs(s.questions, s.answers)

	return s.answerResult(result), nil
}

// Submit checks required questions over the visible set, scores quiz surveys
// and hands the response to the collaborator. The lock is released for the
// duration of that call; ctx cancels it. A collaborator error moves the
// session to failed, from which Submit may be retried.
func (s *Session) Submit(ctx context.Context, meta Metadata) (*SubmitResult, error) {
	s.mu.Lock()
	if err := s.checkMutable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	visible := engine.VisibleQuestions(s.questions, s.answers)
	s.visible = questionIDs(visible)
	for i := range visible {
		if visible[i].Required && s.answers[visible[i].Key()].IsBlank() {
			s.state = StateInProgress
			s.lastError = models.ErrRequiredFieldMissing.Error()
			s.mu.Unlock()
			return nil, models.ErrRequiredFieldMissing
		}
	}

	req := SubmitRequest{
		SurveyID:        s.SurveyID(),
		SessionID:       s.id,
		Answers:         nonEmpty(s.answers),
		RespondentEmail: meta.RespondentEmail,
		IPAddress:       meta.IPAddress,
		StartedAt:       s.startedAt,
	}
	if s.config.IsQuiz {
		score := engine.Score(visible, s.answers, s.config.ScoringMode)
		passed := score.Passed(s.config.PassingScore)
		req.Score = &score
		req.Passed = &passed
	}

	s.state = StateSubmitting
	s.lastError = ""
	s.mu.Unlock()

	receipt, err := s.persistence.SubmitResponse(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.lastError = models.ErrSubmissionTransport.Error()
		log.Printf("[SESSION] Submit failed for session %s survey %s: %v", s.id, req.SurveyID, err)
		return nil, fmt.Errorf("%w: %w", models.ErrSubmissionTransport, err)
	}

	s.state = StateCompleted
	s.responseID = receipt.ResponseID
	s.score = req.Score
	s.passed = req.Passed
	s.touchedAt = s.now()

	if s.config.SaveProgress && s.store != nil {
		if err := s.store.Delete(ctx, progress.Key(req.SurveyID)); err != nil {
			log.Printf("[SESSION] Failed to clear saved progress for survey %s: %v", req.SurveyID, err)
		}
	}

	result := &SubmitResult{ResponseID: receipt.ResponseID}
	if s.config.ShowScore {
		result.Score = s.score
		result.Passed = s.passed
	}
	return result, nil
}

func (s *Session) checkMutable() error {
	switch s.state {
	case StateCompleted:
		return models.ErrSessionCompleted
	case StateSubmitting:
		return models.ErrSubmissionInProgress
	case StateLoading:
		return models.ErrSessionNotReady
	}
	return nil
}

func (s *Session) answerResult(v engine.ValidationResult) AnswerResult {
	return AnswerResult{
		Validation:         v,
		VisibleQuestionIDs: append([]string{}, s.visible...),
		Progress:           s.progressPercent(),
	}
}

// progressPercent is the share of visible questions with a non-empty answer
func (s *Session) progressPercent() int {
	if len(s.visible) == 0 {
		return 0
	}
	answered := 0
	for _, id := range s.visible {
		if !s.answers[id].IsEmpty() {
			answered++
		}
	}
	return answered * 100 / len(s.visible)
}

func (s *Session) saveProgress(ctx context.Context) {
	record := struct {
		Answers   models.Answers `json:"answers"`
		Timestamp int64          `json:"timestamp"`
	}{Answers: s.answers, Timestamp: s.now().UnixMilli()}

	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("[SESSION] Failed to encode progress for session %s: %v", s.id, err)
		return
	}
	if err := s.store.Set(ctx, progress.Key(s.SurveyID()), data); err != nil {
		log.Printf("[SESSION] Failed to save progress for session %s: %v", s.id, err)
	}
}

// restoreProgress loads a saved answer set. Answers to questions that no longer
// exist or no longer fit their question are dropped.
func (s *Session) restoreProgress(ctx context.Context) {
	key := progress.Key(s.SurveyID())
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, models.ErrProgressNotFound) {
			log.Printf("[SESSION] Failed to read saved progress %s: %v", key, err)
		}
		return
	}

	var record progressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("[SESSION] Ignoring corrupt saved progress %s: %v", key, err)
		return
	}

	restored := 0
	for qid, raw := range record.Answers {
		idx, ok := s.byID[qid]
		if !ok {
			continue
		}
		q := &s.questions[idx]
		value, err := models.DecodeAnswer(q.Type, raw)
		if err != nil || q.AcceptsAnswer(value) != nil {
			continue
		}
		s.answers[qid] = value
		restored++
	}
	if restored > 0 {
		log.Printf("[SESSION] Restored %d saved answers for session %s", restored, s.id)
	}
}

func questionIDs(qs []models.Question) []string {
	ids := make([]string, len(qs))
	for i := range qs {
		ids[i] = qs[i].Key()
	}
	return ids
}

func nonEmpty(answers models.Answers) models.Answers {
	out := make(models.Answers, len(answers))
	for id, v := range answers {
		if !v.IsEmpty() {
			out[id] = v
		}
	}
	return out
}
