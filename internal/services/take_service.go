package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/surveyforge/surveyforge_backend/internal/engine"
	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/progress"
	"github.com/surveyforge/surveyforge_backend/internal/session"
)

// TakeService runs respondents' survey sessions
// #INTEGRATION_POINT: Used by the public take handler
type TakeService interface {
	// StartSession loads a published survey into a new session
	StartSession(ctx context.Context, surveyID, respondentKey string) (*StartedSession, error)

	// GetSession returns a snapshot of a live session
	GetSession(ctx context.Context, sessionID string) (*session.View, error)

	// SetAnswer validates and records one answer
	SetAnswer(ctx context.Context, sessionID, questionID string, value models.AnswerValue) (*session.AnswerResult, error)

	// Submit completes a session
	Submit(ctx context.Context, sessionID string, meta session.Metadata) (*session.SubmitResult, error)

	// SweepIdle evicts sessions idle since before now minus the idle timeout
	SweepIdle(now time.Time) int

	// ActiveSessions returns the number of live sessions
	ActiveSessions() int
}

// StartedSession is returned when a session starts
type StartedSession struct {
	RespondentKey string       `json:"respondent_key"`
	Session       session.View `json:"session"`
}

// TakeConfig holds take service settings
type TakeConfig struct {
	IdleTimeout time.Duration
}

// takeService implements TakeService with sessions held in process memory
// #IMPLEMENTATION_DECISION: Sessions are per-instance state; saved progress survives instance restarts
type takeService struct {
	persistence session.Persistence
	store       progress.Store
	randomizer  *engine.Randomizer
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewTakeService creates a take service. A nil store disables saved progress.
func NewTakeService(persistence session.Persistence, store progress.Store, cfg TakeConfig) TakeService {
	return &takeService{
		persistence: persistence,
		store:       store,
		randomizer:  engine.NewRandomizer(nil),
		idleTimeout: cfg.IdleTimeout,
		sessions:    make(map[string]*session.Session),
	}
}

// StartSession loads a published survey into a new session.
// #SECURITY_CONCERN: Saved progress is scoped by respondent key so respondents never share answers
func (s *takeService) StartSession(ctx context.Context, surveyID, respondentKey string) (*StartedSession, error) {
	if respondentKey == "" {
		respondentKey = uuid.New().String()
	}

	opts := []session.Option{session.WithRandomizer(s.randomizer)}
	if s.store != nil {
		opts = append(opts, session.WithProgressStore(progress.Scoped(s.store, respondentKey)))
	}

	sess, err := session.Load(ctx, s.persistence, surveyID, opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	log.Printf("[TAKE] Started session %s for survey %s", sess.ID(), surveyID)

	return &StartedSession{
		RespondentKey: respondentKey,
		Session:       sess.Snapshot(),
	}, nil
}

// GetSession returns a snapshot of a live session
func (s *takeService) GetSession(_ context.Context, sessionID string) (*session.View, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	view := sess.Snapshot()
	return &view, nil
}

// SetAnswer validates and records one answer. A rejected answer returns the
// result alongside an error wrapping models.ErrValidationFailed.
func (s *takeService) SetAnswer(ctx context.Context, sessionID, questionID string, value models.AnswerValue) (*session.AnswerResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.SetAnswer(ctx, questionID, value)
	return &result, err
}

// Submit completes a session
func (s *takeService) Submit(ctx context.Context, sessionID string, meta session.Metadata) (*session.SubmitResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := sess.Submit(ctx, meta)
	if err != nil {
		return nil, err
	}

	log.Printf("[TAKE] Session %s submitted response %s", sessionID, result.ResponseID)
	return result, nil
}

// SweepIdle evicts sessions idle since before now minus the idle timeout.
// A session in the middle of submitting is kept.
func (s *takeService) SweepIdle(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.State() == session.StateSubmitting {
			continue
		}
		if sess.LastActivity().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// ActiveSessions returns the number of live sessions
func (s *takeService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *takeService) lookup(sessionID string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

// ScheduleIdleSweep registers the idle-session sweep on c
func ScheduleIdleSweep(c *cron.Cron, spec string, svc TakeService) error {
	_, err := c.AddFunc(spec, func() {
		if removed := svc.SweepIdle(time.Now()); removed > 0 {
			log.Printf("[TAKE] Swept %d idle sessions, %d remain", removed, svc.ActiveSessions())
		}
	})
	if err != nil {
		return fmt.Errorf("invalid session sweep schedule %q: %w", spec, err)
	}
	return nil
}
