package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/session"
)

// recordingNotifier records notified response ids
type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *recordingNotifier) NotifyResponseCompleted(_ context.Context, _ *models.Survey, response *models.Response, _ models.Answers) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, response.ID.Hex())
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestPersistence(repos *mockRepos, notifier WebhookNotifier) (*sessionPersistence, chan struct{}) {
	done := make(chan struct{}, 4)
	p := NewSessionPersistence(repos.surveys, repos.questions, repos.responses, repos.answers, nil, notifier).(*sessionPersistence)
	p.notified = func() { done <- struct{}{} }
	return p, done
}

func waitNotified(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification did not run")
	}
}

func TestSessionPersistence_FetchSurvey(t *testing.T) {
	repos := newMockRepos()
	survey := repos.seedSurvey("owner-1", models.SurveySettings{},
		textQuestion(1, "Second", false),
		textQuestion(0, "First", false),
	)
	p, _ := newTestPersistence(repos, nil)

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "existing survey", id: survey.ID.Hex()},
		{name: "malformed id", id: "not-an-id", wantErr: models.ErrSurveyNotFound},
		{name: "unknown id", id: "64b7f0c2a1b2c3d4e5f60718", wantErr: models.ErrSurveyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.FetchSurvey(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FetchSurvey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchSurvey() unexpected error: %v", err)
			}
			if got.ID != survey.ID {
				t.Errorf("FetchSurvey() id = %s, want %s", got.ID.Hex(), survey.ID.Hex())
			}
		})
	}

	questions, err := p.FetchQuestions(context.Background(), survey.ID.Hex())
	if err != nil {
		t.Fatalf("FetchQuestions() error = %v", err)
	}
	if len(questions) != 2 || questions[0].Text != "First" {
		t.Errorf("FetchQuestions() = %v, want ordered by order_index", questions)
	}
}

func TestSessionPersistence_SubmitResponse(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	q := textQuestion(0, "Name?", true)
	survey := repos.seedSurvey("owner-1", models.SurveySettings{}, q)
	notifier := &recordingNotifier{}
	p, done := newTestPersistence(repos, notifier)

	req := session.SubmitRequest{
		SurveyID:        survey.ID.Hex(),
		SessionID:       "session-1",
		Answers:         models.Answers{q.Key(): models.TextAnswer("Ada"), "legacy-key": models.TextAnswer("x")},
		RespondentEmail: "ada@example.com",
		IPAddress:       "10.0.0.1",
		StartedAt:       time.Now().Add(-time.Minute),
	}

	receipt, err := p.SubmitResponse(ctx, req)
	if err != nil {
		t.Fatalf("SubmitResponse() error = %v", err)
	}
	waitNotified(t, done)

	stored, err := repos.responses.GetBySession(ctx, "session-1")
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if stored.ID.Hex() != receipt.ResponseID {
		t.Errorf("ResponseID = %s, want %s", receipt.ResponseID, stored.ID.Hex())
	}
	if !stored.IsCompleted() {
		t.Error("stored response should be completed")
	}
	if stored.RespondentEmail != "ada@example.com" || stored.IPAddress != "10.0.0.1" {
		t.Errorf("stored metadata = %q/%q", stored.RespondentEmail, stored.IPAddress)
	}
	if n := repos.answers.count(); n != 1 {
		t.Errorf("stored answers = %d, want 1 (non-question keys skipped)", n)
	}
	if n := notifier.count(); n != 1 {
		t.Errorf("notifications = %d, want 1", n)
	}

	// A retried submit of the same session returns the stored response
	again, err := p.SubmitResponse(ctx, req)
	if err != nil {
		t.Fatalf("SubmitResponse() retry error = %v", err)
	}
	waitNotified(t, done)
	if again.ResponseID != receipt.ResponseID {
		t.Errorf("retry ResponseID = %s, want %s", again.ResponseID, receipt.ResponseID)
	}
	if n := repos.answers.count(); n != 1 {
		t.Errorf("stored answers after retry = %d, want 1", n)
	}
}

func TestSessionPersistence_SubmitResponse_ResumesAfterAnswerFailure(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	q := textQuestion(0, "Name?", true)
	survey := repos.seedSurvey("owner-1", models.SurveySettings{}, q)
	notifier := &recordingNotifier{}
	p, done := newTestPersistence(repos, notifier)

	req := session.SubmitRequest{
		SurveyID:  survey.ID.Hex(),
		SessionID: "session-2",
		Answers:   models.Answers{q.Key(): models.TextAnswer("Grace")},
	}

	repos.answers.createErr = errors.New("write conflict")
	if _, err := p.SubmitResponse(ctx, req); err == nil {
		t.Fatal("SubmitResponse() expected error when answers fail to store")
	}
	if n := notifier.count(); n != 0 {
		t.Errorf("notifications after failed submit = %d, want 0", n)
	}

	repos.answers.createErr = nil
	receipt, err := p.SubmitResponse(ctx, req)
	if err != nil {
		t.Fatalf("SubmitResponse() retry error = %v", err)
	}
	waitNotified(t, done)

	if n := repos.answers.count(); n != 1 {
		t.Errorf("stored answers = %d, want 1", n)
	}
	stored, _ := repos.responses.GetBySession(ctx, "session-2")
	if stored.ID.Hex() != receipt.ResponseID {
		t.Errorf("ResponseID = %s, want %s", receipt.ResponseID, stored.ID.Hex())
	}
	if n := notifier.count(); n != 1 {
		t.Errorf("notifications after retry = %d, want 1", n)
	}
}

func TestSessionPersistence_SubmitResponse_RetryRewritesPartialAnswers(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	q1 := textQuestion(0, "Name?", true)
	q2 := textQuestion(1, "City?", true)
	survey := repos.seedSurvey("owner-1", models.SurveySettings{}, q1, q2)
	notifier := &recordingNotifier{}
	p, done := newTestPersistence(repos, notifier)

	firstScore := &models.ScoreResult{Total: 1, Max: 2, Percentage: 50}
	req := session.SubmitRequest{
		SurveyID:  survey.ID.Hex(),
		SessionID: "session-4",
		Answers: models.Answers{
			q1.Key(): models.TextAnswer("Ada"),
			q2.Key(): models.TextAnswer("London"),
		},
		Score: firstScore,
	}
	receipt, err := p.SubmitResponse(ctx, req)
	if err != nil {
		t.Fatalf("SubmitResponse() error = %v", err)
	}
	waitNotified(t, done)

	// Only one of the two answers survived the first write
	repos.answers.truncate(1)

	passed := true
	req.Score = &models.ScoreResult{Total: 2, Max: 2, Percentage: 100}
	req.Passed = &passed
	req.RespondentEmail = "ada@example.com"
	again, err := p.SubmitResponse(ctx, req)
	if err != nil {
		t.Fatalf("SubmitResponse() retry error = %v", err)
	}
	waitNotified(t, done)

	if again.ResponseID != receipt.ResponseID {
		t.Errorf("retry ResponseID = %s, want %s", again.ResponseID, receipt.ResponseID)
	}

	stored, err := repos.responses.GetBySession(ctx, "session-4")
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	answers, _ := repos.answers.ListByResponse(ctx, stored.ID)
	if len(answers) != 2 {
		t.Errorf("stored answers after retry = %d, want 2", len(answers))
	}
	if stored.Score == nil || stored.Score.Percentage != 100 {
		t.Errorf("stored score = %+v, want percentage 100", stored.Score)
	}
	if stored.Passed == nil || !*stored.Passed {
		t.Errorf("stored passed = %v, want true", stored.Passed)
	}
	if stored.RespondentEmail != "ada@example.com" {
		t.Errorf("stored email = %q, want ada@example.com", stored.RespondentEmail)
	}
	if n := notifier.count(); n != 2 {
		t.Errorf("notifications = %d, want 2", n)
	}
}

func TestSessionPersistence_SubmitResponse_UsesTransactions(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepos()
	q := textQuestion(0, "Name?", true)
	survey := repos.seedSurvey("owner-1", models.SurveySettings{}, q)
	tx := &mockTransactor{}
	p := NewSessionPersistence(repos.surveys, repos.questions, repos.responses, repos.answers, tx, nil)

	req := session.SubmitRequest{
		SurveyID:  survey.ID.Hex(),
		SessionID: "session-5",
		Answers:   models.Answers{q.Key(): models.TextAnswer("Ada")},
	}

	tests := []struct {
		name      string
		wantCalls int
	}{
		{name: "first submit runs one transaction", wantCalls: 1},
		{name: "retry runs a second transaction for the rewrite", wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.SubmitResponse(ctx, req); err != nil {
				t.Fatalf("SubmitResponse() error = %v", err)
			}
			if got := tx.count(); got != tt.wantCalls {
				t.Errorf("transactions = %d, want %d", got, tt.wantCalls)
			}
			if n := repos.answers.count(); n != 1 {
				t.Errorf("stored answers = %d, want 1", n)
			}
		})
	}
}

func TestSessionPersistence_SubmitResponse_NotifierFailureIgnored(t *testing.T) {
	repos := newMockRepos()
	q := textQuestion(0, "Name?", false)
	survey := repos.seedSurvey("owner-1", models.SurveySettings{}, q)
	notifier := &recordingNotifier{err: errors.New("endpoint down")}
	p, done := newTestPersistence(repos, notifier)

	_, err := p.SubmitResponse(context.Background(), session.SubmitRequest{
		SurveyID:  survey.ID.Hex(),
		SessionID: "session-3",
		Answers:   models.Answers{},
	})
	if err != nil {
		t.Fatalf("SubmitResponse() error = %v, want nil despite notifier failure", err)
	}
	waitNotified(t, done)
}
