package services

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
)

// mockSurveyRepo is an in-memory SurveyRepository
type mockSurveyRepo struct {
	mu      sync.Mutex
	surveys map[primitive.ObjectID]models.Survey
	getErr  error
}

func newMockSurveyRepo() *mockSurveyRepo {
	return &mockSurveyRepo{surveys: make(map[primitive.ObjectID]models.Survey)}
}

func (r *mockSurveyRepo) Create(_ context.Context, survey *models.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	survey.BeforeCreate()
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *mockSurveyRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.surveys[id]
	if !ok {
		return nil, models.ErrSurveyNotFound
	}
	return &s, nil
}

func (r *mockSurveyRepo) Update(_ context.Context, survey *models.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[survey.ID]; !ok {
		return models.ErrSurveyNotFound
	}
	survey.BeforeUpdate()
	r.surveys[survey.ID] = *survey
	return nil
}

func (r *mockSurveyRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[id]; !ok {
		return models.ErrSurveyNotFound
	}
	delete(r.surveys, id)
	return nil
}

func (r *mockSurveyRepo) ListByOwner(_ context.Context, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts = opts.Normalize()
	var items []models.Survey
	for _, s := range r.surveys {
		if s.OwnerID == ownerID {
			items = append(items, s)
		}
	}
	return &repository.PaginatedResult[models.Survey]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: 1,
	}, nil
}

func (r *mockSurveyRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.ListByOwner(ctx, ownerID, repository.DefaultPaginationOptions())
	if err != nil {
		return 0, err
	}
	return res.TotalCount, nil
}

// mockQuestionRepo is an in-memory QuestionRepository
type mockQuestionRepo struct {
	mu        sync.Mutex
	questions map[primitive.ObjectID]models.Question
}

func newMockQuestionRepo() *mockQuestionRepo {
	return &mockQuestionRepo{questions: make(map[primitive.ObjectID]models.Question)}
}

func (r *mockQuestionRepo) Create(_ context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.BeforeCreate()
	r.questions[q.ID] = *q
	return nil
}

func (r *mockQuestionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return nil, models.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *mockQuestionRepo) Update(_ context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[q.ID]; !ok {
		return models.ErrQuestionNotFound
	}
	q.BeforeUpdate()
	r.questions[q.ID] = *q
	return nil
}

func (r *mockQuestionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.questions[id]; !ok {
		return models.ErrQuestionNotFound
	}
	delete(r.questions, id)
	return nil
}

func (r *mockQuestionRepo) ListBySurvey(_ context.Context, surveyID primitive.ObjectID) ([]models.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Question{}
	for _, q := range r.questions {
		if q.SurveyID == surveyID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *mockQuestionRepo) DeleteBySurvey(_ context.Context, surveyID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, q := range r.questions {
		if q.SurveyID == surveyID {
			delete(r.questions, id)
			n++
		}
	}
	return n, nil
}

func (r *mockQuestionRepo) UpdateOrder(_ context.Context, _ primitive.ObjectID, orders map[primitive.ObjectID]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, order := range orders {
		q, ok := r.questions[id]
		if !ok {
			return models.ErrQuestionNotFound
		}
		q.OrderIndex = order
		r.questions[id] = q
	}
	return nil
}

func (r *mockQuestionRepo) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	qs, err := r.ListBySurvey(ctx, surveyID)
	return int64(len(qs)), err
}

// mockResponseRepo is an in-memory ResponseRepository with a unique session index
type mockResponseRepo struct {
	mu        sync.Mutex
	responses []models.Response
	createErr error
}

func newMockResponseRepo() *mockResponseRepo {
	return &mockResponseRepo{}
}

func (r *mockResponseRepo) Create(_ context.Context, resp *models.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.responses {
		if resp.SessionID != "" && existing.SessionID == resp.SessionID {
			return models.ErrAlreadyExists
		}
	}
	resp.BeforeCreate()
	r.responses = append(r.responses, *resp)
	return nil
}

func (r *mockResponseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.responses {
		if resp.ID == id {
			return &resp, nil
		}
	}
	return nil, models.ErrResponseNotFound
}

func (r *mockResponseRepo) GetBySession(_ context.Context, sessionID string) (*models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resp := range r.responses {
		if resp.SessionID == sessionID {
			return &resp, nil
		}
	}
	return nil, models.ErrResponseNotFound
}

func (r *mockResponseRepo) Update(_ context.Context, resp *models.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.responses {
		if r.responses[i].ID == resp.ID {
			r.responses[i] = *resp
			return nil
		}
	}
	return models.ErrResponseNotFound
}

func (r *mockResponseRepo) ListBySurvey(ctx context.Context, surveyID primitive.ObjectID, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Response], error) {
	items, _ := r.ListAllBySurvey(ctx, surveyID)
	opts = opts.Normalize()
	return &repository.PaginatedResult[models.Response]{
		Items:      items,
		TotalCount: int64(len(items)),
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: 1,
	}, nil
}

func (r *mockResponseRepo) ListAllBySurvey(_ context.Context, surveyID primitive.ObjectID) ([]models.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Response{}
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			out = append(out, resp)
		}
	}
	return out, nil
}

func (r *mockResponseRepo) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	items, err := r.ListAllBySurvey(ctx, surveyID)
	return int64(len(items)), err
}

func (r *mockResponseRepo) DeleteBySurvey(_ context.Context, surveyID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.responses[:0]
	var n int64
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			n++
			continue
		}
		kept = append(kept, resp)
	}
	r.responses = kept
	return n, nil
}

// mockAnswerRepo is an in-memory AnswerRepository
type mockAnswerRepo struct {
	mu        sync.Mutex
	answers   []models.Answer
	createErr error
}

func newMockAnswerRepo() *mockAnswerRepo {
	return &mockAnswerRepo{}
}

func (r *mockAnswerRepo) CreateMany(_ context.Context, answers []models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for i := range answers {
		answers[i].BeforeCreate()
	}
	r.answers = append(r.answers, answers...)
	return nil
}

func (r *mockAnswerRepo) ListBySurvey(_ context.Context, surveyID primitive.ObjectID) ([]models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Answer{}
	for _, a := range r.answers {
		if a.SurveyID == surveyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAnswerRepo) ListByResponse(_ context.Context, responseID primitive.ObjectID) ([]models.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Answer{}
	for _, a := range r.answers {
		if a.ResponseID == responseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAnswerRepo) DeleteBySurvey(_ context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.deleteWhere(func(a models.Answer) bool { return a.SurveyID == surveyID }), nil
}

func (r *mockAnswerRepo) DeleteByResponse(_ context.Context, responseID primitive.ObjectID) (int64, error) {
	return r.deleteWhere(func(a models.Answer) bool { return a.ResponseID == responseID }), nil
}

func (r *mockAnswerRepo) deleteWhere(match func(models.Answer) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.answers[:0]
	var n int64
	for _, a := range r.answers {
		if match(a) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.answers = kept
	return n
}

// truncate keeps only the first n stored answers
func (r *mockAnswerRepo) truncate(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < len(r.answers) {
		r.answers = r.answers[:n]
	}
}

func (r *mockAnswerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.answers)
}

// mockTransactor runs fn directly and counts transactions
type mockTransactor struct {
	mu    sync.Mutex
	calls int
}

func (t *mockTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return fn(ctx)
}

func (t *mockTransactor) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// mockRepos bundles the four repositories
type mockRepos struct {
	surveys   *mockSurveyRepo
	questions *mockQuestionRepo
	responses *mockResponseRepo
	answers   *mockAnswerRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		surveys:   newMockSurveyRepo(),
		questions: newMockQuestionRepo(),
		responses: newMockResponseRepo(),
		answers:   newMockAnswerRepo(),
	}
}

func (m *mockRepos) surveyService() SurveyService {
	return NewSurveyService(m.surveys, m.questions, m.responses, m.answers)
}

// seedSurvey stores a published survey owned by ownerID with the given questions
func (m *mockRepos) seedSurvey(ownerID string, settings models.SurveySettings, questions ...models.Question) *models.Survey {
	survey := &models.Survey{OwnerID: ownerID, Title: "Seeded", Settings: settings}
	_ = m.surveys.Create(context.Background(), survey)
	_ = survey.Publish()
	_ = m.surveys.Update(context.Background(), survey)
	for i := range questions {
		questions[i].SurveyID = survey.ID
		_ = m.questions.Create(context.Background(), &questions[i])
	}
	return survey
}

func textQuestion(order int, text string, required bool) models.Question {
	return models.Question{
		ID:         primitive.NewObjectID(),
		Text:       text,
		Type:       models.QuestionTypeText,
		Required:   required,
		OrderIndex: order,
	}
}

var (
	_ repository.SurveyRepository   = (*mockSurveyRepo)(nil)
	_ repository.QuestionRepository = (*mockQuestionRepo)(nil)
	_ repository.ResponseRepository = (*mockResponseRepo)(nil)
	_ repository.AnswerRepository   = (*mockAnswerRepo)(nil)
)
