package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/surveyforge/surveyforge_backend/internal/middleware"
	"github.com/surveyforge/surveyforge_backend/internal/models"
	"github.com/surveyforge/surveyforge_backend/internal/repository"
	"github.com/surveyforge/surveyforge_backend/internal/services"
)

// mockSurveyService overrides the methods exercised by the tests; the
// embedded interface panics on anything else
type mockSurveyService struct {
	services.SurveyService
	surveys map[primitive.ObjectID]*models.Survey
	owner   string
	count   int
}

func newMockSurveyService(owner string) *mockSurveyService {
	return &mockSurveyService{surveys: make(map[primitive.ObjectID]*models.Survey), owner: owner}
}

func (m *mockSurveyService) add(title string) *models.Survey {
	s := &models.Survey{ID: primitive.NewObjectID(), OwnerID: m.owner, Title: title}
	m.surveys[s.ID] = s
	return s
}

func (m *mockSurveyService) GetSurvey(_ context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error) {
	s, ok := m.surveys[id]
	if !ok || s.OwnerID != ownerID {
		return nil, models.ErrSurveyNotFound
	}
	return s, nil
}

func (m *mockSurveyService) CreateSurvey(_ context.Context, ownerID string, req services.CreateSurveyRequest) (*models.Survey, error) {
	s := &models.Survey{ID: primitive.NewObjectID(), OwnerID: ownerID, Title: req.Title}
	m.surveys[s.ID] = s
	return s, nil
}

func (m *mockSurveyService) GetSurveyWithQuestions(ctx context.Context, id primitive.ObjectID, ownerID string) (*services.SurveyWithQuestions, error) {
	s, err := m.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return &services.SurveyWithQuestions{Survey: s, Questions: []models.Question{}}, nil
}

func (m *mockSurveyService) ListSurveys(_ context.Context, ownerID string, opts repository.PaginationOptions) (*repository.PaginatedResult[models.Survey], error) {
	return &repository.PaginatedResult[models.Survey]{Page: opts.Page, Limit: opts.Limit}, nil
}

func (m *mockSurveyService) PublishSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) (*models.Survey, error) {
	s, err := m.GetSurvey(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if m.count == 0 {
		return nil, fmt.Errorf("%w: survey has no questions", models.ErrInvalidInput)
	}
	if err := s.Publish(); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *mockSurveyService) DeleteSurvey(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	if _, err := m.GetSurvey(ctx, id, ownerID); err != nil {
		return err
	}
	delete(m.surveys, id)
	return nil
}

func (m *mockSurveyService) ReorderQuestions(_ context.Context, _ primitive.ObjectID, _ string, orders map[string]int) ([]models.Question, error) {
	if len(orders) == 0 {
		return nil, models.ErrInvalidInput
	}
	return []models.Question{}, nil
}

// asUser injects an authenticated user the way AuthMiddleware does
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

func newSurveyRouter(svc services.SurveyService, userID string) *gin.Engine {
	router := gin.New()
	NewSurveyHandler(svc).RegisterRoutes(router.Group("/api/v1"), asUser(userID))
	return router
}

func TestSurveyHandler_Unauthorized(t *testing.T) {
	router := newSurveyRouter(newMockSurveyService("owner-1"), "")

	w := doJSON(router, "GET", "/api/v1/surveys", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSurveyHandler_CreateSurvey(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{name: "valid", body: services.CreateSurveyRequest{Title: "Feedback"}, wantStatus: http.StatusCreated},
		{name: "missing title", body: map[string]string{"description": "x"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newSurveyRouter(newMockSurveyService("owner-1"), "owner-1")
			w := doJSON(router, "POST", "/api/v1/surveys", tt.body, nil)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var survey models.Survey
			if err := json.Unmarshal(w.Body.Bytes(), &survey); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if survey.OwnerID != "owner-1" {
				t.Errorf("Expected owner 'owner-1', got '%s'", survey.OwnerID)
			}
		})
	}
}

func TestSurveyHandler_GetSurvey(t *testing.T) {
	svc := newMockSurveyService("owner-1")
	survey := svc.add("Mine")

	tests := []struct {
		name       string
		path       string
		userID     string
		wantStatus int
	}{
		{name: "owner", path: "/api/v1/surveys/" + survey.ID.Hex(), userID: "owner-1", wantStatus: http.StatusOK},
		{name: "other owner", path: "/api/v1/surveys/" + survey.ID.Hex(), userID: "owner-2", wantStatus: http.StatusNotFound},
		{name: "malformed id", path: "/api/v1/surveys/not-an-id", userID: "owner-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(newSurveyRouter(svc, tt.userID), "GET", tt.path, nil, nil)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSurveyHandler_PublishSurvey(t *testing.T) {
	svc := newMockSurveyService("owner-1")
	survey := svc.add("Draft")
	router := newSurveyRouter(svc, "owner-1")
	path := "/api/v1/surveys/" + survey.ID.Hex() + "/publish"

	w := doJSON(router, "POST", path, nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d without questions, got %d", http.StatusBadRequest, w.Code)
	}

	svc.count = 1
	w = doJSON(router, "POST", path, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(router, "POST", path, nil, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d when already published, got %d", http.StatusConflict, w.Code)
	}
}

func TestSurveyHandler_DeleteSurvey(t *testing.T) {
	svc := newMockSurveyService("owner-1")
	survey := svc.add("Old")
	router := newSurveyRouter(svc, "owner-1")

	w := doJSON(router, "DELETE", "/api/v1/surveys/"+survey.ID.Hex(), nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}

	w = doJSON(router, "DELETE", "/api/v1/surveys/"+survey.ID.Hex(), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestSurveyHandler_ReorderQuestions(t *testing.T) {
	svc := newMockSurveyService("owner-1")
	survey := svc.add("Ordered")
	router := newSurveyRouter(svc, "owner-1")
	path := "/api/v1/surveys/" + survey.ID.Hex() + "/question-order"

	w := doJSON(router, "PUT", path, map[string]interface{}{"orders": map[string]int{"q1": 0}}, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(router, "PUT", path, map[string]interface{}{}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d for missing orders, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestPaginationFromQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantDir   int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20, wantDir: -1},
		{name: "explicit", query: "?page=3&limit=50&sort_dir=asc", wantPage: 3, wantLimit: 50, wantDir: 1},
		{name: "out of range limit", query: "?page=0&limit=1000", wantPage: 1, wantLimit: 20, wantDir: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got repository.PaginationOptions
			router := gin.New()
			router.GET("/p", func(c *gin.Context) {
				got = paginationFromQuery(c)
			})
			doJSON(router, "GET", "/p"+tt.query, nil, nil)

			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.SortDir != tt.wantDir {
				t.Errorf("paginationFromQuery() = %+v, want page %d limit %d dir %d", got, tt.wantPage, tt.wantLimit, tt.wantDir)
			}
		})
	}
}
