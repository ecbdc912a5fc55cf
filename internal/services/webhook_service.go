// webhook_service.go delivers survey event notifications to owner-configured URLs.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// WebhookPayload is the JSON body posted to a survey's webhook URL
// #INTEGRATION_POINT: Consumed by owner systems subscribed to response.completed
type WebhookPayload struct {
	Event      string      `json:"event"`
	SurveyID   string      `json:"survey_id"`
	ResponseID string      `json:"response_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       WebhookData `json:"data"`
}

// WebhookData carries the completed response
type WebhookData struct {
	Response *models.Response `json:"response"`
	Answers  models.Answers   `json:"answers"`
}

// WebhookNotifier sends survey event notifications
type WebhookNotifier interface {
	NotifyResponseCompleted(ctx context.Context, survey *models.Survey, response *models.Response, answers models.Answers) error
}

// HTTPWebhookNotifier posts notifications over HTTP
type HTTPWebhookNotifier struct {
	client *http.Client
}

// NewHTTPWebhookNotifier creates a notifier whose requests time out after timeout
func NewHTTPWebhookNotifier(timeout time.Duration) *HTTPWebhookNotifier {
	return &HTTPWebhookNotifier{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NotifyResponseCompleted posts the response.completed event when the survey subscribes to it
func (n *HTTPWebhookNotifier) NotifyResponseCompleted(ctx context.Context, survey *models.Survey, response *models.Response, answers models.Answers) error {
	hooks := survey.Settings.Webhooks
	if !hooks.WantsEvent(models.EventResponseCompleted) {
		return nil
	}

	payload := WebhookPayload{
		Event:      models.EventResponseCompleted,
		SurveyID:   survey.ID.Hex(),
		ResponseID: response.ID.Hex(),
		Timestamp:  time.Now().UTC(),
		Data: WebhookData{
			Response: response,
			Answers:  answers,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hooks.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Survey-Event", models.EventResponseCompleted)

	log.Printf("[WEBHOOK] Sending %s: survey=%s, response=%s", payload.Event, payload.SurveyID, payload.ResponseID)

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("[WEBHOOK] HTTP request failed: %v", err)
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[WEBHOOK] Endpoint error (status %d): %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	log.Printf("[WEBHOOK] Delivered %s: survey=%s, status=%d", payload.Event, payload.SurveyID, resp.StatusCode)
	return nil
}

// NoopWebhookNotifier discards notifications
type NoopWebhookNotifier struct{}

// NotifyResponseCompleted does nothing
func (NoopWebhookNotifier) NotifyResponseCompleted(context.Context, *models.Survey, *models.Response, models.Answers) error {
	return nil
}

var (
	_ WebhookNotifier = (*HTTPWebhookNotifier)(nil)
	_ WebhookNotifier = NoopWebhookNotifier{}
)
