package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const webhookSinkName = "webhook"

// WebhookSink posts the intent as JSON to a fixed URL.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookSink{url: url, client: client}
}

func (w *WebhookSink) Name() string {
	return webhookSinkName
}

func (w *WebhookSink) Deliver(ctx context.Context, intent Intent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %s", resp.Status)
	}
	return nil
}

// LogSink writes intents to the process log.
type LogSink struct{}

func (LogSink) Name() string {
	return "log"
}

func (LogSink) Deliver(_ context.Context, intent Intent) error {
	log.Printf("[notify] %s -> %v: %q", intent.Reason, intent.UserIDs, intent.ItemTitle)
	return nil
}
