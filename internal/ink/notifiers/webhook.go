package notifiers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/daniacca/inklings/internal/ink"
)

// WebhookNotifier POSTs events as JSON to a URL. When kinds are set only
// those event kinds are sent.
type WebhookNotifier struct {
	id      string
	url     string
	client  *http.Client
	headers map[string]string
	kinds   map[ink.EventKind]bool
}

// NewWebhookNotifier creates a webhook notifier for the given kinds, or for
// every kind when none are given.
func NewWebhookNotifier(id, url string, kinds ...ink.EventKind) *WebhookNotifier {
	wn := &WebhookNotifier{
		id:      id,
		url:     url,
		client:  &http.Client{Timeout: 5 * time.Second},
		headers: make(map[string]string),
	}
	if len(kinds) > 0 {
		wn.kinds = make(map[ink.EventKind]bool, len(kinds))
		for _, k := range kinds {
			wn.kinds[k] = true
		}
	}
	return wn
}

// SetHeader sets a custom header to include in webhook requests
func (wn *WebhookNotifier) SetHeader(key, value string) {
	wn.headers[key] = value
}

// ID returns the notifier ID
func (wn *WebhookNotifier) ID() string {
	return wn.id
}

// Type returns the notifier type
func (wn *WebhookNotifier) Type() string {
	return "webhook"
}

// URL returns the target URL.
func (wn *WebhookNotifier) URL() string {
	return wn.url
}

// Accepts reports whether events of kind k are sent.
func (wn *WebhookNotifier) Accepts(k ink.EventKind) bool {
	return wn.kinds == nil || wn.kinds[k]
}

// Notify sends the event to the webhook URL
func (wn *WebhookNotifier) Notify(ctx context.Context, event ink.Event) error {
	if !wn.Accepts(event.Kind) {
		return nil
	}
	jsonData, err := event.JSON()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wn.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range wn.headers {
		req.Header.Set(key, value)
	}

	resp, err := wn.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op for webhooks
func (wn *WebhookNotifier) Close() error {
	return nil
}
