package client

import "github.com/daniacca/inklings/internal/ink"

// WebhookBuilder provides a fluent API for building webhook registrations.
// A webhook receives each matching event as a JSON POST.
type WebhookBuilder struct {
	id      string
	url     string
	headers map[string]string
	kinds   []ink.EventKind
}

// NewWebhook creates a webhook builder. The ID must be unique on the server.
func NewWebhook(id, url string) *WebhookBuilder {
	return &WebhookBuilder{id: id, url: url}
}

// Header adds a header sent with every request.
func (wb *WebhookBuilder) Header(key, value string) *WebhookBuilder {
	if wb.headers == nil {
		wb.headers = make(map[string]string)
	}
	wb.headers[key] = value
	return wb
}

// Kinds restricts the webhook to the given event kinds. Without it every
// event is sent.
func (wb *WebhookBuilder) Kinds(kinds ...ink.EventKind) *WebhookBuilder {
	wb.kinds = append(wb.kinds, kinds...)
	return wb
}

// WebhookConfig is the registration body sent to POST /notifiers.
type WebhookConfig struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Config struct {
		URL     string            `json:"url"`
		Headers map[string]string `json:"headers,omitempty"`
		Kinds   []ink.EventKind   `json:"kinds,omitempty"`
	} `json:"config"`
}

// Build converts the builder to a WebhookConfig.
func (wb *WebhookBuilder) Build() WebhookConfig {
	var cfg WebhookConfig
	cfg.Type = "webhook"
	cfg.ID = wb.id
	cfg.Config.URL = wb.url
	cfg.Config.Headers = wb.headers
	cfg.Config.Kinds = wb.kinds
	return cfg
}
