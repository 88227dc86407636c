package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/daniacca/inklings/internal/ink"
)

func TestWebhookNotifier(t *testing.T) {
	var (
		mu       sync.Mutex
		received []ink.Event
		header   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		var e ink.Event
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			t.Errorf("Failed to decode body: %v", err)
		}
		mu.Lock()
		received = append(received, e)
		header = r.Header.Get("X-Token")
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("test-webhook", server.URL, ink.EventTerminated)
	notifier.SetHeader("X-Token", "secret")

	if notifier.ID() != "test-webhook" {
		t.Errorf("Expected ID 'test-webhook', got '%s'", notifier.ID())
	}
	if notifier.Type() != "webhook" {
		t.Errorf("Expected type 'webhook', got '%s'", notifier.Type())
	}

	ctx := context.Background()
	if err := notifier.Notify(ctx, ink.Event{Kind: ink.EventMoved, AgentID: 1}); err != nil {
		t.Fatalf("Expected filtered event to succeed, got %v", err)
	}
	if err := notifier.Notify(ctx, ink.Event{Kind: ink.EventTerminated, AgentID: 2, Color: ink.Blue}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("Expected 1 delivered event, got %d", len(received))
	}
	if received[0].AgentID != 2 || received[0].Color != ink.Blue {
		t.Errorf("Expected agent 2 blue, got %+v", received[0])
	}
	if header != "secret" {
		t.Errorf("Expected custom header 'secret', got '%s'", header)
	}
	if err := notifier.Close(); err != nil {
		t.Errorf("Close should not return error: %v", err)
	}
}

func TestWebhookNotifier_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("bad", server.URL)
	if !notifier.Accepts(ink.EventRefilled) {
		t.Error("Expected a notifier without kinds to accept every event")
	}
	if err := notifier.Notify(context.Background(), ink.Event{Kind: ink.EventRefilled}); err == nil {
		t.Error("Expected error on 502 response")
	}
}
