// Package client is a Go client for the inklings-server HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/gorilla/websocket"
)

// Client talks to one inklings-server.
type Client struct {
	baseURL string
	http    *http.Client
	dialer  *websocket.Dialer
}

// New creates a client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		dialer:  websocket.DefaultDialer,
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// Snapshot fetches the current simulation snapshot.
func (c *Client) Snapshot(ctx context.Context) (ink.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, "/snapshot", nil, http.StatusOK)
	if err != nil {
		return ink.Snapshot{}, err
	}
	return ink.DecodeSnapshotJSON(body)
}

// SaveSnapshot asks the server to write a snapshot and returns its path.
func (c *Client) SaveSnapshot(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/snapshot", nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	var resp struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Path, nil
}

// AddInk injects ink of one color and returns the new pool level.
func (c *Client) AddInk(ctx context.Context, color ink.Color) (int, error) {
	if !color.Valid() {
		return 0, fmt.Errorf("cannot add ink of color %s", color)
	}
	body, err := c.do(ctx, http.MethodPost, "/ink/"+color.String(), nil, http.StatusOK)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Level int `json:"level"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Level, nil
}

// SpeedUpProducers shortens every refill period and returns the new
// periods in milliseconds.
func (c *Client) SpeedUpProducers(ctx context.Context) (ink.InkLevels, error) {
	return c.changePeriods(ctx, "/producers/speedup")
}

// SlowDownProducers lengthens every refill period and returns the new
// periods in milliseconds.
func (c *Client) SlowDownProducers(ctx context.Context) (ink.InkLevels, error) {
	return c.changePeriods(ctx, "/producers/slowdown")
}

func (c *Client) changePeriods(ctx context.Context, path string) (ink.InkLevels, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK)
	if err != nil {
		return ink.InkLevels{}, err
	}
	var resp struct {
		Periods ink.InkLevels `json:"refill_periods_ms"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ink.InkLevels{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Periods, nil
}

// Shutdown asks the server to stop the simulation and exit.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/shutdown", nil, http.StatusAccepted)
	return err
}

// RegisterWebhook registers the webhook built by wb.
func (c *Client) RegisterWebhook(ctx context.Context, wb *WebhookBuilder) error {
	jsonData, err := json.Marshal(wb.Build())
	if err != nil {
		return fmt.Errorf("failed to marshal webhook: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/notifiers", jsonData, http.StatusOK)
	return err
}

// UnregisterNotifier removes a notifier by ID.
func (c *Client) UnregisterNotifier(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/notifiers/"+url.PathEscape(id), nil, http.StatusOK)
	return err
}

// Subscribe opens the event stream. Events arrive on the returned channel,
// which is closed when ctx is done or the connection drops.
func (c *Client) Subscribe(ctx context.Context) (<-chan ink.Event, error) {
	u, err := url.Parse(c.baseURL + "/ws")
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open event stream: %w", err)
	}

	events := make(chan ink.Event, 64)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		conn.Close()
	}()
	go func() {
		defer close(events)
		defer close(stop)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var e ink.Event
			if err := json.Unmarshal(data, &e); err != nil {
				continue
			}
			select {
			case events <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, want int) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
