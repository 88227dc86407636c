package ink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// EventKind names what happened in an Event.
type EventKind string

const (
	EventPlaced     EventKind = "placed"
	EventMoved      EventKind = "moved"
	EventTerminated EventKind = "terminated"
	EventRefilled   EventKind = "refilled"
)

// Event is emitted by the simulation for observers such as per-agent log
// files or a websocket stream. For moves, Row/Col is the position before
// the step and Heading the direction of travel. Refill events carry the
// pool color and the new level and have no agent.
type Event struct {
	Kind    EventKind `json:"kind"`
	RunID   string    `json:"run_id"`
	AgentID int       `json:"agent_id,omitempty"`
	Color   Color     `json:"color"`
	Heading Heading   `json:"heading"`
	Row     int       `json:"row"`
	Col     int       `json:"col"`
	Level   int       `json:"level,omitempty"`
	Time    time.Time `json:"time"`
}

// JSON returns the event as JSON bytes
func (e Event) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface that all event sinks must implement
type Notifier interface {
	// ID returns a unique identifier for this notifier
	ID() string

	// Type returns the kind of sink (e.g. "logfile", "websocket", "webhook")
	Type() string

	// Notify delivers one event. The context bounds the delivery.
	Notify(ctx context.Context, event Event) error

	// Close releases any resources held by the notifier
	Close() error
}

const (
	eventQueueSize   = 1024
	maxNotifyRetries = 3
)

// EventManager fans events out to registered notifiers. Events go to a
// buffered queue drained by a single worker, which keeps events of one
// agent in emission order. Enqueue does not block except for terminated
// events, which wait for room instead of being dropped.
type EventManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan Event
	quit      chan struct{}
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewEventManager creates an event manager with a no-op logger
func NewEventManager() *EventManager {
	return NewEventManagerWithLogger(NewNoOpLogger())
}

// NewEventManagerWithLogger creates an event manager that reports delivery
// failures to logger.
func NewEventManagerWithLogger(logger Logger) *EventManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	mgr := &EventManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan Event, eventQueueSize),
		quit:      make(chan struct{}),
		logger:    logger,
	}
	mgr.wg.Add(1)
	go mgr.worker()
	return mgr
}

// RegisterNotifier adds a notifier. IDs must be unique.
func (em *EventManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return errors.New("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return errors.New("notifier ID cannot be empty")
	}

	em.mu.Lock()
	defer em.mu.Unlock()
	if em.closed {
		return errors.New("event manager is closed")
	}
	if _, exists := em.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	em.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier removes and closes a notifier
func (em *EventManager) UnregisterNotifier(id string) error {
	em.mu.Lock()
	notifier, exists := em.notifiers[id]
	delete(em.notifiers, id)
	em.mu.Unlock()

	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}
	return nil
}

// GetNotifier retrieves a notifier by ID
func (em *EventManager) GetNotifier(id string) (Notifier, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()
	n, ok := em.notifiers[id]
	return n, ok
}

// ListNotifiers returns the IDs of all registered notifiers
func (em *EventManager) ListNotifiers() []string {
	em.mu.RLock()
	defer em.mu.RUnlock()
	ids := make([]string, 0, len(em.notifiers))
	for id := range em.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue queues an event for delivery. If the queue is full, a terminated
// event waits for room; any other event is dropped and a warning logged.
// Events enqueued after Close are ignored.
func (em *EventManager) Enqueue(event Event) {
	em.mu.RLock()
	closed := em.closed
	em.mu.RUnlock()
	if closed {
		return
	}

	if event.Kind == EventTerminated {
		select {
		case em.jobs <- event:
		case <-em.quit:
		}
		return
	}
	select {
	case em.jobs <- event:
	default:
		em.logger.Warnf("Event queue full, dropping event: kind=%s agent_id=%d", event.Kind, event.AgentID)
	}
}

func (em *EventManager) worker() {
	defer em.wg.Done()
	for {
		select {
		case event := <-em.jobs:
			em.dispatch(event)
		case <-em.quit:
			for {
				select {
				case event := <-em.jobs:
					em.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

func (em *EventManager) dispatch(event Event) {
	em.mu.RLock()
	targets := make([]Notifier, 0, len(em.notifiers))
	for _, n := range em.notifiers {
		targets = append(targets, n)
	}
	em.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, n := range targets {
		em.notifyWithRetry(ctx, n, event)
	}
}

// notifyWithRetry attempts delivery with exponential backoff
func (em *EventManager) notifyWithRetry(ctx context.Context, n Notifier, event Event) {
	backoff := 50 * time.Millisecond
	for attempt := 0; attempt <= maxNotifyRetries; attempt++ {
		err := n.Notify(ctx, event)
		if err == nil {
			return
		}
		em.logger.Warnf("Notification failed: notifier=%s attempt=%d error=%v", n.ID(), attempt+1, err)
		if attempt == maxNotifyRetries {
			em.logger.Errorf("Notification dropped after %d attempts: notifier=%s kind=%s", maxNotifyRetries+1, n.ID(), event.Kind)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Close stops accepting events, delivers what is already queued, then
// closes every notifier.
func (em *EventManager) Close() error {
	em.mu.Lock()
	if em.closed {
		em.mu.Unlock()
		return nil
	}
	em.closed = true
	close(em.quit)
	em.mu.Unlock()

	em.wg.Wait()

	em.mu.Lock()
	var errs []error
	for id, n := range em.notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	em.notifiers = make(map[string]Notifier)
	em.mu.Unlock()

	return errors.Join(errs...)
}
