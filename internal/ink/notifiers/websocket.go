package notifiers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// WebSocketNotifier broadcasts events as JSON text frames to every
// connected client. A single goroutine owns all writes.
type WebSocketNotifier struct {
	id         string
	mu         sync.RWMutex
	clients    map[*websocket.Conn]struct{}
	upgrader   websocket.Upgrader
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewWebSocketNotifier creates a notifier and starts its broadcaster.
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	notifier := &WebSocketNotifier{
		id:         id,
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	notifier.wg.Add(1)
	go notifier.run()

	return notifier
}

// ID returns the notifier ID
func (wsn *WebSocketNotifier) ID() string {
	return wsn.id
}

// Type returns the notifier type
func (wsn *WebSocketNotifier) Type() string {
	return "websocket"
}

// ClientCount returns the number of connected clients.
func (wsn *WebSocketNotifier) ClientCount() int {
	wsn.mu.RLock()
	defer wsn.mu.RUnlock()
	return len(wsn.clients)
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects. Incoming frames are discarded.
func (wsn *WebSocketNotifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsn.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	if !wsn.RegisterClient(conn) {
		conn.Close()
		return
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	wsn.UnregisterClient(conn)
}

// RegisterClient adds conn to the broadcast set. It returns false once the
// notifier is closed.
func (wsn *WebSocketNotifier) RegisterClient(conn *websocket.Conn) bool {
	select {
	case wsn.register <- conn:
		return true
	case <-wsn.done:
		return false
	}
}

// UnregisterClient removes and closes conn.
func (wsn *WebSocketNotifier) UnregisterClient(conn *websocket.Conn) {
	select {
	case wsn.unregister <- conn:
	case <-wsn.done:
	}
}

// Notify queues event for every connected client.
func (wsn *WebSocketNotifier) Notify(ctx context.Context, event ink.Event) error {
	data, err := event.JSON()
	if err != nil {
		return err
	}
	select {
	case <-wsn.done:
		return errors.New("websocket notifier is closed")
	default:
	}
	select {
	case wsn.broadcast <- data:
		return nil
	case <-wsn.done:
		return errors.New("websocket notifier is closed")
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
		return errors.New("notification queue full")
	}
}

func (wsn *WebSocketNotifier) run() {
	defer wsn.wg.Done()
	for {
		select {
		case <-wsn.done:
			wsn.mu.Lock()
			for conn := range wsn.clients {
				conn.Close()
				delete(wsn.clients, conn)
			}
			wsn.mu.Unlock()
			return

		case conn := <-wsn.register:
			if conn == nil {
				continue
			}
			wsn.mu.Lock()
			wsn.clients[conn] = struct{}{}
			wsn.mu.Unlock()

		case conn := <-wsn.unregister:
			if conn == nil {
				continue
			}
			wsn.drop(conn)

		case data := <-wsn.broadcast:
			wsn.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(wsn.clients))
			for conn := range wsn.clients {
				conns = append(conns, conn)
			}
			wsn.mu.RUnlock()

			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					wsn.drop(conn)
				}
			}
		}
	}
}

func (wsn *WebSocketNotifier) drop(conn *websocket.Conn) {
	wsn.mu.Lock()
	defer wsn.mu.Unlock()
	if _, ok := wsn.clients[conn]; ok {
		delete(wsn.clients, conn)
		conn.Close()
	}
}

// Close disconnects every client and stops the broadcaster. Queued events
// not yet written are dropped. Close is idempotent.
func (wsn *WebSocketNotifier) Close() error {
	wsn.closeOnce.Do(func() { close(wsn.done) })
	wsn.wg.Wait()
	return nil
}
