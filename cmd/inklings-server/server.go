package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/ink/notifiers"
	"github.com/daniacca/inklings/internal/logging"
)

// streamNotifierID is the built-in websocket notifier behind GET /ws.
const streamNotifierID = "stream"

// Server represents the HTTP server for one simulation
type Server struct {
	sim          *ink.Simulation
	events       *ink.EventManager
	stream       *notifiers.WebSocketNotifier
	snapshotDir  string
	logger       *logging.Logger
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewServer wires sim to an event manager carrying the websocket stream.
// It must be called before sim is started.
func NewServer(sim *ink.Simulation, logger *logging.Logger) (*Server, error) {
	events := ink.NewEventManagerWithLogger(logger)
	stream := notifiers.NewWebSocketNotifier(streamNotifierID)
	if err := events.RegisterNotifier(stream); err != nil {
		return nil, err
	}
	sim.SetLogger(logger)
	sim.SetEventManager(events)

	return &Server{
		sim:      sim,
		events:   events,
		stream:   stream,
		logger:   logger,
		shutdown: make(chan struct{}),
	}, nil
}

// SetSnapshotDir sets where snapshots are written. Empty disables saving.
func (s *Server) SetSnapshotDir(dir string) {
	s.snapshotDir = dir
}

// Routes returns the HTTP handler for the API
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /snapshot", s.handleGetSnapshot)
	mux.HandleFunc("POST /snapshot", s.handleSaveSnapshot)
	mux.HandleFunc("POST /ink/{color}", s.handleAddInk)
	mux.HandleFunc("POST /producers/speedup", s.handleSpeedUp)
	mux.HandleFunc("POST /producers/slowdown", s.handleSlowDown)
	mux.Handle("GET /ws", s.stream)
	mux.HandleFunc("GET /notifiers", s.handleListNotifiers)
	mux.HandleFunc("POST /notifiers", s.handleRegisterNotifier)
	mux.HandleFunc("DELETE /notifiers/{id}", s.handleUnregisterNotifier)
	mux.HandleFunc("POST /shutdown", s.handleShutdown)
	return mux
}

// ShutdownRequested is closed once a client calls POST /shutdown.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdown
}

// RunSnapshots saves a snapshot every interval until ctx is done. A zero
// interval or an empty snapshot dir disables it.
func (s *Server) RunSnapshots(ctx context.Context, every time.Duration) {
	if every <= 0 || s.snapshotDir == "" {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			path, err := s.sim.SaveSnapshot(s.snapshotDir)
			if err != nil {
				s.logger.Errorf("Periodic snapshot failed: run_id=%s error=%v", s.sim.RunID(), err)
				continue
			}
			s.logger.Debugf("Periodic snapshot saved: path=%s", path)
		}
	}
}

// Close flushes pending events and closes every notifier.
func (s *Server) Close() error {
	return s.events.Close()
}

// saveSnapshot writes the current snapshot, if a directory is configured.
func (s *Server) saveSnapshot() (string, error) {
	if s.snapshotDir == "" {
		return "", errors.New("snapshot directory not configured")
	}
	return s.sim.SaveSnapshot(s.snapshotDir)
}
