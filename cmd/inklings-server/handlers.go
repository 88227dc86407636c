package main

import (
	"encoding/json"
	"net/http"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/ink/notifiers"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode response: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /snapshot
// Returns the live snapshot of grid, agents and ink levels
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sim.Snapshot())
}

// POST /snapshot
// Triggers a synchronous snapshot save
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}
	path, err := s.saveSnapshot()
	if err != nil {
		s.logger.Errorf("Failed to save snapshot: run_id=%s error=%v", s.sim.RunID(), err)
		http.Error(w, "failed to save snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Debugf("Snapshot saved: run_id=%s path=%s", s.sim.RunID(), path)
	writeJSON(w, map[string]string{"status": "ok", "path": path})
}

type addInkResponse struct {
	Color ink.Color `json:"color"`
	Level int       `json:"level"`
}

// POST /ink/{color}
// Injects ink into one pool
func (s *Server) handleAddInk(w http.ResponseWriter, r *http.Request) {
	color, err := ink.ParseColor(r.PathValue("color"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	level, err := s.sim.AddInk(color)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Infof("Ink added: color=%s level=%d", color, level)
	writeJSON(w, addInkResponse{Color: color, Level: level})
}

type periodsResponse struct {
	RefillPeriodsMS ink.InkLevels `json:"refill_periods_ms"`
}

// POST /producers/speedup
func (s *Server) handleSpeedUp(w http.ResponseWriter, r *http.Request) {
	s.sim.SpeedUpProducers()
	periods := s.sim.Snapshot().RefillPeriods
	s.logger.Infof("Producers sped up: red=%dms green=%dms blue=%dms", periods.Red, periods.Green, periods.Blue)
	writeJSON(w, periodsResponse{RefillPeriodsMS: periods})
}

// POST /producers/slowdown
func (s *Server) handleSlowDown(w http.ResponseWriter, r *http.Request) {
	s.sim.SlowDownProducers()
	periods := s.sim.Snapshot().RefillPeriods
	s.logger.Infof("Producers slowed down: red=%dms green=%dms blue=%dms", periods.Red, periods.Green, periods.Blue)
	writeJSON(w, periodsResponse{RefillPeriodsMS: periods})
}

// GET /notifiers
// List all registered notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	ids := s.events.ListNotifiers()
	list := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := s.events.GetNotifier(id); ok {
			list = append(list, map[string]string{"id": id, "type": n.Type()})
		}
	}
	writeJSON(w, map[string]any{"notifiers": list})
}

// POST /notifiers
// Body: { "type": "webhook", "id": "my-webhook",
//
//	"config": { "url": "http://...", "headers": {...}, "kinds": ["terminated"] } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config notifierConfig `json:"config"`
}

type notifierConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Kinds   []ink.EventKind   `json:"kinds"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier ink.Notifier
	switch req.Type {
	case "webhook":
		if req.Config.URL == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, req.Config.URL, req.Config.Kinds...)
		for k, v := range req.Config.Headers {
			wh.SetHeader(k, v)
		}
		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.events.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
// Unregister a webhook notifier
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == streamNotifierID {
		http.Error(w, "the event stream cannot be removed", http.StatusBadRequest)
		return
	}
	if err := s.events.UnregisterNotifier(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Infof("Notifier unregistered: id=%s", id)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}

// POST /shutdown
// Asks the process to stop the simulation and exit
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	s.shutdownOnce.Do(func() { close(s.shutdown) })
	s.logger.Infof("Shutdown requested: remote=%s", r.RemoteAddr)
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("shutting down"))
}
