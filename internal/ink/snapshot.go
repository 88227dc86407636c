package ink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot is a point-in-time read of everything the renderer needs. Cells
// are row-major. Different parts may come from slightly different instants:
// the grid is read without a lock and each pool is read under its own lock.
type Snapshot struct {
	RunID         string       `json:"run_id"`
	Time          time.Time    `json:"time"`
	Rows          int          `json:"rows"`
	Cols          int          `json:"cols"`
	Cells         []Color      `json:"cells"`
	Agents        []AgentState `json:"agents"`
	LiveCount     int          `json:"live_count"`
	Ink           InkLevels    `json:"ink"`
	Capacity      int          `json:"capacity"`
	RefillPeriods InkLevels    `json:"refill_periods_ms"`
}

// Cell returns the color at (row, col) or Empty when out of range.
func (s Snapshot) Cell(row, col int) Color {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return Empty
	}
	return s.Cells[row*s.Cols+col]
}

// Painted counts the cells of each color.
func (s Snapshot) Painted() InkLevels {
	var out InkLevels
	for _, c := range s.Cells {
		out.Set(c, out.Get(c)+1)
	}
	return out
}

// ValidateSnapshot checks a snapshot for internal consistency:
//   - cells match the declared dimensions
//   - every agent sits on the grid
//   - live count lies between the alive agents and all agents
//   - ink levels lie in [0, capacity]
func ValidateSnapshot(s Snapshot) error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", s.Rows, s.Cols)
	}
	if len(s.Cells) != s.Rows*s.Cols {
		return fmt.Errorf("expected %d cells, got %d", s.Rows*s.Cols, len(s.Cells))
	}
	alive := 0
	for _, a := range s.Agents {
		if a.Row < 0 || a.Row >= s.Rows || a.Col < 0 || a.Col >= s.Cols {
			return fmt.Errorf("agent %d at (%d, %d) is off the grid", a.ID, a.Row, a.Col)
		}
		if a.Alive {
			alive++
		}
	}
	// The counter is read before the agents, and an agent clears its alive
	// flag before decrementing, so the count can only run ahead.
	if s.LiveCount < alive || s.LiveCount > len(s.Agents) {
		return fmt.Errorf("live count %d inconsistent with %d alive of %d agents", s.LiveCount, alive, len(s.Agents))
	}
	for _, c := range Colors {
		if lvl := s.Ink.Get(c); lvl < 0 || lvl > s.Capacity {
			return fmt.Errorf("%s ink level %d outside [0, %d]", c, lvl, s.Capacity)
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
func EncodeSnapshotJSON(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// SnapshotPath returns where SaveSnapshot writes for run id in dir.
func SnapshotPath(dir, runID string) string {
	return filepath.Join(dir, runID+".snapshot.json")
}

// WriteSnapshotFile writes s into dir through a temp file and rename, so a
// reader never sees a half-written snapshot. It returns the final path.
func WriteSnapshotFile(dir string, s Snapshot) (string, error) {
	data, err := EncodeSnapshotJSON(s)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := SnapshotPath(dir, s.RunID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("renaming snapshot: %w", err)
	}
	return path, nil
}

// ReadSnapshotFile loads and validates a snapshot written by WriteSnapshotFile.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	s, err := DecodeSnapshotJSON(data)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ValidateSnapshot(s); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return s, nil
}
