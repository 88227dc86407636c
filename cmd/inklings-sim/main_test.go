package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/ink/notifiers"
	"github.com/daniacca/inklings/internal/logging"
)

func testSimConfig(t *testing.T) SimConfig {
	t.Helper()
	sim := ink.DefaultConfig()
	sim.Rows, sim.Cols, sim.Agents = 10, 10, 5
	sim.Seed = 11
	sim.AgentDelayMS = 1
	return SimConfig{
		Duration:    150 * time.Millisecond,
		LogDir:      filepath.Join(t.TempDir(), "logs"),
		SnapshotDir: filepath.Join(t.TempDir(), "snapshots"),
		Sim:         sim,
	}
}

func TestRunBatch(t *testing.T) {
	cfg := testSimConfig(t)
	snap, err := runBatch(context.Background(), cfg, logging.NewLogger("error", io.Discard))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := ink.ValidateSnapshot(snap); err != nil {
		t.Errorf("Expected valid snapshot, got %v", err)
	}
	if len(snap.Agents) != 5 {
		t.Errorf("Expected 5 agents, got %d", len(snap.Agents))
	}

	if _, err := ink.ReadSnapshotFile(ink.SnapshotPath(cfg.SnapshotDir, snap.RunID)); err != nil {
		t.Errorf("Expected final snapshot on disk, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.LogDir, notifiers.CombinedLogName))
	if err != nil {
		t.Fatalf("Expected combined log, got %v", err)
	}
	if got := strings.Count(string(data), ",row"); got < 5 {
		t.Errorf("Expected at least the 5 placement lines, got %d position lines", got)
	}
}

func TestRunBatch_InvalidConfig(t *testing.T) {
	cfg := testSimConfig(t)
	cfg.Sim.Agents = 1000
	if _, err := runBatch(context.Background(), cfg, logging.NewLogger("error", io.Discard)); err == nil {
		t.Error("Expected error for too many agents")
	}
}

func TestPrintSummary(t *testing.T) {
	snap := ink.Snapshot{
		RunID:     "run-1",
		Rows:      2,
		Cols:      2,
		Cells:     []ink.Color{ink.Red, ink.Red, ink.Blue, ink.Empty},
		Agents:    make([]ink.AgentState, 3),
		LiveCount: 1,
		Ink:       ink.InkLevels{Red: 5, Green: 6, Blue: 7},
		Capacity:  50,
	}
	var buf bytes.Buffer
	printSummary(&buf, snap)
	out := buf.String()

	for _, want := range []string{"run_id=run-1", "Live inklings: 1/3", "red   level=5/50 painted=2", "blue  level=7/50 painted=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, out)
		}
	}
}
