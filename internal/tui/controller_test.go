package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSim struct {
	mu        sync.Mutex
	snap      ink.Snapshot
	added     []ink.Color
	speedUps  int
	slowDowns int
	snapshots int
}

func newFakeSim() *fakeSim {
	snap := ink.Snapshot{
		Rows:      4,
		Cols:      5,
		Cells:     make([]ink.Color, 20),
		Agents:    []ink.AgentState{{ID: 1, Color: ink.Green, Row: 1, Col: 2, Heading: ink.East, Alive: true}},
		LiveCount: 1,
		Ink:       ink.InkLevels{Red: 10, Green: 20, Blue: 30},
		Capacity:  50,
	}
	snap.Cells[0] = ink.Red
	return &fakeSim{snap: snap}
}

func (f *fakeSim) Snapshot() ink.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots++
	return f.snap
}

func (f *fakeSim) AddInk(c ink.Color) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !c.Valid() {
		return 0, errors.New("bad color")
	}
	f.added = append(f.added, c)
	return 0, nil
}

func (f *fakeSim) SpeedUpProducers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speedUps++
}

func (f *fakeSim) SlowDownProducers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slowDowns++
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func runController(t *testing.T, c *Controller) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not return")
	}
}

func TestController_KeysDriveSimulation(t *testing.T) {
	screen := newTestScreen(t)
	sim := newFakeSim()
	c := NewController(screen, sim)
	c.SetRefresh(5 * time.Millisecond)
	done := runController(t, c)

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'g', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'B', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '.', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '-', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	waitDone(t, done)

	sim.mu.Lock()
	defer sim.mu.Unlock()
	assert.Equal(t, []ink.Color{ink.Red, ink.Green, ink.Blue}, sim.added)
	assert.Equal(t, 2, sim.speedUps)
	assert.Equal(t, 1, sim.slowDowns)
	assert.Positive(t, sim.snapshots)
}

func TestController_EscapeQuits(t *testing.T) {
	screen := newTestScreen(t)
	done := runController(t, NewController(screen, newFakeSim()))
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	waitDone(t, done)
}

func TestController_ContextCancelReturns(t *testing.T) {
	screen := newTestScreen(t)
	c := NewController(screen, newFakeSim())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	cancel()
	waitDone(t, done)
}

func TestController_CallsBothViewsPerTick(t *testing.T) {
	screen := newTestScreen(t)
	c := NewController(screen, newFakeSim())
	c.SetRefresh(2 * time.Millisecond)

	var mu sync.Mutex
	var grids, states int
	c.SetViews(
		func(tcell.Screen, Rect, ink.Snapshot) { mu.Lock(); grids++; mu.Unlock() },
		func(tcell.Screen, Rect, ink.Snapshot) { mu.Lock(); states++; mu.Unlock() },
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, c.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, grids, 1)
	assert.Equal(t, grids, states)
}

func TestDrawGrid(t *testing.T) {
	screen := newTestScreen(t)
	snap := newFakeSim().snap
	DrawGrid(screen, Rect{W: 80, H: 24}, snap)
	screen.Show()

	cells, width, _ := screen.GetContents()
	at := func(x, y int) tcell.SimCell { return cells[y*width+x] }

	// Agent 1 at row 1, col 2 heading east.
	agent := at(1+2*2, 1+1)
	require.NotEmpty(t, agent.Runes)
	assert.Equal(t, '→', agent.Runes[0])

	_, bg, _ := at(1, 1).Style.Decompose()
	assert.Equal(t, tcell.ColorRed, bg, "painted cell (0, 0) has a red background")

	_, bg, _ = at(3, 1).Style.Decompose()
	assert.NotEqual(t, tcell.ColorRed, bg)
}

func TestDrawState(t *testing.T) {
	screen := newTestScreen(t)
	DrawState(screen, Rect{W: 60, H: 20}, newFakeSim().snap)
	screen.Show()

	cells, width, _ := screen.GetContents()
	var first []rune
	for x := 0; x < len("Live inklings: 1/1"); x++ {
		if r := cells[x].Runes; len(r) > 0 {
			first = append(first, r[0])
		}
	}
	assert.Equal(t, "Live inklings: 1/1", string(first))
	assert.Equal(t, 80, width)
}
