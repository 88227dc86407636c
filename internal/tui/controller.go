// Package tui is the terminal front end: it renders simulation snapshots
// and turns key presses into simulation commands.
package tui

import (
	"context"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/gdamore/tcell/v2"
)

// Simulation is what the controller needs from a running simulation.
type Simulation interface {
	Snapshot() ink.Snapshot
	AddInk(c ink.Color) (int, error)
	SpeedUpProducers()
	SlowDownProducers()
}

// DefaultRefresh is the render tick.
const DefaultRefresh = 50 * time.Millisecond

// Controller owns the screen. On every tick it takes one snapshot and
// hands it to the grid view and the state view.
type Controller struct {
	screen    tcell.Screen
	sim       Simulation
	refresh   time.Duration
	gridView  View
	stateView View
	logger    ink.Logger
}

// NewController creates a controller drawing with DrawGrid and DrawState.
// The screen must already be initialized.
func NewController(screen tcell.Screen, sim Simulation) *Controller {
	return &Controller{
		screen:    screen,
		sim:       sim,
		refresh:   DefaultRefresh,
		gridView:  DrawGrid,
		stateView: DrawState,
		logger:    ink.NewNoOpLogger(),
	}
}

// SetRefresh changes the render tick.
func (c *Controller) SetRefresh(d time.Duration) {
	if d > 0 {
		c.refresh = d
	}
}

// SetViews replaces the grid and state views. Nil keeps the current one.
func (c *Controller) SetViews(grid, state View) {
	if grid != nil {
		c.gridView = grid
	}
	if state != nil {
		c.stateView = state
	}
}

// SetLogger sets the logger for key handling
func (c *Controller) SetLogger(logger ink.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Run renders and handles input until the user quits or ctx is done.
// Stopping the simulation is left to the caller.
func (c *Controller) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go c.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(c.refresh)
	defer ticker.Stop()

	c.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			c.draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				c.screen.Sync()
				c.draw()
			case *tcell.EventKey:
				if !c.handleKey(ev) {
					return nil
				}
			}
		}
	}
}

// handleKey applies one key press and reports whether to keep running.
func (c *Controller) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r := ev.Rune(); r {
	case 'q', 'Q':
		return false
	case 'r', 'g', 'b', 'R', 'G', 'B':
		color, _ := ink.ParseColor(string(r))
		level, err := c.sim.AddInk(color)
		if err != nil {
			c.logger.Warnf("Add ink failed: color=%s error=%v", color, err)
			break
		}
		c.logger.Infof("Ink added: color=%s level=%d", color, level)
	case '+', '=', '.':
		c.sim.SpeedUpProducers()
		c.logger.Infof("Producers sped up")
	case '-', '_', ',':
		c.sim.SlowDownProducers()
		c.logger.Infof("Producers slowed down")
	}
	return true
}

func (c *Controller) draw() {
	snap := c.sim.Snapshot()
	w, h := c.screen.Size()
	c.screen.Clear()

	gw := GridWidth(snap.Cols)
	c.gridView(c.screen, Rect{X: 0, Y: 0, W: min(gw, w), H: h}, snap)
	if w > gw+2 {
		c.stateView(c.screen, Rect{X: gw + 2, Y: 0, W: w - gw - 2, H: h}, snap)
	}
	c.screen.Show()
}
