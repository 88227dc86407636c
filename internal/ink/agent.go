package ink

import (
	"math/rand"
	"sync"
)

const maxTravel = 5

// AgentState is a consistent copy of an agent's observable fields.
type AgentState struct {
	ID      int     `json:"id"`
	Color   Color   `json:"color"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	Heading Heading `json:"heading"`
	Alive   bool    `json:"alive"`
}

// Agent is one inkling. Only its own worker goroutine mutates position,
// heading and the alive flag; the mutex exists so the renderer and the
// snapshot code can read them consistently.
type Agent struct {
	id    int
	color Color
	// rnd belongs to the worker goroutine and is never shared.
	rnd *rand.Rand

	mu      sync.RWMutex
	row     int
	col     int
	heading Heading
	alive   bool
}

func newAgent(id int, color Color, row, col int, heading Heading, rnd *rand.Rand) *Agent {
	return &Agent{
		id:      id,
		color:   color,
		rnd:     rnd,
		row:     row,
		col:     col,
		heading: heading,
		alive:   true,
	}
}

// ID returns the agent's 1-based identifier.
func (a *Agent) ID() int { return a.id }

// Color returns the agent's ink color.
func (a *Agent) Color() Color { return a.color }

// State returns a copy of the agent's position, heading and liveness.
func (a *Agent) State() AgentState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return AgentState{
		ID:      a.id,
		Color:   a.color,
		Row:     a.row,
		Col:     a.col,
		Heading: a.heading,
		Alive:   a.alive,
	}
}

// Alive reports whether the agent is still active.
func (a *Agent) Alive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.alive
}

func (a *Agent) setHeading(h Heading) {
	a.mu.Lock()
	a.heading = h
	a.mu.Unlock()
}

func (a *Agent) moveTo(row, col int) {
	a.mu.Lock()
	a.row, a.col = row, col
	a.mu.Unlock()
}

// terminate flips the agent to Terminated. Only the first call returns
// true, which is what makes the live-count decrement happen exactly once.
func (a *Agent) terminate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.alive {
		return false
	}
	a.alive = false
	return true
}

// planDistance draws a travel distance in [1, maxTravel] that keeps the
// agent on a grid of the given size. A distance that would leave the grid
// is shortened one step at a time; if it reaches zero the agent turns
// around and draws again. The possibly reversed heading is stored on the
// agent.
func (a *Agent) planDistance(rows, cols int) int {
	st := a.State()
	h := st.Heading
	d := 1 + a.rnd.Intn(maxTravel)
	for !fits(st.Row, st.Col, h, d, rows, cols) {
		d--
		if d == 0 {
			h = h.Reverse()
			d = 1 + a.rnd.Intn(maxTravel)
		}
	}
	if h != st.Heading {
		a.setHeading(h)
	}
	return d
}

// fits reports whether d steps along h from (row, col) stay on the grid.
func fits(row, col int, h Heading, d, rows, cols int) bool {
	dr, dc := h.Delta()
	r, c := row+dr*d, col+dc*d
	return r >= 0 && r < rows && c >= 0 && c < cols
}
