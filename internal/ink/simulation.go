package ink

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Simulation owns the grid, the agents, the three ink pools with their
// producers, and the live-agent counter. Every worker goroutine reaches
// shared state only through the Simulation it was started by.
type Simulation struct {
	cfg       Config
	runID     string
	grid      *Grid
	pools     [len(Colors)]*Pool
	producers [len(Colors)]*Producer
	agents    []*Agent
	live      atomic.Int32

	logger Logger
	events *EventManager

	mu            sync.Mutex
	started       bool
	stopped       bool
	stopAgents    context.CancelFunc
	stopProducers context.CancelFunc
	agentGroup    *errgroup.Group
	producerGroup *errgroup.Group
	agentsDone    chan struct{}
	stopOnce      sync.Once
}

// NewSimulation validates cfg, allocates the grid and pools, and places the
// agents. No goroutine runs until Start.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	s := &Simulation{
		cfg:        cfg,
		runID:      uuid.NewString(),
		grid:       NewGrid(cfg.Rows, cfg.Cols),
		logger:     NewNoOpLogger(),
		agentsDone: make(chan struct{}),
	}
	for _, c := range Colors {
		pool := NewPool(c, cfg.InitialInk.Get(c), cfg.Capacity)
		s.pools[c.index()] = pool
		s.producers[c.index()] = NewProducer(pool, cfg.RefillAmount, cfg.RefillPeriod(c), cfg.MinRefillPeriod(), cfg.MaxRefillPeriod())
	}
	s.placeAgents(rnd)
	s.live.Store(int32(len(s.agents)))
	return s, nil
}

// placeAgents puts each agent on a random interior cell, redrawing until
// the cell is free. ValidateConfig guarantees enough interior cells exist.
func (s *Simulation) placeAgents(rnd *rand.Rand) {
	occupied := make(map[int]bool, s.cfg.Agents)
	s.agents = make([]*Agent, 0, s.cfg.Agents)
	for i := range s.cfg.Agents {
		var row, col int
		for {
			row = 1 + rnd.Intn(s.cfg.Rows-2)
			col = 1 + rnd.Intn(s.cfg.Cols-2)
			if !occupied[row*s.cfg.Cols+col] {
				break
			}
		}
		occupied[row*s.cfg.Cols+col] = true

		color := Colors[rnd.Intn(len(Colors))]
		agentRnd := rand.New(rand.NewSource(rnd.Int63()))
		s.agents = append(s.agents, newAgent(i+1, color, row, col, randomHeading(rnd), agentRnd))
	}
}

// SetLogger sets the logger. Must be called before Start.
func (s *Simulation) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	s.logger = logger
}

// SetEventManager routes simulation events to mgr. Must be called before Start.
func (s *Simulation) SetEventManager(mgr *EventManager) {
	s.events = mgr
}

// RunID identifies this simulation run.
func (s *Simulation) RunID() string { return s.runID }

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() Config { return s.cfg }

// Grid returns the shared grid.
func (s *Simulation) Grid() *Grid { return s.grid }

// Agents returns the agents in id order.
func (s *Simulation) Agents() []*Agent { return s.agents }

// LiveCount returns the number of agents that have not reached a corner.
func (s *Simulation) LiveCount() int { return int(s.live.Load()) }

// Pool returns the pool of an ink color, or nil for a non-ink color.
func (s *Simulation) Pool(c Color) *Pool {
	if !c.Valid() {
		return nil
	}
	return s.pools[c.index()]
}

// Producer returns the producer of an ink color, or nil for a non-ink color.
func (s *Simulation) Producer(c Color) *Producer {
	if !c.Valid() {
		return nil
	}
	return s.producers[c.index()]
}

// Start launches one worker per agent and one producer per color. Workers
// stop when ctx is cancelled or Stop is called.
func (s *Simulation) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("simulation already started")
	}
	if s.stopped {
		return errors.New("simulation already stopped")
	}
	s.started = true

	agentCtx, stopAgents := context.WithCancel(ctx)
	producerCtx, stopProducers := context.WithCancel(ctx)
	s.stopAgents, s.stopProducers = stopAgents, stopProducers
	s.agentGroup, agentCtx = errgroup.WithContext(agentCtx)
	s.producerGroup, producerCtx = errgroup.WithContext(producerCtx)

	for _, a := range s.agents {
		st := a.State()
		s.emit(Event{Kind: EventPlaced, AgentID: st.ID, Color: st.Color, Heading: st.Heading, Row: st.Row, Col: st.Col})
		s.agentGroup.Go(func() error {
			s.runAgent(agentCtx, a)
			return nil
		})
	}
	go func() {
		_ = s.agentGroup.Wait()
		close(s.agentsDone)
	}()

	for _, p := range s.producers {
		s.producerGroup.Go(func() error {
			p.Run(producerCtx, func(level int) {
				s.emit(Event{Kind: EventRefilled, Color: p.Color(), Level: level})
			})
			return nil
		})
	}

	s.logger.Infof("Simulation started: run_id=%s grid=%dx%d agents=%d", s.runID, s.cfg.Rows, s.cfg.Cols, len(s.agents))
	return nil
}

// Done is closed once every agent worker has exited, either because all
// agents terminated or because the simulation was stopped. Stopping a
// simulation that never started closes it too.
func (s *Simulation) Done() <-chan struct{} {
	return s.agentsDone
}

// Stop shuts the simulation down: agent workers are cancelled and joined
// first, then producers. Each worker leaves at its next sleep, so Stop
// returns within one agent delay or refill period at most. Stop is safe to
// call more than once and before Start.
func (s *Simulation) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		s.stopped = true
		s.mu.Unlock()
		if !started {
			close(s.agentsDone)
			return
		}

		s.stopAgents()
		agentErr := s.agentGroup.Wait()
		s.stopProducers()
		producerErr := s.producerGroup.Wait()
		err = errors.Join(agentErr, producerErr)

		s.logger.Infof("Simulation stopped: run_id=%s live=%d", s.runID, s.LiveCount())
	})
	return err
}

func (s *Simulation) runAgent(ctx context.Context, a *Agent) {
	delay := s.cfg.AgentDelay()
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for ctx.Err() == nil {
		s.cycle(a)
		if !a.Alive() {
			return
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// cycle runs one movement cycle of a: plan a distance, walk it one unit of
// ink per step, and turn 90° afterwards. Running out of ink ends the walk
// early; the agent just tries again next cycle.
func (s *Simulation) cycle(a *Agent) {
	d := a.planDistance(s.grid.Rows(), s.grid.Cols())
	pool := s.Pool(a.Color())

	for range d {
		if !pool.TryAcquire(1) {
			break
		}
		st := a.State()
		s.grid.Paint(st.Row, st.Col, st.Color)

		dr, dc := st.Heading.Delta()
		row, col := st.Row+dr, st.Col+dc
		if !s.grid.InBounds(row, col) {
			panic(fmt.Sprintf("ink: agent %d stepped %s off the grid from (%d, %d)", st.ID, st.Heading, st.Row, st.Col))
		}
		a.moveTo(row, col)
		s.emit(Event{Kind: EventMoved, AgentID: st.ID, Color: st.Color, Heading: st.Heading, Row: st.Row, Col: st.Col})

		if s.grid.IsCorner(row, col) {
			s.terminate(a)
			return
		}
	}

	a.setHeading(turn(a.State().Heading, a.rnd))
}

// terminate retires a and decrements the live count. The agent's one-way
// alive flag makes the decrement happen at most once.
func (s *Simulation) terminate(a *Agent) {
	if !a.terminate() {
		return
	}
	left := s.live.Add(-1)
	st := a.State()
	s.emit(Event{Kind: EventTerminated, AgentID: st.ID, Color: st.Color, Heading: st.Heading, Row: st.Row, Col: st.Col})
	s.logger.Debugf("Inkling terminated: id=%d row=%d col=%d live=%d", st.ID, st.Row, st.Col, left)
}

// AddInk injects the configured manual amount into the pool of color c and
// returns the new level.
func (s *Simulation) AddInk(c Color) (int, error) {
	pool := s.Pool(c)
	if pool == nil {
		return 0, fmt.Errorf("cannot add ink of color %s", c)
	}
	level := pool.Refill(s.cfg.MaxAddInk)
	s.emit(Event{Kind: EventRefilled, Color: c, Level: level})
	s.logger.Debugf("Ink added: color=%s level=%d", c, level)
	return level, nil
}

// SpeedUpProducers shortens every refill period by 20%, down to the minimum.
func (s *Simulation) SpeedUpProducers() {
	for _, p := range s.producers {
		period := p.SpeedUp()
		s.logger.Debugf("Producer sped up: color=%s period=%v", p.Color(), period)
	}
}

// SlowDownProducers lengthens every refill period by 20%.
func (s *Simulation) SlowDownProducers() {
	for _, p := range s.producers {
		period := p.SlowDown()
		s.logger.Debugf("Producer slowed down: color=%s period=%v", p.Color(), period)
	}
}

// Snapshot reads the grid, agents, counters and ink levels for display.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:     s.runID,
		Time:      time.Now(),
		Rows:      s.grid.Rows(),
		Cols:      s.grid.Cols(),
		LiveCount: s.LiveCount(),
		Capacity:  s.cfg.Capacity,
	}
	snap.Agents = make([]AgentState, 0, len(s.agents))
	for _, a := range s.agents {
		snap.Agents = append(snap.Agents, a.State())
	}
	snap.Cells = s.grid.Cells()
	for _, c := range Colors {
		snap.Ink.Set(c, s.pools[c.index()].Level())
		snap.RefillPeriods.Set(c, int(s.producers[c.index()].Period().Milliseconds()))
	}
	return snap
}

// SaveSnapshot writes the current snapshot to dir and returns the file path.
func (s *Simulation) SaveSnapshot(dir string) (string, error) {
	return WriteSnapshotFile(dir, s.Snapshot())
}

func (s *Simulation) emit(e Event) {
	if s.events == nil {
		return
	}
	e.RunID = s.runID
	e.Time = time.Now()
	s.events.Enqueue(e)
}
