package ink

import (
	"fmt"
	"sync"
)

// Pool is a capacity-bounded supply of one ink color. The level is only
// read or written while holding the pool's own mutex, so every
// check-then-act is atomic with respect to other callers.
type Pool struct {
	mu       sync.Mutex
	color    Color
	level    int
	capacity int
}

// NewPool creates a pool holding level units of ink, clamped to [0, capacity].
func NewPool(color Color, level, capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	level = max(0, min(level, capacity))
	return &Pool{
		color:    color,
		level:    level,
		capacity: capacity,
	}
}

// Color returns the ink color held by the pool.
func (p *Pool) Color() Color {
	return p.color
}

// Capacity returns the maximum level of the pool.
func (p *Pool) Capacity() int {
	return p.capacity
}

// Level returns the current level. The value may be stale by the time the
// caller looks at it; never use it to decide on a mutation.
func (p *Pool) Level() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// TryAcquire takes amount units if at least that many are available and
// reports whether it did. It never waits.
func (p *Pool) TryAcquire(amount int) bool {
	if amount < 0 {
		panic(fmt.Sprintf("ink: negative acquire amount %d", amount))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.level < amount {
		return false
	}
	p.level -= amount
	return true
}

// Refill adds amount units, never exceeding capacity, and returns the new level.
func (p *Pool) Refill(amount int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount > 0 {
		p.level = min(p.level+amount, p.capacity)
	}
	return p.level
}
