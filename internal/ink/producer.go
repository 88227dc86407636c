package ink

import (
	"context"
	"sync/atomic"
	"time"
)

// Producer periodically refills one pool. It has no exit condition of its
// own and stops only when its context is cancelled.
type Producer struct {
	pool      *Pool
	amount    int
	minPeriod time.Duration
	maxPeriod time.Duration
	period    atomic.Int64
}

// NewProducer creates a producer adding amount units to pool every period.
// Speed changes keep the period within [minPeriod, maxPeriod].
func NewProducer(pool *Pool, amount int, period, minPeriod, maxPeriod time.Duration) *Producer {
	p := &Producer{
		pool:      pool,
		amount:    amount,
		minPeriod: minPeriod,
		maxPeriod: maxPeriod,
	}
	p.period.Store(int64(period))
	return p
}

// Color returns the color of the pool being refilled.
func (p *Producer) Color() Color {
	return p.pool.Color()
}

// Period returns the current sleep between refills.
func (p *Producer) Period() time.Duration {
	return time.Duration(p.period.Load())
}

// SpeedUp shortens the period by 20%, unless that would go below the minimum.
func (p *Producer) SpeedUp() time.Duration {
	for {
		cur := p.period.Load()
		next := cur * 8 / 10
		if next <= int64(p.minPeriod) {
			return time.Duration(cur)
		}
		if p.period.CompareAndSwap(cur, next) {
			return time.Duration(next)
		}
	}
}

// SlowDown lengthens the period by 20%, up to the maximum.
func (p *Producer) SlowDown() time.Duration {
	for {
		cur := p.period.Load()
		if cur >= int64(p.maxPeriod) {
			return time.Duration(cur)
		}
		next := min(cur*12/10, int64(p.maxPeriod))
		if next == cur {
			next++
		}
		if p.period.CompareAndSwap(cur, next) {
			return time.Duration(next)
		}
	}
}

// Run sleeps for the current period, refills, and repeats until ctx is
// done. Cancellation interrupts the sleep, so shutdown never waits for a
// full period. onRefill, if set, receives each new level.
func (p *Producer) Run(ctx context.Context, onRefill func(level int)) {
	timer := time.NewTimer(p.Period())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		// The stop flag is checked again so a cancel that raced the timer
		// does not produce one last refill.
		if ctx.Err() != nil {
			return
		}
		level := p.pool.Refill(p.amount)
		if onRefill != nil {
			onRefill(level)
		}
		timer.Reset(p.Period())
	}
}
