package ink

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestProducer_SlowDownStopsAtMaximum(t *testing.T) {
	pool := NewPool(Red, 0, 50)
	p := NewProducer(pool, 10, time.Second, 30*time.Millisecond, time.Hour)

	for range 200 {
		p.SlowDown()
	}
	if got := p.Period(); got != time.Hour {
		t.Fatalf("Expected period capped at 1h, got %v", got)
	}
	if got := p.SlowDown(); got != time.Hour {
		t.Errorf("Expected slow down at the cap to keep 1h, got %v", got)
	}

	// The speed controls still work from the cap.
	if got := p.SpeedUp(); got != 48*time.Minute {
		t.Errorf("Expected 48m after speeding up from the cap, got %v", got)
	}
}

func TestProducer_SlowedProducerKeepsItsPace(t *testing.T) {
	pool := NewPool(Green, 0, 1_000_000)
	p := NewProducer(pool, 1, 20*time.Millisecond, time.Millisecond, 100*time.Millisecond)
	for range 200 {
		p.SlowDown()
	}

	var refills atomic.Int32
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	p.Run(ctx, func(int) { refills.Add(1) })

	if got := refills.Load(); got > 2 {
		t.Errorf("Expected at most 2 refills at a 100ms period, got %d", got)
	}
	if pool.Level() != int(refills.Load()) {
		t.Errorf("Expected pool level %d, got %d", refills.Load(), pool.Level())
	}
}

func TestSimulation_SlowDownReportsPositivePeriods(t *testing.T) {
	sim := newTestSimulation(t, testConfig())
	for range 200 {
		sim.SlowDownProducers()
	}
	periods := sim.Snapshot().RefillPeriods
	for _, c := range Colors {
		if got := periods.Get(c); got != 3_600_000 {
			t.Errorf("Expected %s period capped at 3600000ms, got %dms", c, got)
		}
	}
}
