package ink

import (
	"errors"
	"fmt"
)

// ErrNoFreeCell means the requested agents cannot all be placed on distinct
// interior cells.
var ErrNoFreeCell = errors.New("not enough free interior cells for agents")

// maxDurationMS caps every millisecond setting at one day.
const maxDurationMS = 24 * 60 * 60 * 1000

// ValidateConfig checks a configuration before any storage is allocated or
// goroutine started. It returns the first problem found.
func ValidateConfig(cfg Config) error {
	// An agent needs an interior cell and room to turn back at the border.
	if cfg.Rows < 3 || cfg.Cols < 3 {
		return fmt.Errorf("grid must be at least 3x3, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Agents < 1 {
		return fmt.Errorf("agents must be positive, got %d", cfg.Agents)
	}
	if cfg.Agents > cfg.InteriorCells() {
		return fmt.Errorf("%w: %d agents, %d interior cells on a %dx%d grid",
			ErrNoFreeCell, cfg.Agents, cfg.InteriorCells(), cfg.Rows, cfg.Cols)
	}
	if cfg.Capacity < 1 {
		return fmt.Errorf("capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.MaxRefillPeriodMS < 1 || cfg.MaxRefillPeriodMS > maxDurationMS {
		return fmt.Errorf("max refill period must be in [1, %d]ms, got %dms", maxDurationMS, cfg.MaxRefillPeriodMS)
	}
	if cfg.MinRefillPeriodMS > cfg.MaxRefillPeriodMS {
		return fmt.Errorf("min refill period %dms above max refill period %dms", cfg.MinRefillPeriodMS, cfg.MaxRefillPeriodMS)
	}
	for _, c := range Colors {
		if lvl := cfg.InitialInk.Get(c); lvl < 0 || lvl > cfg.Capacity {
			return fmt.Errorf("initial %s ink %d outside [0, %d]", c, lvl, cfg.Capacity)
		}
		if p := cfg.RefillPeriodMS.Get(c); p <= 0 || p > cfg.MaxRefillPeriodMS {
			return fmt.Errorf("%s refill period must be in [1, %d]ms, got %dms", c, cfg.MaxRefillPeriodMS, p)
		}
	}
	if cfg.RefillAmount < 0 {
		return fmt.Errorf("refill amount must not be negative, got %d", cfg.RefillAmount)
	}
	if cfg.MaxAddInk < 0 {
		return fmt.Errorf("max add ink must not be negative, got %d", cfg.MaxAddInk)
	}
	if cfg.MinRefillPeriodMS <= 0 {
		return fmt.Errorf("min refill period must be positive, got %dms", cfg.MinRefillPeriodMS)
	}
	if cfg.AgentDelayMS <= 0 || cfg.AgentDelayMS > maxDurationMS {
		return fmt.Errorf("agent delay must be in [1, %d]ms, got %dms", maxDurationMS, cfg.AgentDelayMS)
	}
	return nil
}
