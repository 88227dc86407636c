package ink

import "time"

// Config describes a simulation. It is read once by NewSimulation and never
// changed afterwards.
type Config struct {
	Rows   int `json:"rows" yaml:"rows" toml:"rows"`
	Cols   int `json:"cols" yaml:"cols" toml:"cols"`
	Agents int `json:"agents" yaml:"agents" toml:"agents"`

	Capacity     int       `json:"capacity" yaml:"capacity" toml:"capacity"`
	InitialInk   InkLevels `json:"initial_ink" yaml:"initial_ink" toml:"initial_ink"`
	RefillAmount int       `json:"refill_amount" yaml:"refill_amount" toml:"refill_amount"`
	// MaxAddInk is the amount added by a manual injection (AddInk).
	MaxAddInk int `json:"max_add_ink" yaml:"max_add_ink" toml:"max_add_ink"`

	// Periods are in milliseconds so every config format can express them.
	RefillPeriodMS    InkLevels `json:"refill_period_ms" yaml:"refill_period_ms" toml:"refill_period_ms"`
	MinRefillPeriodMS int       `json:"min_refill_period_ms" yaml:"min_refill_period_ms" toml:"min_refill_period_ms"`
	MaxRefillPeriodMS int       `json:"max_refill_period_ms" yaml:"max_refill_period_ms" toml:"max_refill_period_ms"`
	AgentDelayMS      int       `json:"agent_delay_ms" yaml:"agent_delay_ms" toml:"agent_delay_ms"`

	// Seed makes placement and movement reproducible. Zero means time-seeded.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
}

// DefaultConfig returns the classic 20×20 board with 8 inklings.
func DefaultConfig() Config {
	return Config{
		Rows:              20,
		Cols:              20,
		Agents:            8,
		Capacity:          50,
		InitialInk:        InkLevels{Red: 20, Green: 10, Blue: 40},
		RefillAmount:      10,
		MaxAddInk:         10,
		RefillPeriodMS:    InkLevels{Red: 1000, Green: 1500, Blue: 2000},
		MinRefillPeriodMS: 30,
		MaxRefillPeriodMS: 3_600_000,
		AgentDelayMS:      1000,
	}
}

// AgentDelay is the pause between two movement cycles of an agent.
func (c Config) AgentDelay() time.Duration {
	return time.Duration(c.AgentDelayMS) * time.Millisecond
}

// RefillPeriod is the sleep between two refills of the given color.
func (c Config) RefillPeriod(color Color) time.Duration {
	return time.Duration(c.RefillPeriodMS.Get(color)) * time.Millisecond
}

// MinRefillPeriod bounds how far SpeedUpProducers may shorten a period.
func (c Config) MinRefillPeriod() time.Duration {
	return time.Duration(c.MinRefillPeriodMS) * time.Millisecond
}

// MaxRefillPeriod bounds how far SlowDownProducers may lengthen a period.
func (c Config) MaxRefillPeriod() time.Duration {
	return time.Duration(c.MaxRefillPeriodMS) * time.Millisecond
}

// InteriorCells is the number of cells not on the outer ring, i.e. the
// cells an agent may be placed on.
func (c Config) InteriorCells() int {
	if c.Rows < 2 || c.Cols < 2 {
		return 0
	}
	return (c.Rows - 2) * (c.Cols - 2)
}
