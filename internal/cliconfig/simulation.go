package cliconfig

import (
	"github.com/daniacca/inklings/internal/ink"
)

// SimulationResolvers returns the options shared by every binary that runs
// a simulation. The config file is applied first, then individual options
// override it; options left empty keep the file's or the default value.
// sim selects the ink.Config inside the caller's config struct.
func SimulationResolvers[T any](sim func(*T) *ink.Config) []Resolver[T] {
	intOpt := func(name, env, desc string, field func(*ink.Config) *int) Resolver[T] {
		return Resolver[T]{
			FlagName:    name,
			EnvVarName:  env,
			Description: desc,
			Setter:      func(c *T, v string) error { return Int(field(sim(c)), v) },
		}
	}

	return []Resolver[T]{
		{
			FlagName:    "config",
			EnvVarName:  "INKLINGS_CONFIG",
			Description: "optional simulation config file (.yaml, .yml, .toml or .json)",
			Setter: func(c *T, v string) error {
				cfg := ink.DefaultConfig()
				if v != "" {
					var err error
					if cfg, err = LoadFile(v); err != nil {
						return err
					}
				}
				*sim(c) = cfg
				return nil
			},
		},
		intOpt("rows", "INKLINGS_ROWS", "grid rows", func(c *ink.Config) *int { return &c.Rows }),
		intOpt("cols", "INKLINGS_COLS", "grid columns", func(c *ink.Config) *int { return &c.Cols }),
		intOpt("agents", "INKLINGS_AGENTS", "number of inklings", func(c *ink.Config) *int { return &c.Agents }),
		intOpt("capacity", "INKLINGS_CAPACITY", "ink pool capacity", func(c *ink.Config) *int { return &c.Capacity }),
		intOpt("refill-amount", "INKLINGS_REFILL_AMOUNT", "ink added per producer refill", func(c *ink.Config) *int { return &c.RefillAmount }),
		intOpt("add-ink", "INKLINGS_ADD_INK", "ink added per manual injection", func(c *ink.Config) *int { return &c.MaxAddInk }),
		intOpt("agent-delay-ms", "INKLINGS_AGENT_DELAY_MS", "sleep between inkling cycles in milliseconds", func(c *ink.Config) *int { return &c.AgentDelayMS }),
		{
			FlagName:    "seed",
			EnvVarName:  "INKLINGS_SEED",
			Description: "random seed; 0 seeds from the clock",
			Setter:      func(c *T, v string) error { return Int64(&sim(c).Seed, v) },
		},
	}
}
