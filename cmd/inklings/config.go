package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/daniacca/inklings/internal/cliconfig"
	"github.com/daniacca/inklings/internal/ink"
)

const (
	minRows   = 20
	minCols   = 20
	minAgents = 8
)

// AppConfig holds the interactive program configuration
type AppConfig struct {
	Sim      ink.Config
	LogDir   string
	LogLevel string
	Refresh  time.Duration
	// Notice explains a fallback to the small board, if one happened.
	Notice string
}

func appResolvers() []cliconfig.Resolver[AppConfig] {
	resolvers := cliconfig.SimulationResolvers(func(c *AppConfig) *ink.Config { return &c.Sim })
	return append(resolvers,
		cliconfig.Resolver[AppConfig]{
			FlagName:    "log-dir",
			EnvVarName:  "INKLINGS_LOG_DIR",
			DefaultVal:  "./logFolder",
			Description: "directory for per-inkling logs and the program log",
			Setter:      func(c *AppConfig, v string) error { c.LogDir = v; return nil },
		},
		cliconfig.Resolver[AppConfig]{
			FlagName:    "log-level",
			EnvVarName:  "INKLINGS_LOG_LEVEL",
			DefaultVal:  "info",
			Description: "Log level: debug, info, warn, error",
			Setter:      func(c *AppConfig, v string) error { c.LogLevel = v; return nil },
		},
		cliconfig.Resolver[AppConfig]{
			FlagName:    "refresh",
			EnvVarName:  "INKLINGS_REFRESH",
			DefaultVal:  "50ms",
			Description: "screen refresh interval",
			Setter:      func(c *AppConfig, v string) error { return cliconfig.Duration(&c.Refresh, v) },
		},
	)
}

// loadAppConfig resolves flags, environment and config file, then applies
// the positional "rows cols agents" arguments.
func loadAppConfig(fs *flag.FlagSet, args []string) (AppConfig, error) {
	var cfg AppConfig
	resolvers := appResolvers()
	if err := cliconfig.Resolve(fs, args, &cfg, resolvers); err != nil {
		return AppConfig{}, err
	}

	explicit := cliconfig.IsSet(fs, resolvers, "config", "rows", "cols", "agents")
	if err := applyBoardArgs(&cfg, fs.Args(), explicit); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// applyBoardArgs sets rows, cols and agents from positional arguments. A
// board below 20x20 with 8 inklings, or no board at all when none was
// configured otherwise, falls back to 8x8 with 4 inklings.
func applyBoardArgs(cfg *AppConfig, args []string, explicit bool) error {
	switch len(args) {
	case 0:
		if explicit {
			return nil
		}
		fallback(cfg, "No arguments provided, running with 8x8 grid and 4 inklings.")
		return nil
	case 3:
	default:
		return errors.New("usage: inklings [flags] [rows cols agents]")
	}

	var nums [3]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid board argument %q: %w", a, err)
		}
		nums[i] = n
	}
	rows, cols, agents := nums[0], nums[1], nums[2]
	if rows < minRows || cols < minCols || agents < minAgents {
		fallback(cfg, fmt.Sprintf("Board must be at least %dx%d with %d inklings, running with 8x8 grid and 4 inklings.",
			minRows, minCols, minAgents))
		return nil
	}
	cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents = rows, cols, agents
	return nil
}

func fallback(cfg *AppConfig, notice string) {
	cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents = 8, 8, 4
	cfg.Notice = notice
}
