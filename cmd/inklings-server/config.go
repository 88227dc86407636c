package main

import (
	"flag"
	"time"

	"github.com/daniacca/inklings/internal/cliconfig"
	"github.com/daniacca/inklings/internal/ink"
)

// ServerConfig holds the server configuration
type ServerConfig struct {
	Addr          string
	SnapshotDir   string
	SnapshotEvery time.Duration
	LogLevel      string
	Sim           ink.Config
}

func serverResolvers() []cliconfig.Resolver[ServerConfig] {
	resolvers := []cliconfig.Resolver[ServerConfig]{
		{
			FlagName:    "addr",
			EnvVarName:  "INKLINGS_ADDR",
			DefaultVal:  ":8080",
			Description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			Setter:      func(c *ServerConfig, v string) error { c.Addr = v; return nil },
		},
		{
			FlagName:    "snapshot-dir",
			EnvVarName:  "INKLINGS_SNAPSHOT_DIR",
			DefaultVal:  "./data",
			Description: "Directory where simulation snapshots are stored; empty disables saving",
			Setter:      func(c *ServerConfig, v string) error { c.SnapshotDir = v; return nil },
		},
		{
			FlagName:    "snapshot-every",
			EnvVarName:  "INKLINGS_SNAPSHOT_EVERY",
			DefaultVal:  "30s",
			Description: "How often to write snapshots (e.g. 10s); 0 disables periodic snapshots",
			Setter:      func(c *ServerConfig, v string) error { return cliconfig.Duration(&c.SnapshotEvery, v) },
		},
		{
			FlagName:    "log-level",
			EnvVarName:  "INKLINGS_LOG_LEVEL",
			DefaultVal:  "info",
			Description: "Log level: debug, info, warn, error",
			Setter:      func(c *ServerConfig, v string) error { c.LogLevel = v; return nil },
		},
	}
	return append(resolvers, cliconfig.SimulationResolvers(func(c *ServerConfig) *ink.Config { return &c.Sim })...)
}

// loadServerConfig loads server configuration from CLI flags, environment
// variables and an optional simulation config file.
func loadServerConfig(fs *flag.FlagSet, args []string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := cliconfig.Resolve(fs, args, &cfg, serverResolvers()); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
