package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniacca/inklings/internal/cliconfig"
	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/ink/notifiers"
	"github.com/daniacca/inklings/internal/logging"
)

// SimConfig holds the batch run configuration
type SimConfig struct {
	Duration    time.Duration
	LogDir      string
	SnapshotDir string
	LogLevel    string
	Sim         ink.Config
}

func simResolvers() []cliconfig.Resolver[SimConfig] {
	resolvers := []cliconfig.Resolver[SimConfig]{
		{
			FlagName:    "duration",
			EnvVarName:  "INKLINGS_DURATION",
			DefaultVal:  "30s",
			Description: "stop after this long even if inklings are still alive",
			Setter:      func(c *SimConfig, v string) error { return cliconfig.Duration(&c.Duration, v) },
		},
		{
			FlagName:    "log-dir",
			EnvVarName:  "INKLINGS_LOG_DIR",
			Description: "optional directory for per-inkling logs and actions.txt",
			Setter:      func(c *SimConfig, v string) error { c.LogDir = v; return nil },
		},
		{
			FlagName:    "snapshot-dir",
			EnvVarName:  "INKLINGS_SNAPSHOT_DIR",
			Description: "optional directory for the final snapshot",
			Setter:      func(c *SimConfig, v string) error { c.SnapshotDir = v; return nil },
		},
		{
			FlagName:    "log-level",
			EnvVarName:  "INKLINGS_LOG_LEVEL",
			DefaultVal:  "warn",
			Description: "Log level: debug, info, warn, error",
			Setter:      func(c *SimConfig, v string) error { c.LogLevel = v; return nil },
		},
	}
	return append(resolvers, cliconfig.SimulationResolvers(func(c *SimConfig) *ink.Config { return &c.Sim })...)
}

func main() {
	var cfg SimConfig
	if err := cliconfig.Resolve(flag.CommandLine, os.Args[1:], &cfg, simResolvers()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr).WithPrefix("inklings-sim")
	snap, err := runBatch(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	printSummary(os.Stdout, snap)
}

// runBatch runs one simulation until every inkling terminated, the
// duration elapsed or ctx was cancelled, and returns the final snapshot.
func runBatch(ctx context.Context, cfg SimConfig, logger *logging.Logger) (ink.Snapshot, error) {
	sim, err := ink.NewSimulation(cfg.Sim)
	if err != nil {
		return ink.Snapshot{}, err
	}
	sim.SetLogger(logger)

	var events *ink.EventManager
	if cfg.LogDir != "" {
		agentLogs, err := notifiers.NewLogFileNotifier("logfile", cfg.LogDir)
		if err != nil {
			return ink.Snapshot{}, err
		}
		events = ink.NewEventManagerWithLogger(logger)
		if err := events.RegisterNotifier(agentLogs); err != nil {
			return ink.Snapshot{}, err
		}
		sim.SetEventManager(events)
	}

	if err := sim.Start(ctx); err != nil {
		return ink.Snapshot{}, err
	}

	timer := time.NewTimer(cfg.Duration)
	defer timer.Stop()
	select {
	case <-sim.Done():
	case <-timer.C:
		logger.Infof("Duration elapsed: run_id=%s live=%d", sim.RunID(), sim.LiveCount())
	case <-ctx.Done():
	}
	if err := sim.Stop(); err != nil {
		return ink.Snapshot{}, err
	}

	if events != nil {
		if err := events.Close(); err != nil {
			return ink.Snapshot{}, err
		}
		if _, err := notifiers.CombineLogs(cfg.LogDir); err != nil {
			return ink.Snapshot{}, err
		}
	}

	snap := sim.Snapshot()
	if cfg.SnapshotDir != "" {
		path, err := ink.WriteSnapshotFile(cfg.SnapshotDir, snap)
		if err != nil {
			return ink.Snapshot{}, err
		}
		logger.Infof("Snapshot saved: path=%s", path)
	}
	return snap, nil
}

func printSummary(w io.Writer, snap ink.Snapshot) {
	fmt.Fprintf(w, "Simulation finished (run_id=%s, grid=%dx%d)\n", snap.RunID, snap.Rows, snap.Cols)
	fmt.Fprintf(w, "Live inklings: %d/%d\n", snap.LiveCount, len(snap.Agents))

	painted := snap.Painted()
	fmt.Fprintln(w, "Ink:")
	for _, c := range ink.Colors {
		fmt.Fprintf(w, "  %-5s level=%d/%d painted=%d period=%dms\n",
			c, snap.Ink.Get(c), snap.Capacity, painted.Get(c), snap.RefillPeriods.Get(c))
	}
}
