package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/ink/notifiers"
	"github.com/daniacca/inklings/internal/logging"
	"github.com/daniacca/inklings/internal/tui"
	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg, err := loadAppConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Notice != "" {
		fmt.Println(cfg.Notice)
		time.Sleep(2 * time.Second)
	}

	if err := run(cfg, tcell.NewScreen); err != nil {
		fmt.Fprintln(os.Stderr, "inklings:", err)
		os.Exit(1)
	}
}

// run plays one interactive session on the screen made by newScreen and
// returns once the user quits.
func run(cfg AppConfig, newScreen func() (tcell.Screen, error)) error {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.LogDir, "inklings.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening program log: %w", err)
	}
	defer logFile.Close()
	logger := logging.NewLogger(cfg.LogLevel, logFile).WithPrefix("inklings")

	sim, err := ink.NewSimulation(cfg.Sim)
	if err != nil {
		return err
	}
	sim.SetLogger(logger)

	events := ink.NewEventManagerWithLogger(logger)
	defer events.Close()
	agentLogs, err := notifiers.NewLogFileNotifier("logfile", cfg.LogDir)
	if err != nil {
		return err
	}
	if err := events.RegisterNotifier(agentLogs); err != nil {
		return err
	}
	sim.SetEventManager(events)

	screen, err := newScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		screen.Fini()
		return err
	}

	controller := tui.NewController(screen, sim)
	controller.SetRefresh(cfg.Refresh)
	controller.SetLogger(logger)
	runErr := controller.Run(ctx)
	screen.Fini()

	logger.Infof("Shutting down: run_id=%s", sim.RunID())
	if err := sim.Stop(); err != nil {
		logger.Errorf("Simulation stop failed: error=%v", err)
	}
	if err := events.Close(); err != nil {
		logger.Errorf("Closing event sinks failed: error=%v", err)
	}

	snap := sim.Snapshot()
	fmt.Printf("run %s: %d of %d inklings still alive, ink red=%d green=%d blue=%d\n",
		snap.RunID, snap.LiveCount, len(snap.Agents), snap.Ink.Red, snap.Ink.Green, snap.Ink.Blue)
	fmt.Printf("per-inkling logs written to %s\n", cfg.LogDir)
	return runErr
}
