package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/daniacca/inklings/internal/logging"
)

func main() {
	cfg, err := loadServerConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr).WithPrefix("inklings-server")
	logger.Infof("Starting inklings server: addr=%s log_level=%s", cfg.Addr, logger.Level())

	sim, err := ink.NewSimulation(cfg.Sim)
	if err != nil {
		logger.Fatalf("Invalid simulation config: %v", err)
	}
	srv, err := NewServer(sim, logger)
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}
	srv.SetSnapshotDir(cfg.SnapshotDir)
	if cfg.SnapshotDir != "" {
		logger.Infof("Snapshot directory configured: dir=%s every=%v", cfg.SnapshotDir, cfg.SnapshotEvery)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		logger.Fatalf("Failed to start simulation: %v", err)
	}
	go srv.RunSnapshots(ctx, cfg.SnapshotEvery)
	go func() {
		<-sim.Done()
		if sim.LiveCount() == 0 {
			logger.Infof("All inklings terminated: run_id=%s", sim.RunID())
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server listening: addr=%s run_id=%s", cfg.Addr, sim.RunID())
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Infof("Signal received, shutting down")
	case <-srv.ShutdownRequested():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server error: %v", err)
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("HTTP shutdown incomplete: error=%v", err)
	}
	if err := sim.Stop(); err != nil {
		logger.Errorf("Simulation stop failed: error=%v", err)
	}
	if cfg.SnapshotDir != "" {
		if path, err := srv.saveSnapshot(); err != nil {
			logger.Errorf("Final snapshot failed: error=%v", err)
		} else {
			logger.Infof("Final snapshot saved: path=%s", path)
		}
	}
	if err := srv.Close(); err != nil {
		logger.Errorf("Closing notifiers failed: error=%v", err)
	}
	logger.Infof("Server stopped: run_id=%s live=%d", sim.RunID(), sim.LiveCount())
}
