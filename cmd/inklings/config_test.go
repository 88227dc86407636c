package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func load(t *testing.T, args ...string) (AppConfig, error) {
	t.Helper()
	return loadAppConfig(flag.NewFlagSet("inklings", flag.ContinueOnError), args)
}

func TestLoadAppConfig_NoArgsFallsBack(t *testing.T) {
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sim.Rows != 8 || cfg.Sim.Cols != 8 || cfg.Sim.Agents != 4 {
		t.Errorf("Expected 8x8 with 4 inklings, got %dx%d with %d", cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents)
	}
	if cfg.Notice == "" {
		t.Error("Expected a fallback notice")
	}
	if cfg.LogDir != "./logFolder" {
		t.Errorf("Expected LogDir './logFolder', got '%s'", cfg.LogDir)
	}
	if cfg.Refresh != 50*time.Millisecond {
		t.Errorf("Expected refresh 50ms, got %v", cfg.Refresh)
	}
}

func TestLoadAppConfig_PositionalBoard(t *testing.T) {
	cfg, err := load(t, "-log-level", "debug", "25", "30", "10")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sim.Rows != 25 || cfg.Sim.Cols != 30 || cfg.Sim.Agents != 10 {
		t.Errorf("Expected 25x30 with 10 inklings, got %dx%d with %d", cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents)
	}
	if cfg.Notice != "" {
		t.Errorf("Expected no notice, got %q", cfg.Notice)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoadAppConfig_SmallBoardFallsBack(t *testing.T) {
	cfg, err := load(t, "20", "19", "8")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sim.Rows != 8 || cfg.Sim.Agents != 4 {
		t.Errorf("Expected fallback board, got %dx%d with %d", cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents)
	}
	if cfg.Notice == "" {
		t.Error("Expected a fallback notice")
	}
}

func TestLoadAppConfig_FlagsWithoutPositional(t *testing.T) {
	cfg, err := load(t, "-rows", "40", "-cols", "22")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sim.Rows != 40 || cfg.Sim.Cols != 22 || cfg.Sim.Agents != 8 {
		t.Errorf("Expected 40x22 with 8 inklings, got %dx%d with %d", cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents)
	}
	if cfg.Notice != "" {
		t.Errorf("Expected no notice, got %q", cfg.Notice)
	}
}

func TestLoadAppConfig_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.toml")
	if err := os.WriteFile(path, []byte("rows = 24\ncols = 24\nagents = 12\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := load(t, "-config", path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Sim.Rows != 24 || cfg.Sim.Agents != 12 {
		t.Errorf("Expected 24x24 with 12 inklings, got %dx%d with %d", cfg.Sim.Rows, cfg.Sim.Cols, cfg.Sim.Agents)
	}
}

func TestLoadAppConfig_BadArgs(t *testing.T) {
	if _, err := load(t, "20", "20"); err == nil {
		t.Error("Expected error for two positional arguments")
	}
	if _, err := load(t, "20", "twenty", "8"); err == nil {
		t.Error("Expected error for a non-numeric argument")
	}
}
