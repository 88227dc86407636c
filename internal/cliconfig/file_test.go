package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daniacca/inklings/internal/ink"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadFile_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "sim.yaml", "rows: 10\ncols: 12\ninitial_ink:\n  red: 5\n  green: 6\n  blue: 7\n"},
		{"yml", "sim.yml", "rows: 10\ncols: 12\ninitial_ink: {red: 5, green: 6, blue: 7}\n"},
		{"toml", "sim.toml", "rows = 10\ncols = 12\n\n[initial_ink]\nred = 5\ngreen = 6\nblue = 7\n"},
		{"json", "sim.json", `{"rows": 10, "cols": 12, "initial_ink": {"red": 5, "green": 6, "blue": 7}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFile(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if cfg.Rows != 10 || cfg.Cols != 12 {
				t.Errorf("Expected 10x12, got %dx%d", cfg.Rows, cfg.Cols)
			}
			if cfg.InitialInk != (ink.InkLevels{Red: 5, Green: 6, Blue: 7}) {
				t.Errorf("Expected initial ink 5/6/7, got %+v", cfg.InitialInk)
			}
			if cfg.Agents != 8 {
				t.Errorf("Expected default 8 agents, got %d", cfg.Agents)
			}
			if err := ink.ValidateConfig(cfg); err != nil {
				t.Errorf("Expected loaded config to validate, got %v", err)
			}
		})
	}
}

func TestLoadFile_EmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg != ink.DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml field", "sim.yaml", "rowz: 3\n"},
		{"unknown toml field", "sim.toml", "rowz = 3\n"},
		{"unknown json field", "sim.json", `{"rowz": 3}`},
		{"bad json", "sim.json", `{"rows": `},
		{"unsupported", "sim.ini", "rows=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
