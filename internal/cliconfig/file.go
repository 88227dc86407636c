package cliconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/daniacca/inklings/internal/ink"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a simulation config, choosing the format from the file
// extension. Fields missing from the file keep their defaults. Unknown
// fields are rejected.
func LoadFile(path string) (ink.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ink.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	cfg := ink.DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return ink.Config{}, fmt.Errorf("parsing yaml config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return ink.Config{}, fmt.Errorf("parsing toml config %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return ink.Config{}, fmt.Errorf("parsing json config %s: %w", path, err)
		}
	default:
		return ink.Config{}, fmt.Errorf("unsupported config format %q", ext)
	}
	return cfg, nil
}
