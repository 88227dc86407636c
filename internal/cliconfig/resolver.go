// Package cliconfig resolves command-line options for the inklings
// binaries: each option comes from its flag, then its INKLINGS_*
// environment variable, then its default.
package cliconfig

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Resolver defines how to resolve a single configuration value
type Resolver[T any] struct {
	FlagName    string
	EnvVarName  string
	DefaultVal  string
	Description string
	Setter      func(*T, string) error
}

// Resolve registers one string flag per resolver on fs, parses args and
// applies every resolver in order. Setters run even for empty values so a
// later resolver can rely on an earlier one having run.
func Resolve[T any](fs *flag.FlagSet, args []string, target *T, resolvers []Resolver[T]) error {
	flagVars := make(map[string]*string, len(resolvers))
	for _, r := range resolvers {
		flagVars[r.FlagName] = fs.String(r.FlagName, "", r.Description)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, r := range resolvers {
		value := Lookup(*flagVars[r.FlagName], r.EnvVarName, r.DefaultVal)
		if err := r.Setter(target, value); err != nil {
			return fmt.Errorf("invalid value for %s: %w", r.FlagName, err)
		}
	}
	return nil
}

// Lookup returns flagVal if set, else the environment variable, else def.
func Lookup(flagVal, envVar, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	return def
}

// Int parses v into *dst, leaving it untouched when v is empty.
func Int(dst *int, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// Int64 parses v into *dst, leaving it untouched when v is empty.
func Int64(dst *int64, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// Duration parses v into *dst, leaving it untouched when v is empty.
func Duration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("negative duration %s", v)
	}
	*dst = d
	return nil
}

// IsSet reports whether any of the named options was given explicitly,
// either as a flag on the parsed fs or through its environment variable.
func IsSet[T any](fs *flag.FlagSet, resolvers []Resolver[T], names ...string) bool {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	set := false
	fs.Visit(func(f *flag.Flag) {
		if want[f.Name] && f.Value.String() != "" {
			set = true
		}
	})
	if set {
		return true
	}
	for _, r := range resolvers {
		if want[r.FlagName] && r.EnvVarName != "" && os.Getenv(r.EnvVarName) != "" {
			return true
		}
	}
	return false
}
