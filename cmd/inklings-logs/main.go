// Command inklings-logs merges the per-inkling log files of a run into a
// single time-ordered actions.txt.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daniacca/inklings/internal/cliconfig"
	"github.com/daniacca/inklings/internal/ink/notifiers"
)

func main() {
	dirFlag := flag.String("log-dir", "", "directory holding inkling<N>.txt files (default ./logFolder)")
	flag.Parse()

	dir := cliconfig.Lookup(*dirFlag, "INKLINGS_LOG_DIR", "./logFolder")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	n, err := notifiers.CombineLogs(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d lines to %s\n", n, filepath.Join(dir, notifiers.CombinedLogName))
}
