package loadtest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/areacheck/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	os.Stdout.WriteString(`Area Check Attempt Load Tool
============================

Submits concurrent attempts to a running area check service, then reads
every session history back and verifies that no accepted attempt was lost.

Usage:
  go run ./cmd/attempt-load [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -attempts int
        Number of attempts to submit (default 5000)
  -sessions int
        Number of sessions to spread attempts over (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -variant string
        Variant whose bounds generated values stay within (default "quarter-disk")
  -seed uint
        Generator seed, 0 for a clock-based seed
  -clear
        Clear every session after verification
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated attempts to this JSON file
  -log string
        Also write log output to this file
  -verbose
        Log every rejected or failed request
  -help
        Show this help message

Examples:
  go run ./cmd/attempt-load -attempts 20000 -sessions 4 -workers 64
  go run ./cmd/attempt-load -variant triangle -clear
`)
}
