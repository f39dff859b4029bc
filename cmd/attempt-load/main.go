package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/areacheck/internal/domain/area"
	"github.com/okian/areacheck/internal/loadtest"
)

// Default configuration constants.
const (
	defaultAttempts    = 5000
	defaultSessions    = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		attempts = flag.Int("attempts", defaultAttempts, "Number of attempts to submit")
		sessions = flag.Int("sessions", defaultSessions, "Number of sessions to spread attempts over")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		variant  = flag.String("variant", area.DefaultVariant, "Variant whose bounds generated values stay within")
		seed     = flag.Uint64("seed", 0, "Generator seed, 0 for a clock-based seed")
		clearAll = flag.Bool("clear", false, "Clear every session after verification")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output   = flag.String("output", "", "Write the generated attempts to this JSON file")
		logFile  = flag.String("log", "", "Also write log output to this file")
		verbose  = flag.Bool("verbose", false, "Log every rejected or failed request")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := loadtest.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &loadtest.Config{
		BaseURL:    *baseURL,
		Attempts:   *attempts,
		Sessions:   *sessions,
		Workers:    *workers,
		Timeout:    *timeout,
		Variant:    *variant,
		Seed:       *seed,
		Clear:      *clearAll,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, err := loadtest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Load run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
