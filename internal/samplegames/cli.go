package samplegames

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/chessdna/pkg/logger"
)

// SetupLogging sends logs to stdout and to logFile. An empty logFile gets
// a timestamped name.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "sample_games_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(
		logger.WithWriter(io.MultiWriter(os.Stdout, file)),
		logger.WithFormat("text"),
		logger.WithLevel(level),
	); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file, nil
}

// ShowHelp prints usage information for the sample games tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `chessdna sample games
=====================

Generates synthetic players from a few style archetypes, submits their games
to a running chessdna service and verifies the reports it produces.

Usage:
  go run ./cmd/sample-games [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of synthetic players (default 200)
  -games int
        Games per player (default 40)
  -top int
        Matches requested per analysis (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -duplicates float
        Share of jobs resubmitted with the same job ID (default 0.1)
  -seed uint
        Seed for game generation (default 42)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        How long to wait for queued analyses (default 2m)
  -inaccuracy float
        Centipawn loss counted as an inaccuracy (default CHESSDNA_INACCURACY_CP or 50)
  -mistake float
        Centipawn loss counted as a mistake (default CHESSDNA_MISTAKE_CP or 150)
  -blunder float
        Centipawn loss counted as a blunder (default CHESSDNA_BLUNDER_CP or 300)
  -output string
        Write generated players to this JSON file
  -log string
        Log file (default: sample_games_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/sample-games -players 1000 -workers 16
  go run ./cmd/sample-games -output players.json && chessdna group -i players.json
`)
}
