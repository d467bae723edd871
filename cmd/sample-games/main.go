package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/chessdna/internal/config"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/samplegames"
)

// Default configuration constants.
const (
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultDuplicateRatio = 0.1
	defaultRunTimeout     = 10 * time.Minute
)

var errThresholds = errors.New("thresholds must satisfy inaccuracy < mistake < blunder")

// options is the parsed command line.
type options struct {
	run     samplegames.Config
	logFile string
	help    bool
}

// parseFlags reads args into options. th supplies the default move
// classification cut-offs, normally from the service configuration.
func parseFlags(fs *flag.FlagSet, args []string, th features.Thresholds) (options, error) {
	var (
		opts       options
		baseURL    = fs.String("url", "http://localhost:9080", "Base URL of the service")
		players    = fs.Int("players", samplegames.DefaultPlayers, "Number of synthetic players")
		games      = fs.Int("games", samplegames.DefaultGamesPerPlayer, "Games per player")
		topN       = fs.Int("top", samplegames.DefaultTopN, "Matches requested per analysis")
		workers    = fs.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		duplicates = fs.Float64("duplicates", defaultDuplicateRatio, "Share of jobs resubmitted with the same job ID")
		seed       = fs.Uint64("seed", samplegames.DefaultSeed, "Seed for game generation")
		timeout    = fs.Duration("timeout", samplegames.DefaultTimeout, "HTTP request timeout")
		settle     = fs.Duration("settle", samplegames.DefaultSettleTimeout, "How long to wait for queued analyses")
		inaccuracy = fs.Float64("inaccuracy", th.Inaccuracy, "Centipawn loss counted as an inaccuracy")
		mistake    = fs.Float64("mistake", th.Mistake, "Centipawn loss counted as a mistake")
		blunder    = fs.Float64("blunder", th.Blunder, "Centipawn loss counted as a blunder")
		outputFile = fs.String("output", "", "Write generated players to this JSON file")
		verbose    = fs.Bool("verbose", false, "Enable verbose logging")
	)
	fs.StringVar(&opts.logFile, "log", "", "Log file (default: sample_games_TIMESTAMP.log)")
	fs.BoolVar(&opts.help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.run = samplegames.Config{
		BaseURL:        *baseURL,
		Players:        *players,
		GamesPerPlayer: *games,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		SettleTimeout:  *settle,
		DuplicateRatio: *duplicates,
		Seed:           *seed,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
		Thresholds:     features.Thresholds{Inaccuracy: *inaccuracy, Mistake: *mistake, Blunder: *blunder},
	}
	if !opts.run.Thresholds.Valid() {
		return options{}, errThresholds
	}
	return opts, nil
}

func main() {
	// Same CHESSDNA_ environment and file as the service, so generated
	// games use the cut-offs the service is configured with.
	appCfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	opts, err := parseFlags(flag.CommandLine, os.Args[1:], appCfg.Thresholds())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid flags:", err)
		os.Exit(2)
	}
	if opts.help {
		samplegames.ShowHelp(os.Stdout)
		return
	}

	closer, err := samplegames.SetupLogging(opts.logFile, opts.run.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to setup logging:", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if err := samplegames.Run(ctx, &opts.run); err != nil {
		fmt.Fprintln(os.Stderr, "Sample run failed:", err)
		cancel()
		stop()
		_ = closer.Close()
		os.Exit(1)
	}
}
