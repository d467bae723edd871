// Package main is the chessdna command line: analyse game files, inspect
// the catalogue and group players without running the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	app "github.com/okian/chessdna/internal/app"
	"github.com/okian/chessdna/internal/config"
	"github.com/okian/chessdna/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var cataloguePath string

	root := &cobra.Command{
		Use:           "chessdna",
		Short:         "Compare chess playing styles with grandmaster profiles",
		Long:          "chessdna aggregates per-game statistics into style metrics and ranks them by cosine similarity against a catalogue of reference profiles.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cataloguePath, "catalogue", "c", "", "Path to a YAML catalogue (default: built-in grandmasters)")

	build := func(ctx context.Context) (*app.Service, error) {
		cfg, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		if cataloguePath != "" {
			cfg.CataloguePath = cataloguePath
		}
		return app.FromConfig(cfg)
	}

	root.AddCommand(newAnalyzeCmd(build), newCatalogueCmd(build), newGroupCmd(build))
	return root
}

type serviceBuilder func(ctx context.Context) (*app.Service, error)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Logs go to stderr so stdout stays machine readable.
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithLevel("warn")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
