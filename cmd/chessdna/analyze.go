package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/chessdna/internal/domain/model"
)

// gamesFile is the input format for analyze.
type gamesFile struct {
	Subject string           `json:"subject"`
	Games   []model.GameStat `json:"games"`
}

func newAnalyzeCmd(build serviceBuilder) *cobra.Command {
	var (
		gamesPath string
		subject   string
		topN      int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyse a games file and print the style report",
		Long:  "Reads {\"subject\": ..., \"games\": [...]} from a JSON file, aggregates the games into style metrics and prints the report with the closest reference profiles.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(gamesPath)
			if err != nil {
				return fmt.Errorf("failed to read games file %s: %w", gamesPath, err)
			}
			var in gamesFile
			if err := json.Unmarshal(content, &in); err != nil {
				return fmt.Errorf("failed to unmarshal games JSON: %w", err)
			}
			if subject != "" {
				in.Subject = subject
			}

			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}
			report, err := svc.AnalyzeNow(cmd.Context(), model.AnalysisJob{
				Subject: in.Subject,
				Games:   in.Games,
				TopN:    topN,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&gamesPath, "games", "g", "", "Path to the games JSON file (required)")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Override the subject name from the file")
	cmd.Flags().IntVarP(&topN, "top", "n", 0, "Number of matches in the report (default: report_top_n)")
	if err := cmd.MarkFlagRequired("games"); err != nil {
		panic(fmt.Sprintf("failed to mark games flag as required: %v", err))
	}
	return cmd
}
