package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/types"
)

// groupOutput is what group prints.
type groupOutput struct {
	Grouping    comparative.Grouping         `json:"grouping"`
	Trends      map[string]comparative.Trend `json:"trends"`
	Comparisons []types.Comparison           `json:"comparisons,omitempty"`
}

func newGroupCmd(build serviceBuilder) *cobra.Command {
	var (
		subjectsPath string
		k            int
		mode         string
		pairs        bool
	)

	cmd := &cobra.Command{
		Use:   "group",
		Short: "Analyse several players and group them by style",
		Long:  "Reads {\"name\": [games...], ...} from a JSON file, analyses every player and partitions them into at most k groups. Players are added in name order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := os.ReadFile(subjectsPath)
			if err != nil {
				return fmt.Errorf("failed to read subjects file %s: %w", subjectsPath, err)
			}
			var in map[string][]model.GameStat
			if err := json.Unmarshal(content, &in); err != nil {
				return fmt.Errorf("failed to unmarshal subjects JSON: %w", err)
			}
			names := make([]string, 0, len(in))
			for name := range in {
				names = append(names, name)
			}
			sort.Strings(names)

			ctx := cmd.Context()
			svc, err := build(ctx)
			if err != nil {
				return err
			}
			for _, name := range names {
				if _, err := svc.AnalyzeNow(ctx, model.AnalysisJob{Subject: name, Games: in[name]}); err != nil {
					return fmt.Errorf("analyse %s: %w", name, err)
				}
			}

			g, err := svc.Group(ctx, k, mode)
			if err != nil {
				return err
			}
			out := groupOutput{Grouping: g, Trends: svc.Trends(ctx)}
			if pairs {
				for i := range names {
					for j := i + 1; j < len(names); j++ {
						c, err := svc.Compare(ctx, names[i], names[j])
						if err != nil {
							return err
						}
						out.Comparisons = append(out.Comparisons, c)
					}
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&subjectsPath, "subjects", "i", "", "Path to the subjects JSON file (required)")
	cmd.Flags().IntVarP(&k, "k", "k", 3, "Number of groups")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Grouping mode: kmeans or round_robin (default: group_mode)")
	cmd.Flags().BoolVar(&pairs, "pairs", false, "Also print pairwise similarities")
	if err := cmd.MarkFlagRequired("subjects"); err != nil {
		panic(fmt.Sprintf("failed to mark subjects flag as required: %v", err))
	}
	return cmd
}
