package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/chessdna/internal/domain/model"
)

func newCatalogueCmd(build serviceBuilder) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Print the reference profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}
			profiles := svc.Catalogue(cmd.Context())

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), profiles)
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				if err := enc.Encode(struct {
					Profiles []model.ReferenceProfile `yaml:"profiles"`
				}{profiles}); err != nil {
					return fmt.Errorf("failed to encode catalogue: %w", err)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q; use yaml or json", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")
	return cmd
}
