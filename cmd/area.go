package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/landcover-cli/internal/boundary"
	"github.com/sells-group/landcover-cli/internal/db"
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Print the total area of the boundary table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("area"); err != nil {
			return err
		}

		provider := boundary.NewProvider(db.Connect(cfg.Database.URL), cfg.Database.BoundaryTable, cfg.Database.GeomColumn)
		area, err := provider.TotalArea(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Total area of %s: %f\n", cfg.Map.Region, area)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(areaCmd)
}
