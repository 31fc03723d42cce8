package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/landcover-cli/internal/boundary"
	"github.com/sells-group/landcover-cli/internal/db"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Manage the PostGIS boundary table",
}

var boundaryLoadCmd = &cobra.Command{
	Use:   "load <shapefile>",
	Short: "Replace the boundary table with the polygons of a shapefile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("area"); err != nil {
			return err
		}

		pool, err := db.Connect(cfg.Database.URL)(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		nameField, _ := cmd.Flags().GetString("name-field")
		n, err := boundary.Load(ctx, pool, args[0], boundary.LoadOptions{
			Table:      cfg.Database.BoundaryTable,
			GeomColumn: cfg.Database.GeomColumn,
			NameField:  nameField,
		})
		if err != nil {
			return eris.Wrap(err, "boundary load")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d polygons into %s\n", n, cfg.Database.BoundaryTable)
		return nil
	},
}

func init() {
	boundaryLoadCmd.Flags().String("name-field", "NAME", "shapefile attribute copied into the name column")
	boundaryCmd.AddCommand(boundaryLoadCmd)
	rootCmd.AddCommand(boundaryCmd)
}
