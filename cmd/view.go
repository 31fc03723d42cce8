package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/viewer"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the last generated map in the default browser",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfg.Output.MapPath
		if !config.FileExists(path) {
			fmt.Fprintf(cmd.OutOrStdout(), "No map at %s; run analyze first.\n", path)
			return nil
		}
		return viewer.New().Open(path)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
